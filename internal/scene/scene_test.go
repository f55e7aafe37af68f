package scene

import (
	"testing"

	"collisioneer/internal/character"
	"collisioneer/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityWithBox(t *testing.T, name string, at mgl32.Vec3) *Entity {
	t.Helper()
	c, err := physics.CuboidCollider(mgl32.Vec3{0.5, 0.5, 0.5})
	require.NoError(t, err)
	e := NewEntity(name)
	e.Transform = physics.NewTransform(at)
	e.Collider = c
	return e
}

func TestSceneAddFindRemove(t *testing.T) {
	s := NewScene("Test")
	a := entityWithBox(t, "Player", mgl32.Vec3{})
	b := entityWithBox(t, "Enemy", mgl32.Vec3{1, 0, 0})
	b.Tags = []string{"hostile"}
	s.Add(a)
	s.Add(b)

	assert.Len(t, s.Entities, 2)
	assert.Same(t, a, s.Find(a.ID))
	assert.Same(t, b, s.FindByName("Enemy"))
	assert.Nil(t, s.FindByName("Nobody"))
	assert.Equal(t, []*Entity{b}, s.FindByTag("hostile"))
	assert.Nil(t, s.Find(uuid.New()))

	assert.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Nil(t, s.Find(a.ID))
	require.Len(t, s.Entities, 1)
	assert.Same(t, b, s.Entities[0])
}

func TestSceneAddAssignsMissingID(t *testing.T) {
	s := NewScene("Test")
	e := &Entity{Name: "bare"}
	s.Add(e)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Same(t, e, s.Find(e.ID))
}

func TestObstaclesSnapshot(t *testing.T) {
	s := NewScene("Test")
	player := entityWithBox(t, "Player", mgl32.Vec3{})
	p := character.DefaultParams()
	player.Character = &p
	wall := entityWithBox(t, "Wall", mgl32.Vec3{3, 0, 0})
	decor := NewEntity("Decor")
	s.Add(player)
	s.Add(wall)
	s.Add(decor)

	all := s.Obstacles()
	assert.Len(t, all, 2, "entities without colliders are skipped")

	obstacles := s.Obstacles(player.ID)
	require.Len(t, obstacles, 1)
	assert.Equal(t, wall.ID, obstacles[0].Entity)
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, obstacles[0].Pose.Position)

	// Moving the entity afterwards does not touch the snapshot.
	wall.Transform.Translation = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, obstacles[0].Pose.Position)

	assert.Equal(t, []*Entity{player}, s.Characters())
}
