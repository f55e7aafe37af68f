// Package scene stores the entities of a level and hands out obstacle
// snapshots for sweeps.
package scene

import (
	"slices"

	"collisioneer/internal/character"
	"collisioneer/internal/physics"
	"collisioneer/internal/sweep"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type Entity struct {
	ID        uuid.UUID
	Name      string
	Tags      []string
	Color     string
	Transform physics.Transform
	Collider  *physics.Collider

	// Character is set for entities driven by a character controller.
	Character *character.Params
}

func NewEntity(name string) *Entity {
	return &Entity{
		ID:        uuid.New(),
		Name:      name,
		Transform: physics.NewTransform(mgl32.Vec3{}),
	}
}

func (e *Entity) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

func (e *Entity) IsCharacter() bool { return e.Character != nil }

type Scene struct {
	Name     string
	Entities []*Entity
	byID     map[uuid.UUID]*Entity
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:     name,
		Entities: make([]*Entity, 0),
		byID:     make(map[uuid.UUID]*Entity),
	}
}

// Add appends e, assigning an ID if it has none.
func (s *Scene) Add(e *Entity) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.Entities = append(s.Entities, e)
	s.byID[e.ID] = e
}

func (s *Scene) Remove(id uuid.UUID) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	s.Entities = slices.DeleteFunc(s.Entities, func(e *Entity) bool { return e.ID == id })
	return true
}

func (s *Scene) Find(id uuid.UUID) *Entity {
	return s.byID[id]
}

func (s *Scene) FindByName(name string) *Entity {
	for _, e := range s.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*Entity {
	var result []*Entity
	for _, e := range s.Entities {
		if e.HasTag(tag) {
			result = append(result, e)
		}
	}
	return result
}

func (s *Scene) Characters() []*Entity {
	var result []*Entity
	for _, e := range s.Entities {
		if e.IsCharacter() {
			result = append(result, e)
		}
	}
	return result
}

// Obstacles snapshots every collidable entity not in exclude. Poses are
// copied, so the snapshot stays valid while entities move.
func (s *Scene) Obstacles(exclude ...uuid.UUID) []sweep.Candidate {
	out := make([]sweep.Candidate, 0, len(s.Entities))
	for _, e := range s.Entities {
		if e.Collider == nil || slices.Contains(exclude, e.ID) {
			continue
		}
		out = append(out, sweep.NewCandidate(e.ID, e.Collider, e.Transform))
	}
	return out
}
