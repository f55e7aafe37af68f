package camera

import (
	"testing"

	"collisioneer/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitPositionAndHeading(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{1, 0, 0})
	o.Pitch = 0
	o.Distance = 5

	pos := o.Position()
	assert.InDelta(t, 1, pos.X(), 1e-5)
	assert.InDelta(t, 0, pos.Y(), 1e-5)
	assert.InDelta(t, 5, pos.Z(), 1e-5)

	// Heading turns -Z into the direction the camera looks along.
	look := o.Target.Sub(pos).Normalize()
	fwd := o.Heading().Rotate(mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, look.X(), fwd.X(), 1e-5)
	assert.InDelta(t, look.Z(), fwd.Z(), 1e-5)

	o.Yaw = 90
	look = o.Target.Sub(o.Position()).Normalize()
	fwd = o.Heading().Rotate(mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, -1, look.X(), 1e-5)
	assert.InDelta(t, look.X(), fwd.X(), 1e-5)
	assert.InDelta(t, look.Z(), fwd.Z(), 1e-5)
}

func TestOrbitClamps(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{})
	o.Rotate(0, 10000)
	assert.Equal(t, o.MaxPitch, o.Pitch)
	o.Rotate(0, -10000)
	assert.Equal(t, o.MinPitch, o.Pitch)

	o.Zoom(1000)
	assert.Equal(t, o.MinDistance, o.Distance)
	o.Zoom(-1000)
	assert.Equal(t, o.MaxDistance, o.Distance)
}

func TestOrbitFollow(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{})
	goal := mgl32.Vec3{10, 0, 0}
	o.Follow(goal, 10, 0)
	assert.Equal(t, mgl32.Vec3{}, o.Target)
	for i := 0; i < 120; i++ {
		o.Follow(goal, 10, 1.0/60.0)
	}
	assert.InDelta(t, 10, o.Target.X(), 1e-3)
}

func TestFrustumCulling(t *testing.T) {
	vp := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100).
		Mul4(mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))
	f := NewFrustum(vp)

	box := func(x, y, z float32) physics.AABB {
		return physics.NewAABBFromCenter(mgl32.Vec3{x, y, z}, mgl32.Vec3{1, 1, 1})
	}
	tests := []struct {
		name string
		box  physics.AABB
		want bool
	}{
		{"center", box(0, 0, 0), true},
		{"behind camera", box(0, 0, 10), false},
		{"far right", box(100, 0, 0), false},
		{"beyond far plane", box(0, 0, -200), false},
		{"straddling left edge", box(-3.3, 0, 0), true},
		{"above", box(0, 50, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ContainsAABB(tt.box))
		})
	}

	assert.True(t, f.ContainsPoint(mgl32.Vec3{}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 6}))
	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, 5.5}, 1))
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, 7}, 1))

	for _, p := range f.Planes() {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5)
	}
}
