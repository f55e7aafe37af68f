// Package camera provides the orbit camera used by the demo and the view
// frustum used to cull what it draws.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	// Yaw and Pitch are in degrees. Yaw 0 places the camera on +Z of the
	// target looking down -Z; positive pitch raises the camera.
	Yaw   float32
	Pitch float32
	Fovy  float32

	LookSpeed float32
	ZoomSpeed float32

	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32
}

func NewOrbit(target mgl32.Vec3) *Orbit {
	return &Orbit{
		Target:      target,
		Distance:    8,
		Yaw:         0,
		Pitch:       25,
		Fovy:        45,
		LookSpeed:   0.3,
		ZoomSpeed:   1,
		MinDistance: 2,
		MaxDistance: 60,
		MinPitch:    -10,
		MaxPitch:    85,
	}
}

// Rotate applies a mouse delta in pixels.
func (o *Orbit) Rotate(dx, dy float32) {
	o.Yaw -= dx * o.LookSpeed
	o.Pitch += dy * o.LookSpeed
	o.Pitch = mgl32.Clamp(o.Pitch, o.MinPitch, o.MaxPitch)
	o.Yaw = float32(math.Mod(float64(o.Yaw), 360))
}

// Zoom moves toward the target for positive wheel steps.
func (o *Orbit) Zoom(steps float32) {
	o.Distance = mgl32.Clamp(o.Distance-steps*o.ZoomSpeed, o.MinDistance, o.MaxDistance)
}

// Follow keeps the target responsive without snapping; rate is in 1/s.
func (o *Orbit) Follow(target mgl32.Vec3, rate, dt float32) {
	k := 1 - float32(math.Exp(float64(-rate*dt)))
	o.Target = o.Target.Add(target.Sub(o.Target).Mul(k))
}

func (o *Orbit) Position() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(o.Yaw))
	pitch := float64(mgl32.DegToRad(o.Pitch))
	offset := mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}
	return o.Target.Add(offset.Mul(o.Distance))
}

// Heading is the rotation about +Y that maps -Z onto the camera's
// horizontal view direction.
func (o *Orbit) Heading() mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(o.Yaw), mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.Target, mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) Projection(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(o.Fovy), aspect, near, far)
}

func (o *Orbit) Frustum(aspect, near, far float32) Frustum {
	return NewFrustum(o.Projection(aspect, near, far).Mul4(o.View()))
}
