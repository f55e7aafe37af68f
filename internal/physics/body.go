package physics

import "github.com/go-gl/mathgl/mgl64"

// body is a shape placed in the world, in float64 for the contact solver.
type body struct {
	shape  Shape
	pos    mgl64.Vec3
	rot    mgl64.Quat
	inv    mgl64.Quat
	margin float64
}

func newBody(shape Shape, pose Pose) body {
	rot := quat64(pose.Rotation)
	return body{
		shape:  shape,
		pos:    vec64(pose.Position),
		rot:    rot,
		inv:    rot.Conjugate(),
		margin: shape.margin(),
	}
}

// support returns the world-space point furthest along dir. Without the
// margin only the core of a rounded shape is considered.
func (b body) support(dir mgl64.Vec3, withMargin bool) mgl64.Vec3 {
	p := b.pos.Add(b.rot.Rotate(b.shape.supportCore(b.inv.Rotate(dir))))
	if withMargin && b.margin > 0 {
		if l := dir.Len(); l > 1e-12 {
			p = p.Add(dir.Mul(b.margin / l))
		}
	}
	return p
}
