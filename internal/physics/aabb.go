package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Merge returns the smallest AABB enclosing both a and b.
func (a AABB) Merge(b AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min(a.Min.X(), b.Min.X()), min(a.Min.Y(), b.Min.Y()), min(a.Min.Z(), b.Min.Z())},
		Max: mgl32.Vec3{max(a.Max.X(), b.Max.X()), max(a.Max.Y(), b.Max.Y()), max(a.Max.Z(), b.Max.Z())},
	}
}

// Loosen grows the box by margin on every side.
func (a AABB) Loosen(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// Bounds returns the world-space AABB of shape placed at pose.
// Each face of the box is found with a support query along a world axis,
// which is exact for convex shapes under any rotation.
func Bounds(shape Shape, pose Pose) AABB {
	if s, ok := shape.(*Sphere); ok {
		r := mgl32.Vec3{s.Radius(), s.Radius(), s.Radius()}
		return AABB{Min: pose.Position.Sub(r), Max: pose.Position.Add(r)}
	}

	b := newBody(shape, pose)
	var box AABB
	for i := 0; i < 3; i++ {
		var axis mgl64.Vec3
		axis[i] = 1
		hi := b.support(axis, true)
		axis[i] = -1
		lo := b.support(axis, true)
		box.Max[i] = float32(hi[i])
		box.Min[i] = float32(lo[i])
	}
	return box
}

// SweptBounds returns the AABB enclosing shape at both start and end.
func SweptBounds(shape Shape, start, end Pose) AABB {
	return Bounds(shape, start).Merge(Bounds(shape, end))
}
