package camera

import (
	"collisioneer/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds the six planes of a view frustum: left, right, bottom, top,
// near, far. Normals point inward.
type Frustum struct {
	planes [6]Plane
}

// Plane is n·p + d = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// NewFrustum extracts the planes of a combined projection * view matrix
// (Gribb/Hartmann).
func NewFrustum(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	var f Frustum
	f.planes[0] = planeFrom(r3.Add(r0))
	f.planes[1] = planeFrom(r3.Sub(r0))
	f.planes[2] = planeFrom(r3.Add(r1))
	f.planes[3] = planeFrom(r3.Sub(r1))
	f.planes[4] = planeFrom(r3.Add(r2))
	f.planes[5] = planeFrom(r3.Sub(r2))
	return f
}

func planeFrom(v mgl32.Vec4) Plane {
	p := Plane{Normal: v.Vec3(), Distance: v.W()}
	length := p.Normal.Len()
	if length == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / length), Distance: p.Distance / length}
}

func (f *Frustum) Planes() [6]Plane { return f.planes }

// ContainsSphere reports whether a sphere is inside or intersects the
// frustum.
func (f *Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.planes {
		if p.Normal.Dot(center)+p.Distance < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(point mgl32.Vec3) bool {
	for _, p := range f.planes {
		if p.Normal.Dot(point)+p.Distance < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB tests the box corner furthest along each plane normal. It can
// report boxes near frustum corners as visible when they are not.
func (f *Frustum) ContainsAABB(box physics.AABB) bool {
	for _, p := range f.planes {
		var corner mgl32.Vec3
		for i := 0; i < 3; i++ {
			if p.Normal[i] >= 0 {
				corner[i] = box.Max[i]
			} else {
				corner[i] = box.Min[i]
			}
		}
		if p.Normal.Dot(corner)+p.Distance < 0 {
			return false
		}
	}
	return true
}
