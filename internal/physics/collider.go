package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the placement of an entity in the world.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

// NewTransform creates an unrotated transform at translation.
func NewTransform(translation mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: mgl32.QuatIdent()}
}

// Pose is the world placement of a collider's shape.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// NewPose creates an unrotated pose at position.
func NewPose(position mgl32.Vec3) Pose {
	return Pose{Position: position, Rotation: mgl32.QuatIdent()}
}

// Translated returns the pose moved by delta, keeping its orientation.
func (p Pose) Translated(delta mgl32.Vec3) Pose {
	return Pose{Position: p.Position.Add(delta), Rotation: p.Rotation}
}

// Collider pairs a shape with a local offset from its entity's origin.
type Collider struct {
	Shape  Shape
	Offset mgl32.Vec3
}

// NewCollider wraps shape with a zero offset. A nil shape is rejected so that
// every collider always has geometry.
func NewCollider(shape Shape) (*Collider, error) {
	if shape == nil || isNilShape(shape) {
		return nil, errors.New("physics: collider requires a shape")
	}
	return &Collider{Shape: shape}, nil
}

func CuboidCollider(halfExtents mgl32.Vec3) (*Collider, error) {
	s, err := NewCuboid(halfExtents)
	if err != nil {
		return nil, err
	}
	return &Collider{Shape: s}, nil
}

func SphereCollider(radius float32) (*Collider, error) {
	s, err := NewSphere(radius)
	if err != nil {
		return nil, err
	}
	return &Collider{Shape: s}, nil
}

func CylinderCollider(radius, halfHeight float32) (*Collider, error) {
	s, err := NewCylinder(radius, halfHeight)
	if err != nil {
		return nil, err
	}
	return &Collider{Shape: s}, nil
}

func ConvexHullCollider(points []mgl32.Vec3) (*Collider, error) {
	s, err := NewConvexHull(points)
	if err != nil {
		return nil, err
	}
	return &Collider{Shape: s}, nil
}

// WithOffset returns a copy of the collider shifted by offset in entity space.
func (c *Collider) WithOffset(offset mgl32.Vec3) *Collider {
	return &Collider{Shape: c.Shape, Offset: offset}
}

// Pose returns the world pose of the collider for an entity at t.
func (c *Collider) Pose(t Transform) Pose {
	rot := normalizeQuat(t.Rotation)
	return Pose{
		Position: t.Translation.Add(rot.Rotate(c.Offset)),
		Rotation: rot,
	}
}

// Bounds returns the collider's world AABB for an entity at t.
func (c *Collider) Bounds(t Transform) AABB {
	return Bounds(c.Shape, c.Pose(t))
}

func isNilShape(s Shape) bool {
	switch v := s.(type) {
	case *Cuboid:
		return v == nil
	case *Sphere:
		return v == nil
	case *Cylinder:
		return v == nil
	case *ConvexHull:
		return v == nil
	}
	return false
}

// normalizeQuat treats the zero quaternion as identity so zero-value poses
// are usable.
func normalizeQuat(q mgl32.Quat) mgl32.Quat {
	if q.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}

func quat64(q mgl32.Quat) mgl64.Quat {
	q = normalizeQuat(q)
	return mgl64.Quat{W: float64(q.W), V: vec64(q.V)}
}
