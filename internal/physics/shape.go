package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidDimension is returned when a shape is built with a
	// non-positive or non-finite size.
	ErrInvalidDimension = errors.New("physics: shape dimension must be positive and finite")

	// ErrDegenerateHull is returned when a point set cannot span a volume.
	ErrDegenerateHull = errors.New("physics: convex hull points are degenerate")
)

// Kind identifies the geometry variant behind a Shape.
type Kind uint8

const (
	KindCuboid Kind = iota
	KindSphere
	KindCylinder
	KindConvexHull
)

func (k Kind) String() string {
	switch k {
	case KindCuboid:
		return "cuboid"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	case KindConvexHull:
		return "convex_hull"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Shape is a convex volume in its own local frame. The set of
// implementations is closed: Cuboid, Sphere, Cylinder and ConvexHull.
type Shape interface {
	Kind() Kind

	// Support returns the local-space point of the shape furthest along dir.
	Support(dir mgl32.Vec3) mgl32.Vec3

	// supportCore is Support without the rounded margin.
	supportCore(dir mgl64.Vec3) mgl64.Vec3
	margin() float64
}

// Cuboid is a box centered on the origin.
type Cuboid struct {
	half mgl64.Vec3
}

func NewCuboid(halfExtents mgl32.Vec3) (*Cuboid, error) {
	for i := 0; i < 3; i++ {
		if !positive(halfExtents[i]) {
			return nil, fmt.Errorf("cuboid half extents %v: %w", halfExtents, ErrInvalidDimension)
		}
	}
	return &Cuboid{half: vec64(halfExtents)}, nil
}

func (c *Cuboid) Kind() Kind { return KindCuboid }

func (c *Cuboid) HalfExtents() mgl32.Vec3 { return vec32(c.half) }

func (c *Cuboid) Support(dir mgl32.Vec3) mgl32.Vec3 { return vec32(c.supportCore(vec64(dir))) }

func (c *Cuboid) supportCore(dir mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{signed(c.half[0], dir[0]), signed(c.half[1], dir[1]), signed(c.half[2], dir[2])}
}

func (c *Cuboid) margin() float64 { return 0 }

// Sphere is represented as a point core with its radius as margin.
type Sphere struct {
	radius float64
}

func NewSphere(radius float32) (*Sphere, error) {
	if !positive(radius) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidDimension)
	}
	return &Sphere{radius: float64(radius)}, nil
}

func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) Radius() float32 { return float32(s.radius) }

func (s *Sphere) Support(dir mgl32.Vec3) mgl32.Vec3 {
	d := vec64(dir)
	l := d.Len()
	if l < 1e-12 {
		return mgl32.Vec3{float32(s.radius), 0, 0}
	}
	return vec32(d.Mul(s.radius / l))
}

func (s *Sphere) supportCore(mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{} }

func (s *Sphere) margin() float64 { return s.radius }

// Cylinder is aligned with the local Y axis.
type Cylinder struct {
	radius     float64
	halfHeight float64
}

func NewCylinder(radius, halfHeight float32) (*Cylinder, error) {
	if !positive(radius) || !positive(halfHeight) {
		return nil, fmt.Errorf("cylinder radius %v half height %v: %w", radius, halfHeight, ErrInvalidDimension)
	}
	return &Cylinder{radius: float64(radius), halfHeight: float64(halfHeight)}, nil
}

func (c *Cylinder) Kind() Kind { return KindCylinder }

func (c *Cylinder) Radius() float32 { return float32(c.radius) }

func (c *Cylinder) HalfHeight() float32 { return float32(c.halfHeight) }

func (c *Cylinder) Support(dir mgl32.Vec3) mgl32.Vec3 { return vec32(c.supportCore(vec64(dir))) }

func (c *Cylinder) supportCore(dir mgl64.Vec3) mgl64.Vec3 {
	out := mgl64.Vec3{0, signed(c.halfHeight, dir[1]), 0}
	radial := math.Hypot(dir[0], dir[2])
	if radial > 1e-12 {
		out[0] = dir[0] / radial * c.radius
		out[2] = dir[2] / radial * c.radius
	}
	return out
}

func (c *Cylinder) margin() float64 { return 0 }

// ConvexHull is the convex hull of a point cloud. Interior points are kept;
// they never win a support query.
type ConvexHull struct {
	points []mgl64.Vec3
}

// NewConvexHull fails with ErrDegenerateHull unless the points span a
// non-zero volume (at least four distinct, non-coplanar points).
func NewConvexHull(points []mgl32.Vec3) (*ConvexHull, error) {
	pts := make([]mgl64.Vec3, 0, len(points))
	seen := make(map[mgl32.Vec3]struct{}, len(points))
	for _, p := range points {
		for i := 0; i < 3; i++ {
			if math.IsNaN(float64(p[i])) || math.IsInf(float64(p[i]), 0) {
				return nil, fmt.Errorf("convex hull point %v: %w", p, ErrDegenerateHull)
			}
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		pts = append(pts, vec64(p))
	}
	if len(pts) < 4 {
		return nil, fmt.Errorf("convex hull needs 4 distinct points, got %d: %w", len(pts), ErrDegenerateHull)
	}
	if !spansVolume(pts) {
		return nil, fmt.Errorf("convex hull of %d points is flat: %w", len(pts), ErrDegenerateHull)
	}
	return &ConvexHull{points: pts}, nil
}

func (h *ConvexHull) Kind() Kind { return KindConvexHull }

// Points returns a copy of the hull's input points.
func (h *ConvexHull) Points() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(h.points))
	for i, p := range h.points {
		out[i] = vec32(p)
	}
	return out
}

func (h *ConvexHull) Support(dir mgl32.Vec3) mgl32.Vec3 { return vec32(h.supportCore(vec64(dir))) }

func (h *ConvexHull) supportCore(dir mgl64.Vec3) mgl64.Vec3 {
	best := h.points[0]
	bestDot := best.Dot(dir)
	for _, p := range h.points[1:] {
		if d := p.Dot(dir); d > bestDot {
			best, bestDot = p, d
		}
	}
	return best
}

func (h *ConvexHull) margin() float64 { return 0 }

// spansVolume looks for a tetrahedron with non-negligible volume:
// the farthest point from p0, then from the line, then from the plane.
func spansVolume(pts []mgl64.Vec3) bool {
	p0 := pts[0]
	scale := 0.0
	for _, p := range pts {
		scale = math.Max(scale, p.Sub(p0).Len())
	}
	eps := 1e-6 * math.Max(scale, 1e-6)

	p1, far := p0, 0.0
	for _, p := range pts {
		if d := p.Sub(p0).Len(); d > far {
			p1, far = p, d
		}
	}
	if far <= eps {
		return false
	}

	axis := p1.Sub(p0).Normalize()
	var p2 mgl64.Vec3
	far = 0
	for _, p := range pts {
		if d := axis.Cross(p.Sub(p0)).Len(); d > far {
			p2, far = p, d
		}
	}
	if far <= eps {
		return false
	}

	normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	for _, p := range pts {
		if math.Abs(normal.Dot(p.Sub(p0))) > eps {
			return true
		}
	}
	return false
}

func positive(v float32) bool {
	f := float64(v)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func signed(mag, dir float64) float64 {
	if dir < 0 {
		return -mag
	}
	return mag
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
