package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoConvergence     = errors.New("physics: contact solver did not converge")
	ErrDegenerateSimplex = errors.New("physics: degenerate simplex")
	ErrUnsupportedShape  = errors.New("physics: unsupported shape")
)

// ContactResult describes the closest features of two shapes.
//
// Normal1 is the outward normal on the first shape, pointing toward the
// second; Normal2 is its opposite. Distance is negative when the shapes
// penetrate.
type ContactResult struct {
	Normal1  mgl32.Vec3
	Normal2  mgl32.Vec3
	Point1   mgl32.Vec3
	Point2   mgl32.Vec3
	Distance float32
}

// Contact computes the contact between shape a at poseA and shape b at poseB.
// It reports ok=false when the shapes are further apart than prediction. A
// non-nil error means the solver failed numerically for this pair.
func Contact(poseA Pose, a Shape, poseB Pose, b Shape, prediction float32) (ContactResult, bool, error) {
	if a == nil || b == nil || isNilShape(a) || isNilShape(b) {
		return ContactResult{}, false, fmt.Errorf("contact: nil shape: %w", ErrUnsupportedShape)
	}
	if prediction < 0 {
		prediction = 0
	}
	pred := float64(prediction)

	sa, aSphere := a.(*Sphere)
	sb, bSphere := b.(*Sphere)
	if aSphere && bSphere {
		return sphereContact(vec64(poseA.Position), sa.radius, vec64(poseB.Position), sb.radius, pred)
	}

	ba := newBody(a, poseA)
	bb := newBody(b, poseB)
	margins := ba.margin + bb.margin

	res, err := gjkDistance(ba, bb, pred+margins)
	if err != nil {
		return ContactResult{}, false, err
	}

	switch res.status {
	case gjkBeyond:
		return ContactResult{}, false, nil

	case gjkSeparated:
		dist := res.dist - margins
		if dist > pred {
			return ContactResult{}, false, nil
		}
		n := res.pb.Sub(res.pa).Mul(1 / res.dist)
		return newContact(n, res.pa.Add(n.Mul(ba.margin)), res.pb.Sub(n.Mul(bb.margin)), dist), true, nil
	}

	pen, err := epaPenetration(ba, bb, res.simplex)
	if err != nil {
		return ContactResult{}, false, err
	}
	n := pen.normal
	return newContact(n, pen.pa.Add(n.Mul(ba.margin)), pen.pb.Sub(n.Mul(bb.margin)), -pen.depth-margins), true, nil
}

func sphereContact(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64, pred float64) (ContactResult, bool, error) {
	d := cb.Sub(ca)
	l := d.Len()
	dist := l - ra - rb
	if dist > pred {
		return ContactResult{}, false, nil
	}
	n := mgl64.Vec3{0, 1, 0}
	if l > 1e-12 {
		n = d.Mul(1 / l)
	}
	return newContact(n, ca.Add(n.Mul(ra)), cb.Sub(n.Mul(rb)), dist), true, nil
}

func newContact(n, p1, p2 mgl64.Vec3, dist float64) ContactResult {
	if l := n.Len(); l > 0 && math.Abs(l-1) > 1e-9 {
		n = n.Mul(1 / l)
	}
	return ContactResult{
		Normal1:  vec32(n),
		Normal2:  vec32(n.Mul(-1)),
		Point1:   vec32(p1),
		Point2:   vec32(p2),
		Distance: float32(dist),
	}
}
