package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	gjkMaxIterations = 64
	gjkRelTolerance  = 1e-10
	// Absolute slack on the squared-distance bound. Flat faces resting on
	// flat faces never satisfy the relative test alone.
	gjkAbsTolerance = 1e-12
	// Squared distance under which the cores count as touching.
	gjkTouchSqr = 1e-12
)

type gjkStatus uint8

const (
	gjkSeparated gjkStatus = iota
	gjkOverlap
	gjkBeyond
)

type gjkResult struct {
	status gjkStatus
	// Closest points on the cores of A and B when separated.
	pa, pb mgl64.Vec3
	dist   float64
	// Final simplex, handed to EPA on overlap.
	simplex simplex
}

// gjkDistance computes the distance between the cores of a and b. It stops
// early with gjkBeyond once the distance is provably larger than maxDist.
func gjkDistance(a, b body, maxDist float64) (gjkResult, error) {
	dir := a.pos.Sub(b.pos)
	if dir.LenSqr() < gjkTouchSqr {
		dir = mgl64.Vec3{1, 0, 0}
	}

	var s simplex
	s.push(minkowskiSupport(a, b, dir.Mul(-1)))
	s.bary[0] = 1
	v := s.pts[0].v

	for i := 0; i < gjkMaxIterations; i++ {
		vv := v.LenSqr()
		if vv < gjkTouchSqr {
			return gjkResult{status: gjkOverlap, simplex: s}, nil
		}

		w := minkowskiSupport(a, b, v.Mul(-1))
		vw := v.Dot(w.v)
		if vw > 0 && vw*vw > vv*maxDist*maxDist {
			return gjkResult{status: gjkBeyond}, nil
		}
		if vv-vw <= gjkRelTolerance*vv+gjkAbsTolerance || s.has(w.v) {
			return separated(s, v), nil
		}

		prev, prevV := s, v
		s.push(w)
		var inside bool
		v, inside = s.reduce()
		if inside {
			return gjkResult{status: gjkOverlap, simplex: s}, nil
		}
		// The distance shrinks every iteration in exact arithmetic. Once it
		// stops, support points are only swapping across a flat feature.
		next := v.LenSqr()
		if next >= vv {
			return separated(prev, prevV), nil
		}
		if vv-next <= gjkRelTolerance*vv {
			return separated(s, v), nil
		}
	}
	return gjkResult{}, fmt.Errorf("gjk after %d iterations: %w", gjkMaxIterations, ErrNoConvergence)
}

func separated(s simplex, v mgl64.Vec3) gjkResult {
	pa, pb := s.witnesses()
	return gjkResult{status: gjkSeparated, pa: pa, pb: pb, dist: v.Len(), simplex: s}
}
