package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// supportPoint is a vertex of the Minkowski difference A-B together with the
// points on A and B that produced it.
type supportPoint struct {
	v, a, b mgl64.Vec3
}

func minkowskiSupport(a, b body, dir mgl64.Vec3) supportPoint {
	pa := a.support(dir, false)
	pb := b.support(dir.Mul(-1), false)
	return supportPoint{v: pa.Sub(pb), a: pa, b: pb}
}

// simplex holds up to four vertices with the barycentric weights of the
// current closest point to the origin.
type simplex struct {
	pts  [4]supportPoint
	bary [4]float64
	n    int
}

func (s *simplex) push(p supportPoint) {
	s.pts[s.n] = p
	s.n++
}

func (s *simplex) has(v mgl64.Vec3) bool {
	for i := 0; i < s.n; i++ {
		if s.pts[i].v == v {
			return true
		}
	}
	return false
}

// witnesses returns the points on A and B matching the closest point.
func (s *simplex) witnesses() (mgl64.Vec3, mgl64.Vec3) {
	var pa, pb mgl64.Vec3
	for i := 0; i < s.n; i++ {
		pa = pa.Add(s.pts[i].a.Mul(s.bary[i]))
		pb = pb.Add(s.pts[i].b.Mul(s.bary[i]))
	}
	return pa, pb
}

// reduce finds the point of the simplex closest to the origin, drops the
// vertices that do not contribute to it, and reports whether the origin lies
// inside a full tetrahedron.
func (s *simplex) reduce() (mgl64.Vec3, bool) {
	var w [4]float64
	switch s.n {
	case 1:
		w[0] = 1
	case 2:
		w[0], w[1] = closestOnSegment(s.pts[0].v, s.pts[1].v)
	case 3:
		w[0], w[1], w[2] = closestOnTriangle(s.pts[0].v, s.pts[1].v, s.pts[2].v)
	case 4:
		var inside bool
		w, inside = closestOnTetrahedron(s.pts[0].v, s.pts[1].v, s.pts[2].v, s.pts[3].v)
		if inside {
			for i := range s.bary {
				s.bary[i] = 0.25
			}
			return mgl64.Vec3{}, true
		}
	}

	kept := 0
	var closest mgl64.Vec3
	for i := 0; i < s.n; i++ {
		if w[i] <= 0 {
			continue
		}
		s.pts[kept] = s.pts[i]
		s.bary[kept] = w[i]
		closest = closest.Add(s.pts[i].v.Mul(w[i]))
		kept++
	}
	s.n = kept
	return closest, false
}

func closestOnSegment(a, b mgl64.Vec3) (float64, float64) {
	ab := b.Sub(a)
	den := ab.LenSqr()
	if den < 1e-24 {
		return 1, 0
	}
	t := -a.Dot(ab) / den
	switch {
	case t <= 0:
		return 1, 0
	case t >= 1:
		return 0, 1
	}
	return 1 - t, t
}

// closestOnTriangle returns barycentric weights of the point of triangle abc
// closest to the origin, walking its Voronoi regions.
func closestOnTriangle(a, b, c mgl64.Vec3) (float64, float64, float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := a.Mul(-1)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return 1, 0, 0
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return 0, 1, 0
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return 1 - v, v, 0
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return 0, 0, 1
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return 1 - w, 0, w
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return 0, 1 - w, w
	}

	sum := va + vb + vc
	if math.Abs(sum) < 1e-24 {
		return closestOnFlatTriangle(a, b, c)
	}
	v := vb / sum
	w := vc / sum
	return 1 - v - w, v, w
}

// closestOnFlatTriangle handles collinear vertices by testing each edge.
func closestOnFlatTriangle(a, b, c mgl64.Vec3) (float64, float64, float64) {
	best := math.Inf(1)
	var wa, wb, wc float64
	try := func(p, q mgl64.Vec3, set func(float64, float64)) {
		s, t := closestOnSegment(p, q)
		if d := p.Mul(s).Add(q.Mul(t)).LenSqr(); d < best {
			best = d
			set(s, t)
		}
	}
	try(a, b, func(s, t float64) { wa, wb, wc = s, t, 0 })
	try(a, c, func(s, t float64) { wa, wb, wc = s, 0, t })
	try(b, c, func(s, t float64) { wa, wb, wc = 0, s, t })
	return wa, wb, wc
}

var tetraFaces = [4][4]int{
	{0, 1, 2, 3},
	{0, 3, 1, 2},
	{0, 2, 3, 1},
	{1, 3, 2, 0},
}

// closestOnTetrahedron returns weights of the closest point, or inside=true
// when the origin is enclosed.
func closestOnTetrahedron(a, b, c, d mgl64.Vec3) ([4]float64, bool) {
	pts := [4]mgl64.Vec3{a, b, c, d}
	var best [4]float64
	bestDist := math.Inf(1)
	outside := false

	// A flat tetrahedron encloses nothing; every face is a candidate.
	flat := isFlat(pts)
	for _, f := range tetraFaces {
		p0, p1, p2, opp := pts[f[0]], pts[f[1]], pts[f[2]], pts[f[3]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		sideOrigin := n.Dot(p0.Mul(-1))
		sideOpp := n.Dot(opp.Sub(p0))
		if !flat && math.Abs(sideOpp) > 1e-18 && sideOrigin*sideOpp >= 0 {
			continue
		}
		outside = true
		u, v, w := closestOnTriangle(p0, p1, p2)
		q := p0.Mul(u).Add(p1.Mul(v)).Add(p2.Mul(w))
		if dist := q.LenSqr(); dist < bestDist {
			bestDist = dist
			best = [4]float64{}
			best[f[0]], best[f[1]], best[f[2]] = u, v, w
		}
	}
	return best, !outside
}

// isFlat reports whether the volume of the tetrahedron is negligible
// relative to its edge lengths.
func isFlat(pts [4]mgl64.Vec3) bool {
	ab := pts[1].Sub(pts[0])
	ac := pts[2].Sub(pts[0])
	ad := pts[3].Sub(pts[0])
	vol := math.Abs(ab.Dot(ac.Cross(ad)))
	edge := math.Max(ab.Len(), math.Max(ac.Len(), ad.Len()))
	return vol <= 1e-12*edge*edge*edge
}
