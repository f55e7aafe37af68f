package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	epaMaxIterations = 128
	epaTolerance     = 1e-6
	epaEpsilon       = 1e-9
)

type epaFace struct {
	idx [3]int
	n   mgl64.Vec3
	d   float64
}

type epaEdge struct{ a, b int }

type penetration struct {
	normal mgl64.Vec3 // outward on A, toward B
	depth  float64
	pa, pb mgl64.Vec3
}

// epaPenetration expands the overlapping GJK simplex into a polytope until
// the face closest to the origin lies on the Minkowski difference boundary.
func epaPenetration(a, b body, s simplex) (penetration, error) {
	verts := make([]supportPoint, 0, 32)
	verts = append(verts, s.pts[:s.n]...)

	verts, err := blowUp(a, b, verts)
	if err != nil {
		return penetration{}, err
	}

	center := verts[0].v.Add(verts[1].v).Add(verts[2].v).Add(verts[3].v).Mul(0.25)
	faces := make([]epaFace, 0, 64)
	for _, f := range tetraFaces {
		face, ok := makeFace(verts, f[0], f[1], f[2], center)
		if !ok {
			return penetration{}, fmt.Errorf("epa initial tetrahedron: %w", ErrDegenerateSimplex)
		}
		faces = append(faces, face)
	}

	for iter := 0; iter < epaMaxIterations; iter++ {
		best := 0
		for i := range faces {
			if faces[i].d < faces[best].d {
				best = i
			}
		}
		f := faces[best]

		w := minkowskiSupport(a, b, f.n)
		if w.v.Dot(f.n)-f.d < epaTolerance*math.Max(1, math.Abs(f.d)) {
			return resolveFace(verts, f), nil
		}

		verts = append(verts, w)
		wi := len(verts) - 1

		var horizon []epaEdge
		kept := faces[:0]
		for _, face := range faces {
			if face.n.Dot(w.v.Sub(verts[face.idx[0]].v)) <= epaEpsilon {
				kept = append(kept, face)
				continue
			}
			for e := 0; e < 3; e++ {
				horizon = toggleEdge(horizon, epaEdge{face.idx[e], face.idx[(e+1)%3]})
			}
		}
		faces = kept

		for _, e := range horizon {
			face, ok := makeFace(verts, e.a, e.b, wi, center)
			if !ok {
				return penetration{}, fmt.Errorf("epa expansion: %w", ErrDegenerateSimplex)
			}
			faces = append(faces, face)
		}
		if len(faces) == 0 {
			return penetration{}, fmt.Errorf("epa polytope collapsed: %w", ErrDegenerateSimplex)
		}
	}
	return penetration{}, fmt.Errorf("epa after %d iterations: %w", epaMaxIterations, ErrNoConvergence)
}

// blowUp grows a simplex of fewer than four vertices into a tetrahedron.
// This happens when the shapes only touch.
func blowUp(a, b body, verts []supportPoint) ([]supportPoint, error) {
	axes := [6]mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

	if len(verts) == 1 {
		for _, dir := range axes {
			p := minkowskiSupport(a, b, dir)
			if p.v.Sub(verts[0].v).LenSqr() > epaEpsilon {
				verts = append(verts, p)
				break
			}
		}
		if len(verts) < 2 {
			return nil, fmt.Errorf("epa point simplex: %w", ErrDegenerateSimplex)
		}
	}

	if len(verts) == 2 {
		line := verts[1].v.Sub(verts[0].v).Normalize()
		least := axes[0]
		for _, axis := range []mgl64.Vec3{{0, 1, 0}, {0, 0, 1}} {
			if math.Abs(line.Dot(axis)) < math.Abs(line.Dot(least)) {
				least = axis
			}
		}
		perp := line.Cross(least).Normalize()
		step := mgl64.QuatRotate(math.Pi/3, line)
		for i := 0; i < 6; i++ {
			p := minkowskiSupport(a, b, perp)
			if line.Cross(p.v.Sub(verts[0].v)).LenSqr() > epaEpsilon {
				verts = append(verts, p)
				break
			}
			perp = step.Rotate(perp)
		}
		if len(verts) < 3 {
			return nil, fmt.Errorf("epa segment simplex: %w", ErrDegenerateSimplex)
		}
	}

	if len(verts) == 3 {
		n := verts[1].v.Sub(verts[0].v).Cross(verts[2].v.Sub(verts[0].v))
		if n.LenSqr() < epaEpsilon*epaEpsilon {
			return nil, fmt.Errorf("epa triangle simplex: %w", ErrDegenerateSimplex)
		}
		n = n.Normalize()
		for _, dir := range []mgl64.Vec3{n, n.Mul(-1)} {
			p := minkowskiSupport(a, b, dir)
			if math.Abs(n.Dot(p.v.Sub(verts[0].v))) > epaEpsilon {
				verts = append(verts, p)
				break
			}
		}
		if len(verts) < 4 {
			return nil, fmt.Errorf("epa flat simplex: %w", ErrDegenerateSimplex)
		}
	}
	return verts, nil
}

// makeFace builds a face whose normal points away from center.
func makeFace(verts []supportPoint, i, j, k int, center mgl64.Vec3) (epaFace, bool) {
	a, b, c := verts[i].v, verts[j].v, verts[k].v
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return epaFace{}, false
	}
	n = n.Mul(1 / l)
	if n.Dot(a.Sub(center)) < 0 {
		n = n.Mul(-1)
		j, k = k, j
	}
	return epaFace{idx: [3]int{i, j, k}, n: n, d: n.Dot(a)}, true
}

// toggleEdge collects horizon edges: an edge shared by two removed faces
// appears once in each direction and cancels out.
func toggleEdge(edges []epaEdge, e epaEdge) []epaEdge {
	for i, other := range edges {
		if other.a == e.b && other.b == e.a {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return append(edges, e)
}

func resolveFace(verts []supportPoint, f epaFace) penetration {
	p0, p1, p2 := verts[f.idx[0]], verts[f.idx[1]], verts[f.idx[2]]
	u, v, w := barycentric(f.n.Mul(f.d), p0.v, p1.v, p2.v)
	pa := p0.a.Mul(u).Add(p1.a.Mul(v)).Add(p2.a.Mul(w))
	pb := p0.b.Mul(u).Add(p1.b.Mul(v)).Add(p2.b.Mul(w))
	return penetration{normal: f.n, depth: math.Max(f.d, 0), pa: pa, pb: pb}
}

func barycentric(p, a, b, c mgl64.Vec3) (float64, float64, float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	den := d00*d11 - d01*d01
	if math.Abs(den) < 1e-24 {
		return 1, 0, 0
	}
	v := (d11*d20 - d01*d21) / den
	w := (d00*d21 - d01*d20) / den
	return 1 - v - w, v, w
}
