package exo

import (
	"errors"
	"fmt"

	"github.com/chazu/exolattice/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerateHull is returned when the points do not span a volume.
var ErrDegenerateHull = errors.New("exo: points are coplanar")

type hullFace struct {
	v [3]int
	n v3.Vec // unit outward normal
}

// hull is an incremental 3D convex hull over an indexed face list. Faces
// are removed by swap-and-pop, so face order is not stable across inserts.
type hull struct {
	pts   []v3.Vec
	faces []hullFace
	eps   float64
}

// ConvexHull returns the outward-wound triangles of the convex hull of
// pts, as indices into pts. The seed tetrahedron is the first two points,
// the next point not collinear with them, and the next point off their
// plane. A point sees a face when it lies more than eps above it; points
// that see nothing are inside the hull or on its surface and are skipped.
func ConvexHull(pts []v3.Vec, eps float64) ([]mesh.Face, error) {
	h := &hull{pts: pts, eps: eps}
	seed, err := h.seed()
	if err != nil {
		return nil, err
	}
	for i := range pts {
		if i == seed[0] || i == seed[1] || i == seed[2] || i == seed[3] {
			continue
		}
		h.add(i)
	}
	out := make([]mesh.Face, len(h.faces))
	for i, f := range h.faces {
		out[i] = mesh.Face(f.v)
	}
	return out, nil
}

func (h *hull) seed() ([4]int, error) {
	var s [4]int
	if len(h.pts) < 4 {
		return s, fmt.Errorf("%w: %d points", ErrDegenerateHull, len(h.pts))
	}
	s[0], s[1] = 0, 1
	a, b := h.pts[0], h.pts[1]
	if b.Sub(a).Length() <= h.eps {
		return s, fmt.Errorf("%w: first two points coincide", ErrDegenerateHull)
	}

	s[2] = -1
	var n v3.Vec
	for i := 2; i < len(h.pts); i++ {
		c := b.Sub(a).Cross(h.pts[i].Sub(a))
		if c.Length() > h.eps {
			s[2], n = i, c.Normalize()
			break
		}
	}
	if s[2] < 0 {
		return s, fmt.Errorf("%w: all points collinear", ErrDegenerateHull)
	}

	s[3] = -1
	var side float64
	for i := s[2] + 1; i < len(h.pts); i++ {
		if d := n.Dot(h.pts[i].Sub(a)); d > h.eps || d < -h.eps {
			s[3], side = i, d
			break
		}
	}
	if s[3] < 0 {
		return s, ErrDegenerateHull
	}

	i0, i1, i2, apex := s[0], s[1], s[2], s[3]
	if side > 0 {
		i1, i2 = i2, i1
	}
	for _, f := range [][3]int{{i0, i1, i2}, {i1, i0, apex}, {i2, i1, apex}, {i0, i2, apex}} {
		h.faces = append(h.faces, hullFace{v: f, n: h.normal(f, v3.Vec{})})
	}
	return s, nil
}

// normal returns the unit normal of f, or fallback when f has no area.
func (h *hull) normal(f [3]int, fallback v3.Vec) v3.Vec {
	a := h.pts[f[0]]
	n := h.pts[f[1]].Sub(a).Cross(h.pts[f[2]].Sub(a))
	if l := n.Length(); l > 1e-300 {
		return n.MulScalar(1 / l)
	}
	return fallback
}

func (h *hull) visible(f hullFace, p v3.Vec) bool {
	return f.n.Dot(p.Sub(h.pts[f.v[0]])) > h.eps
}

// add inserts point i: faces it sees are removed and the horizon they
// leave is fanned to i.
func (h *hull) add(i int) {
	p := h.pts[i]
	var vis []int
	edges := make(map[[2]int]bool)
	for fi, f := range h.faces {
		if !h.visible(f, p) {
			continue
		}
		vis = append(vis, fi)
		for k := 0; k < 3; k++ {
			edges[[2]int{f.v[k], f.v[(k+1)%3]}] = true
		}
	}
	if len(vis) == 0 {
		return
	}

	// Horizon edges keep their direction from the visible face, in face
	// order so the result is deterministic.
	var fan []hullFace
	for _, fi := range vis {
		f := h.faces[fi]
		for k := 0; k < 3; k++ {
			u, w := f.v[k], f.v[(k+1)%3]
			if edges[[2]int{w, u}] {
				continue
			}
			nf := [3]int{u, w, i}
			fan = append(fan, hullFace{v: nf, n: h.normal(nf, f.n)})
		}
	}

	for k := len(vis) - 1; k >= 0; k-- {
		last := len(h.faces) - 1
		h.faces[vis[k]] = h.faces[last]
		h.faces = h.faces[:last]
	}
	h.faces = append(h.faces, fan...)
}
