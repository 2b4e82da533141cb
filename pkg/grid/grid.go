// Package grid builds the point grids a lattice is mapped onto. A grid is a
// sparse collection of points addressed by an integer (u,v,w) index; shapes
// (box, cylinder, conformal surfaces, trimmed volumes) generate them.
package grid

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Index addresses a grid point in (u,v,w) index space.
type Index struct {
	U, V, W int
}

// Add returns the component-wise sum of two indices.
func (i Index) Add(o Index) Index {
	return Index{U: i.U + o.U, V: i.V + o.V, W: i.W + o.W}
}

func (i Index) String() string {
	return fmt.Sprintf("(%d,%d,%d)", i.U, i.V, i.W)
}

// Grid is a sparse, index-addressed set of points. Points are kept in the
// order they were inserted, which is the shape's generation order.
type Grid struct {
	counts [3]int
	points map[Index]v3.Vec
	order  []Index
}

// New returns an empty grid whose index space spans nu x nv x nw points.
func New(nu, nv, nw int) *Grid {
	return &Grid{
		counts: [3]int{nu, nv, nw},
		points: make(map[Index]v3.Vec, nu*nv*nw),
	}
}

// Set places p at idx. Re-setting an index keeps its original order slot.
func (g *Grid) Set(idx Index, p v3.Vec) {
	if _, ok := g.points[idx]; !ok {
		g.order = append(g.order, idx)
	}
	g.points[idx] = p
}

// Point returns the point at idx and whether it exists.
func (g *Grid) Point(idx Index) (v3.Vec, bool) {
	p, ok := g.points[idx]
	return p, ok
}

// Has reports whether a point exists at idx.
func (g *Grid) Has(idx Index) bool {
	_, ok := g.points[idx]
	return ok
}

// Len returns the number of points present.
func (g *Grid) Len() int {
	return len(g.order)
}

// Counts returns the extent of the index space along u, v and w.
func (g *Grid) Counts() (nu, nv, nw int) {
	return g.counts[0], g.counts[1], g.counts[2]
}

// Indices returns the present indices in generation order.
func (g *Grid) Indices() []Index {
	out := make([]Index, len(g.order))
	copy(out, g.order)
	return out
}

// Each calls fn for every present point in generation order.
func (g *Grid) Each(fn func(Index, v3.Vec)) {
	for _, idx := range g.order {
		fn(idx, g.points[idx])
	}
}

// Filter returns a new grid with the same index space holding only the
// points for which keep returns true.
func (g *Grid) Filter(keep func(Index, v3.Vec) bool) *Grid {
	out := New(g.counts[0], g.counts[1], g.counts[2])
	for _, idx := range g.order {
		p := g.points[idx]
		if keep(idx, p) {
			out.Set(idx, p)
		}
	}
	return out
}

// Cells returns the lower-corner index of every cell in the index space,
// u outermost and w innermost. Cells are returned whether or not their
// corners are present; callers check presence through Interpolate.
func (g *Grid) Cells() []Index {
	nu, nv, nw := g.counts[0]-1, g.counts[1]-1, g.counts[2]-1
	if nu <= 0 || nv <= 0 || nw <= 0 {
		return nil
	}
	cells := make([]Index, 0, nu*nv*nw)
	for u := 0; u < nu; u++ {
		for v := 0; v < nv; v++ {
			for w := 0; w < nw; w++ {
				cells = append(cells, Index{U: u, V: v, W: w})
			}
		}
	}
	return cells
}

// zeroWeight is the trilinear weight below which a corner does not
// contribute and need not exist.
const zeroWeight = 1e-12

// Interpolate maps a local coordinate in the unit cube onto the hexahedral
// cell whose lower corner is cell, by trilinear interpolation of its eight
// corner points. Only corners with a non-zero weight must be present; the
// second result is false when one of them is missing.
func (g *Grid) Interpolate(cell Index, local v3.Vec) (v3.Vec, bool) {
	wu := [2]float64{1 - local.X, local.X}
	wv := [2]float64{1 - local.Y, local.Y}
	ww := [2]float64{1 - local.Z, local.Z}

	var sum v3.Vec
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				w := wu[a] * wv[b] * ww[c]
				if w <= zeroWeight {
					continue
				}
				p, ok := g.points[cell.Add(Index{U: a, V: b, W: c})]
				if !ok {
					return v3.Vec{}, false
				}
				sum = sum.Add(p.MulScalar(w))
			}
		}
	}
	return sum, true
}
