// Package spatial holds the point lookup used to weld coincident positions.
package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Hash buckets points on a grid of cell size Tolerance so that a point's
// coincident neighbours are found in its own or an adjacent bucket.
type Hash struct {
	tol     float64
	inv     float64
	buckets map[[3]int64][]entry
}

type entry struct {
	p  v3.Vec
	id int
}

// NewHash returns an empty hash. A non-positive tolerance matches exact
// positions only.
func NewHash(tol float64) *Hash {
	h := &Hash{tol: tol, buckets: make(map[[3]int64][]entry)}
	if tol > 0 {
		h.inv = 1 / tol
	}
	return h
}

func (h *Hash) key(p v3.Vec) [3]int64 {
	if h.inv == 0 {
		return [3]int64{
			int64(math.Float64bits(p.X)),
			int64(math.Float64bits(p.Y)),
			int64(math.Float64bits(p.Z)),
		}
	}
	return [3]int64{
		int64(math.Floor(p.X * h.inv)),
		int64(math.Floor(p.Y * h.inv)),
		int64(math.Floor(p.Z * h.inv)),
	}
}

// Find returns the id of the earliest inserted point within Tolerance of p.
func (h *Hash) Find(p v3.Vec) (int, bool) {
	k := h.key(p)
	if h.inv == 0 {
		for _, e := range h.buckets[k] {
			if e.p == p {
				return e.id, true
			}
		}
		return 0, false
	}
	best, found := 0, false
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, e := range h.buckets[[3]int64{k[0] + dx, k[1] + dy, k[2] + dz}] {
					if e.p.Sub(p).Length() <= h.tol && (!found || e.id < best) {
						best, found = e.id, true
					}
				}
			}
		}
	}
	return best, found
}

// Insert records p under id.
func (h *Hash) Insert(p v3.Vec, id int) {
	k := h.key(p)
	h.buckets[k] = append(h.buckets[k], entry{p: p, id: id})
}

// FindOrInsert returns the id of a point within Tolerance of p, inserting p
// under next when there is none. The second result reports whether p was
// inserted.
func (h *Hash) FindOrInsert(p v3.Vec, next int) (int, bool) {
	if id, ok := h.Find(p); ok {
		return id, false
	}
	h.Insert(p, next)
	return next, true
}
