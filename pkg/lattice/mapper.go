package lattice

import (
	"errors"
	"fmt"

	"github.com/chazu/exolattice/pkg/cell"
	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/spatial"
	"github.com/rs/zerolog/log"
)

// ErrInvalidOptions is returned when Map is called without a grid, cell or
// radius function, or with a negative tolerance.
var ErrInvalidOptions = errors.New("lattice: invalid options")

// DefaultTolerance is the weld distance for nodes reached from different
// cells that land on the same position.
const DefaultTolerance = 1e-6

// Options control the mapper.
type Options struct {
	// Tolerance merges nodes closer than this. Zero uses DefaultTolerance.
	Tolerance float64
}

// nodeKey identifies a lattice node by the cell that owns it and its
// canonical template node.
type nodeKey struct {
	cell grid.Index
	node int
}

const unresolved, missing = -2, -1

// Map instantiates the unit cell in every cell of g, morphing template
// coordinates onto the cell's eight corners by trilinear interpolation.
// Nodes are merged first by (owning cell, canonical node) and then by
// position, so seams where grid columns coincide weld too. Struts are kept
// once per unordered node pair; struts that would need a missing grid
// corner or collapse to a point are skipped.
func Map(g *grid.Grid, uc *cell.UnitCell, radius RadiusFunc, opts Options) (*Lattice, error) {
	if g == nil || uc == nil || radius == nil {
		return nil, fmt.Errorf("lattice: nil grid, cell or radius: %w", ErrInvalidOptions)
	}
	if opts.Tolerance < 0 {
		return nil, fmt.Errorf("lattice: tolerance %g: %w", opts.Tolerance, ErrInvalidOptions)
	}
	tol := opts.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}

	l := &Lattice{}
	byKey := make(map[nodeKey]int)
	byPos := spatial.NewHash(tol)
	seen := make(map[Strut]bool)
	ids := make([]int, len(uc.Nodes))
	var skipped, collapsed int

	for _, c := range g.Cells() {
		for i := range ids {
			ids[i] = unresolved
		}
		resolve := func(n int) int {
			if ids[n] != unresolved {
				return ids[n]
			}
			p, ok := g.Interpolate(c, uc.Nodes[n])
			if !ok {
				ids[n] = missing
				return missing
			}
			path := uc.Paths[n]
			key := nodeKey{cell: c.Add(path.Offset), node: path.Node}
			id, ok := byKey[key]
			if !ok {
				var added bool
				id, added = byPos.FindOrInsert(p, len(l.Nodes))
				if added {
					l.Nodes = append(l.Nodes, Node{Pos: p, Radius: radius(p)})
				}
				byKey[key] = id
			}
			ids[n] = id
			return id
		}

		for _, s := range uc.Struts {
			a, b := resolve(s.A), resolve(s.B)
			if a == missing || b == missing {
				skipped++
				continue
			}
			if a == b {
				collapsed++
				continue
			}
			key := Strut{A: a, B: b}
			if key.A > key.B {
				key.A, key.B = key.B, key.A
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			l.Struts = append(l.Struts, Strut{A: a, B: b})
		}
	}

	if skipped > 0 || collapsed > 0 {
		log.Debug().Int("skipped", skipped).Int("collapsed", collapsed).Msg("lattice: partial cells")
	}
	l.pruneIsolated()
	return l, nil
}

// pruneIsolated drops nodes that ended up with no struts, which happens
// when every strut at a node was skipped, and renumbers the struts.
func (l *Lattice) pruneIsolated() {
	used := make([]bool, len(l.Nodes))
	for _, s := range l.Struts {
		used[s.A], used[s.B] = true, true
	}
	remap := make([]int, len(l.Nodes))
	nodes := l.Nodes[:0]
	for i, n := range l.Nodes {
		if !used[i] {
			remap[i] = missing
			continue
		}
		remap[i] = len(nodes)
		nodes = append(nodes, n)
	}
	if len(nodes) == len(l.Nodes) {
		return
	}
	l.Nodes = nodes
	for i, s := range l.Struts {
		l.Struts[i] = Strut{A: remap[s.A], B: remap[s.B]}
	}
}
