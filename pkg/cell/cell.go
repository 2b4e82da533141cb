// Package cell defines unit cells: the node and strut template repeated in
// every cell of a lattice grid. Node positions live in the unit cube; nodes
// on its faces are shared with neighbouring cells, and each node records the
// neighbour offset under which it is canonical so the mapper can merge the
// copies.
package cell

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/exolattice/pkg/grid"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrOutsideUnitCube is returned for a node coordinate outside [0,1].
	ErrOutsideUnitCube = errors.New("cell: node outside unit cube")
	// ErrNotPeriodic is returned for a node on the cube boundary that no
	// neighbouring cell's copy of the template shares.
	ErrNotPeriodic = errors.New("cell: boundary node has no periodic counterpart")
	// ErrEmptyCell is returned for a cell without struts.
	ErrEmptyCell = errors.New("cell: no struts")
	// ErrBadStrut is returned for a strut referencing a missing node or
	// joining a node to itself.
	ErrBadStrut = errors.New("cell: invalid strut")
)

// DefaultTolerance is the distance under which two template coordinates are
// considered equal and a coordinate is snapped onto a cube face.
const DefaultTolerance = 1e-6

// Pair is a strut between two template nodes.
type Pair struct {
	A, B int
}

// Path locates the canonical copy of a node: the node in cell c is the same
// lattice node as template node Node in cell c+Offset. Offsets are 0 or 1
// per axis; a coordinate equal to 1 is owned by the next cell along that
// axis, where it sits at 0.
type Path struct {
	Offset grid.Index
	Node   int
}

// UnitCell is a validated cell template. It is read-only once built.
type UnitCell struct {
	Nodes     []v3.Vec
	Paths     []Path
	Adjacency [][]int
	Struts    []Pair
}

// New validates a template and derives its relative paths and adjacency.
// Coordinates within DefaultTolerance of a face are snapped onto it and
// duplicate struts are merged.
func New(nodes []v3.Vec, struts []Pair) (*UnitCell, error) {
	return build(nodes, struts, DefaultTolerance)
}

func build(nodes []v3.Vec, struts []Pair, tol float64) (*UnitCell, error) {
	snapped := make([]v3.Vec, len(nodes))
	for i, n := range nodes {
		p, err := snap(n, tol)
		if err != nil {
			return nil, fmt.Errorf("cell: node %d at %v: %w", i, n, err)
		}
		snapped[i] = p
	}

	uc := &UnitCell{
		Nodes:     snapped,
		Adjacency: make([][]int, len(snapped)),
	}
	seen := make(map[Pair]bool, len(struts))
	for i, s := range struts {
		if s.A < 0 || s.B < 0 || s.A >= len(snapped) || s.B >= len(snapped) || s.A == s.B {
			return nil, fmt.Errorf("cell: strut %d (%d,%d): %w", i, s.A, s.B, ErrBadStrut)
		}
		key := s
		if key.A > key.B {
			key.A, key.B = key.B, key.A
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		uc.Struts = append(uc.Struts, s)
		uc.Adjacency[s.A] = append(uc.Adjacency[s.A], s.B)
		uc.Adjacency[s.B] = append(uc.Adjacency[s.B], s.A)
	}
	if len(uc.Struts) == 0 {
		return nil, ErrEmptyCell
	}
	for _, adj := range uc.Adjacency {
		sort.Ints(adj)
	}

	if err := checkPeriodic(snapped, tol); err != nil {
		return nil, err
	}
	uc.Paths = relativePaths(snapped, tol)
	return uc, nil
}

// snap clamps coordinates within tol of 0 or 1 onto the face and rejects
// anything further out.
func snap(p v3.Vec, tol float64) (v3.Vec, error) {
	c := [3]float64{p.X, p.Y, p.Z}
	for a := range c {
		switch {
		case c[a] < -tol || c[a] > 1+tol:
			return p, ErrOutsideUnitCube
		case c[a] <= tol:
			c[a] = 0
		case c[a] >= 1-tol:
			c[a] = 1
		}
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// relativePaths moves every coordinate equal to 1 to 0 in the next cell.
// Nodes sharing a canonical position share the first such node's index.
func relativePaths(nodes []v3.Vec, tol float64) []Path {
	paths := make([]Path, len(nodes))
	canon := make([]v3.Vec, len(nodes))
	for i, n := range nodes {
		var off grid.Index
		c := n
		if c.X == 1 {
			c.X, off.U = 0, 1
		}
		if c.Y == 1 {
			c.Y, off.V = 0, 1
		}
		if c.Z == 1 {
			c.Z, off.W = 0, 1
		}
		canon[i] = c
		rep := i
		for j := 0; j < i; j++ {
			if near(canon[j], c, tol) {
				rep = paths[j].Node
				break
			}
		}
		paths[i] = Path{Offset: off, Node: rep}
	}
	return paths
}

// checkPeriodic requires every node on a face to coincide with some node of
// a neighbouring cell: shifting it by -1 along axes where it sits at 1 and
// +1 where it sits at 0 (any non-empty subset of those axes) must land on
// another template node.
func checkPeriodic(nodes []v3.Vec, tol float64) error {
	for i, n := range nodes {
		c := [3]float64{n.X, n.Y, n.Z}
		var shifts [3]float64
		var axes []int
		for a := range c {
			switch c[a] {
			case 0:
				shifts[a] = 1
				axes = append(axes, a)
			case 1:
				shifts[a] = -1
				axes = append(axes, a)
			}
		}
		if len(axes) == 0 {
			continue
		}
		found := false
		for mask := 1; mask < 1<<len(axes) && !found; mask++ {
			s := c
			for b, a := range axes {
				if mask&(1<<b) != 0 {
					s[a] += shifts[a]
				}
			}
			target := v3.Vec{X: s[0], Y: s[1], Z: s[2]}
			for j, m := range nodes {
				if j != i && near(m, target, tol) {
					found = true
					break
				}
			}
		}
		if !found {
			return fmt.Errorf("cell: node %d at %v: %w", i, n, ErrNotPeriodic)
		}
	}
	return nil
}

func near(a, b v3.Vec, tol float64) bool {
	return a.Sub(b).Length() <= tol
}

// Degree returns the number of struts incident on template node i.
func (uc *UnitCell) Degree(i int) int {
	return len(uc.Adjacency[i])
}
