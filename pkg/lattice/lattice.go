// Package lattice maps a unit cell over a grid into a deduplicated
// node/strut wireframe, and provides the lookups downstream analysis code
// uses to address nodes by position.
package lattice

import v3 "github.com/deadsy/sdfx/vec/v3"

// Node is a lattice node: a position and the strut radius there.
type Node struct {
	Pos    v3.Vec
	Radius float64
}

// Strut joins two nodes by index. The pair is unordered for identity.
type Strut struct {
	A, B int
}

// Other returns the end of the strut that is not node n.
func (s Strut) Other(n int) int {
	if s.A == n {
		return s.B
	}
	return s.A
}

// Lattice is an index arena of nodes and struts. Indices are stable: they
// follow insertion order, which is deterministic for identical input.
type Lattice struct {
	Nodes  []Node
	Struts []Strut
}

// Length returns the length of strut i.
func (l *Lattice) Length(i int) float64 {
	s := l.Struts[i]
	return l.Nodes[s.B].Pos.Sub(l.Nodes[s.A].Pos).Length()
}

// RadiusAt returns the radius of strut i at parameter t in [0,1] from A to
// B, tapering linearly between the end node radii.
func (l *Lattice) RadiusAt(i int, t float64) float64 {
	s := l.Struts[i]
	ra, rb := l.Nodes[s.A].Radius, l.Nodes[s.B].Radius
	return ra + (rb-ra)*t
}

// Incident returns, for every node, the indices of its struts in strut
// order.
func (l *Lattice) Incident() [][]int {
	out := make([][]int, len(l.Nodes))
	for i, s := range l.Struts {
		out[s.A] = append(out[s.A], i)
		out[s.B] = append(out[s.B], i)
	}
	return out
}

// Positions returns the node positions in index order.
func (l *Lattice) Positions() []v3.Vec {
	out := make([]v3.Vec, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = n.Pos
	}
	return out
}
