package lattice

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMatchTolerance is the distance within which a query point matches a
// node.
const DefaultMatchTolerance = 0.01

// NodeFinder resolves positions to lattice nodes. Results are 1-based node
// numbers, the form analysis input decks refer to nodes by.
type NodeFinder struct {
	tree      *kdtree.Tree
	Tolerance float64
}

// NewNodeFinder indexes the lattice nodes.
func NewNodeFinder(l *Lattice) *NodeFinder {
	pts := make(nodePoints, len(l.Nodes))
	for i, n := range l.Nodes {
		pts[i] = nodePoint{Vec: r3.Vec{X: n.Pos.X, Y: n.Pos.Y, Z: n.Pos.Z}, id: i}
	}
	f := &NodeFinder{Tolerance: DefaultMatchTolerance}
	if len(pts) > 0 {
		f.tree = kdtree.New(pts, false)
	}
	return f
}

// Find returns the 1-based number of the node nearest p and whether it lies
// within Tolerance.
func (f *NodeFinder) Find(p v3.Vec) (int, bool) {
	if f.tree == nil {
		return 0, false
	}
	c, d2 := f.tree.Nearest(nodePoint{Vec: r3.Vec{X: p.X, Y: p.Y, Z: p.Z}, id: -1})
	if c == nil || d2 > f.Tolerance*f.Tolerance {
		return 0, false
	}
	return c.(nodePoint).id + 1, true
}

// nodePoint is a kd-tree point carrying its node index.
type nodePoint struct {
	r3.Vec
	id int
}

func (p nodePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(nodePoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	}
	panic("lattice: illegal kd-tree dimension")
}

func (p nodePoint) Dims() int { return 3 }

// Distance returns the squared euclidean distance.
func (p nodePoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.Vec, c.(nodePoint).Vec))
}

type nodePoints []nodePoint

func (p nodePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p nodePoints) Len() int                      { return len(p) }
func (p nodePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p nodePoints) Pivot(d kdtree.Dim) int {
	pl := kdPlane{dim: d, points: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

type kdPlane struct {
	dim    kdtree.Dim
	points nodePoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p kdPlane) Len() int {
	return len(p.points)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
