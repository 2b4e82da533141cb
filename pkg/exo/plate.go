package exo

import (
	"math"

	"github.com/chazu/exolattice/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plate is the polygonal cross-section where a strut leaves a node.
type Plate struct {
	Node   int     // lattice node index
	Strut  int     // lattice strut index
	Offset float64 // distance from the node along Normal
	Radius float64
	Normal v3.Vec // unit direction from the node into the strut
	// Center and Ring index mesh vertices. Center is -1 once compacted
	// away, which happens to hull plates whose centre is not a hull vertex.
	Center int
	Ring   []int
}

// strutFrame returns unit vectors u, v perpendicular to the strut
// direction d with u x v = d. Both plates of a strut use the same frame so
// ring vertex i at one end lines up with ring vertex i at the other.
func strutFrame(d v3.Vec) (u, v v3.Vec) {
	ref := v3.Vec{X: 1}
	if math.Abs(d.X) > 0.9 {
		ref = v3.Vec{Y: 1}
	}
	u = ref.Sub(d.MulScalar(ref.Dot(d))).Normalize()
	v = d.Cross(u)
	return u, v
}

// addRing appends the S ring vertices of a circle of radius r around c in
// the (u, v) plane, followed by its centre, and returns their indices.
func addRing(m *mesh.Mesh, c, u, v v3.Vec, r float64, sides int) (center int, ring []int) {
	ring = make([]int, sides)
	for i := range ring {
		theta := 2 * math.Pi * float64(i) / float64(sides)
		p := c.Add(u.MulScalar(r * math.Cos(theta))).Add(v.MulScalar(r * math.Sin(theta)))
		ring[i] = m.AddVertex(p)
	}
	return m.AddVertex(c), ring
}

// nodeOffset is the plate offset shared by every plate at a node: the
// distance at which the plates of each sibling pair, of radii ri and rj
// and an angle theta apart, stop touching, max(ri, rj)/tan(theta/2),
// grown by margin and no less than minOffset times the largest radius.
// A node with one strut gets zero, its plate closed by a fan.
func nodeOffset(dirs []v3.Vec, radii []float64, opts Options) float64 {
	if len(dirs) < 2 {
		return 0
	}
	rmax := 0.0
	for _, r := range radii {
		rmax = math.Max(rmax, r)
	}
	off := opts.MinOffset * rmax
	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			cos := math.Max(-1, math.Min(1, dirs[i].Dot(dirs[j])))
			half := math.Acos(cos) / 2
			r := math.Max(radii[i], radii[j])
			if half < 1e-9 {
				return math.Inf(1)
			}
			off = math.Max(off, r/math.Tan(half)*(1+opts.OffsetMargin))
		}
	}
	return off
}
