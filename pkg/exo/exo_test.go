package exo

import (
	"math"
	"testing"

	"github.com/chazu/exolattice/pkg/cell"
	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/lattice"
	"github.com/chazu/exolattice/pkg/mesh"
	"github.com/chazu/exolattice/pkg/validate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleeveFaceCount(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7}
	b := []int{8, 9, 10, 11, 12, 13, 14, 15}
	faces := SleeveFaces(a, b)
	assert.Len(t, faces, 16)
	assert.Equal(t, mesh.Face{7, 0, 8}, faces[14])
}

func TestFanFacesFaceAwayFromStrut(t *testing.T) {
	m := &mesh.Mesh{}
	u, v := strutFrame(v3.Vec{Z: 1})
	c, ring := addRing(m, v3.Vec{}, u, v, 1, 6)

	m.Faces = FanFaces(c, ring, true)
	for i := range m.Faces {
		assert.Less(t, m.Normal(i).Z, 0.0, "A cap faces -d")
	}
	m.Faces = FanFaces(c, ring, false)
	for i := range m.Faces {
		assert.Greater(t, m.Normal(i).Z, 0.0, "B cap faces +d")
	}
}

func TestStrutFrame(t *testing.T) {
	for _, d := range []v3.Vec{{X: 1}, {Y: 1}, {Z: -1}, v3.Vec{X: 1, Y: 2, Z: 3}.Normalize()} {
		u, v := strutFrame(d)
		assert.InDelta(t, 0, u.Dot(d), 1e-12)
		assert.InDelta(t, 1, u.Length(), 1e-12)
		assert.InDelta(t, 0, d.Sub(u.Cross(v)).Length(), 1e-12)
	}
}

func TestNodeOffset(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 0.0, nodeOffset([]v3.Vec{{X: 1}}, []float64{1}, opts))
	assert.InDelta(t, 1.1, nodeOffset([]v3.Vec{{X: 1}, {Y: 1}}, []float64{1, 1}, opts), 1e-12)
	assert.InDelta(t, 0.5, nodeOffset([]v3.Vec{{X: 1}, {X: -1}}, []float64{1, 1}, opts), 1e-12)
	assert.True(t, math.IsInf(nodeOffset([]v3.Vec{{X: 1}, {X: 1}}, []float64{1, 1}, opts), 1))
}

// assertClosedHull checks a hull is a closed, outward, genus-0 surface
// containing every point.
func assertClosedHull(t *testing.T, pts []v3.Vec, faces []mesh.Face, eps float64) {
	t.Helper()
	directed := map[[2]int]int{}
	used := map[int]bool{}
	for _, f := range faces {
		for k := 0; k < 3; k++ {
			directed[[2]int{f[k], f[(k+1)%3]}]++
			used[f[k]] = true
		}
	}
	for e, n := range directed {
		require.Equal(t, 1, n, "edge %v repeated", e)
		require.Equal(t, 1, directed[[2]int{e[1], e[0]}], "edge %v has no twin", e)
	}
	assert.Equal(t, 2*len(used)-4, len(faces), "Euler: F = 2V - 4")
	for _, f := range faces {
		a := pts[f[0]]
		n := pts[f[1]].Sub(a).Cross(pts[f[2]].Sub(a)).Normalize()
		for i, p := range pts {
			require.LessOrEqual(t, n.Dot(p.Sub(a)), eps, "point %d outside face %v", i, f)
		}
	}
}

func TestConvexHullCube(t *testing.T) {
	var pts []v3.Vec
	for x := 0.0; x <= 1; x++ {
		for y := 0.0; y <= 1; y++ {
			for z := 0.0; z <= 1; z++ {
				pts = append(pts, v3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	pts = append(pts, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) // interior
	faces, err := ConvexHull(pts, 1e-9)
	require.NoError(t, err)
	assert.Len(t, faces, 12)
	assertClosedHull(t, pts, faces, 1e-9)
}

func TestConvexHullDegenerate(t *testing.T) {
	flat := []v3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 3}}
	_, err := ConvexHull(flat, 1e-9)
	assert.ErrorIs(t, err, ErrDegenerateHull)
	_, err = ConvexHull(flat[:3], 1e-9)
	assert.ErrorIs(t, err, ErrDegenerateHull)
}

// tetraNode is one node with four struts along the tetrahedral directions.
func tetraNode() *lattice.Lattice {
	l := &lattice.Lattice{Nodes: []lattice.Node{{Radius: 1}}}
	for _, d := range []v3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}} {
		l.Nodes = append(l.Nodes, lattice.Node{Pos: d.Normalize().MulScalar(10), Radius: 1})
		l.Struts = append(l.Struts, lattice.Strut{A: 0, B: len(l.Nodes) - 1})
	}
	return l
}

func TestConvexHullTetrahedralNode(t *testing.T) {
	res, err := Generate(tetraNode(), DefaultOptions())
	require.NoError(t, err)

	node := res.Nodes[0]
	require.Len(t, node.PlateIndices, 4)
	var pts []v3.Vec
	for _, pi := range node.PlateIndices {
		for _, vi := range res.Plates[pi].Ring {
			pts = append(pts, res.Mesh.Vertices[vi])
		}
	}
	faces, err := ConvexHull(pts, 1e-9)
	require.NoError(t, err)

	used := map[int]bool{}
	for _, f := range faces {
		used[f[0]], used[f[1]], used[f[2]] = true, true, true
	}
	assert.Len(t, used, 32, "every ring vertex is on the hull")
	assert.Len(t, faces, 60)
	assertClosedHull(t, pts, faces, 1e-9)
}

func TestGenerateTetrahedralNodeClosed(t *testing.T) {
	res, err := Generate(tetraNode(), DefaultOptions())
	require.NoError(t, err)
	r := validate.Check(res.Mesh)
	assert.Equal(t, 0, r.NakedEdges)
	assert.Equal(t, validate.Outward, r.Orientation)
	assert.Empty(t, res.OpenNodes)
	assert.Zero(t, res.ClampedPlates)
}

func TestGenerateSingleStrut(t *testing.T) {
	l := &lattice.Lattice{
		Nodes:  []lattice.Node{{Pos: v3.Vec{}, Radius: 1}, {Pos: v3.Vec{Z: 10}, Radius: 1}},
		Struts: []lattice.Strut{{A: 0, B: 1}},
	}
	res, err := Generate(l, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, res.Mesh.Vertices, 18)
	assert.Len(t, res.Mesh.Faces, 16+8+8)
	r := validate.Check(res.Mesh)
	assert.Equal(t, validate.Outward, r.Orientation)
	// An octagonal prism: (S/2) r^2 sin(2pi/S) times the length.
	assert.InDelta(t, 4*math.Sin(math.Pi/4)*10, r.Volume, 1e-9)
	for _, p := range res.Plates {
		assert.Zero(t, p.Offset)
		assert.GreaterOrEqual(t, p.Center, 0)
	}
}

func TestGenerateTaper(t *testing.T) {
	l := &lattice.Lattice{
		Nodes:  []lattice.Node{{Pos: v3.Vec{}, Radius: 1}, {Pos: v3.Vec{X: 10}, Radius: 2}},
		Struts: []lattice.Strut{{A: 0, B: 1}},
	}
	res, err := Generate(l, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Plates, 2)
	assert.InDelta(t, 1, res.Plates[0].Radius, 1e-12)
	assert.InDelta(t, 2, res.Plates[1].Radius, 1e-12)
	assert.Equal(t, v3.Vec{X: 1}, res.Plates[0].Normal)
	assert.Equal(t, v3.Vec{X: -1}, res.Plates[1].Normal)
	for _, vi := range res.Plates[1].Ring {
		p := res.Mesh.Vertices[vi]
		assert.InDelta(t, 2, math.Hypot(p.Y, p.Z), 1e-9)
	}
	assert.Equal(t, validate.Outward, validate.Check(res.Mesh).Orientation)
}

func mapLattice(t *testing.T, kind cell.Kind, n int, r float64) *lattice.Lattice {
	t.Helper()
	return mapGrid(t, grid.Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{n, n, n}}, kind, r)
}

func mapGrid(t *testing.T, gen grid.Shape, kind cell.Kind, r float64) *lattice.Lattice {
	t.Helper()
	g, err := gen.Generate()
	require.NoError(t, err)
	uc, err := cell.Preset(kind)
	require.NoError(t, err)
	l, err := lattice.Map(g, uc, lattice.Uniform(r), lattice.Options{})
	require.NoError(t, err)
	return l
}

func TestGenerateLatticesClosed(t *testing.T) {
	box := func(n int) grid.Shape {
		return grid.Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{n, n, n}}
	}
	ring := grid.Cylinder{InnerRadius: 2, OuterRadius: 4, Height: 3, Tangential: 12, Axial: 2, Radial: 2}
	tests := []struct {
		name string
		gen  grid.Shape
		kind cell.Kind
		r    float64
	}{
		{"grid 1", box(1), cell.Grid, 0.05},
		{"grid 2", box(2), cell.Grid, 0.05},
		{"star 1", box(1), cell.Star, 0.05},
		{"octahedral 1", box(1), cell.Octahedral, 0.05},
		{"cylinder star", ring, cell.Star, 0.1},
		{"cylinder star2", ring, cell.Star2, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mapGrid(t, tt.gen, tt.kind, tt.r)
			res, err := Generate(l, DefaultOptions())
			require.NoError(t, err)

			for i, n := range res.Nodes {
				assert.Equal(t, len(n.StrutIndices), len(n.PlateIndices), "node %d", i)
			}
			assert.Len(t, res.Plates, 2*len(l.Struts))
			assert.Len(t, res.Sleeves, len(l.Struts))
			assert.Empty(t, res.OpenNodes)

			r := validate.Validate(res.Mesh)
			assert.Equal(t, 0, r.NakedEdges, r.String())
			assert.Equal(t, validate.Outward, r.Orientation, r.String())
			assert.False(t, r.Flipped)
		})
	}
}

func TestGenerateClampedNodeShrinksPlates(t *testing.T) {
	// Two struts 10 degrees apart and short enough that the offset clamps.
	a := 10 * math.Pi / 180
	l := &lattice.Lattice{
		Nodes: []lattice.Node{
			{Pos: v3.Vec{}, Radius: 0.2},
			{Pos: v3.Vec{X: 1}, Radius: 0.2},
			{Pos: v3.Vec{X: math.Cos(a), Y: math.Sin(a)}, Radius: 0.2},
		},
		Struts: []lattice.Strut{{A: 0, B: 1}, {A: 0, B: 2}},
	}
	opts := DefaultOptions()
	res, err := Generate(l, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ClampedPlates)
	assert.Empty(t, res.OpenNodes)

	for _, pi := range res.Nodes[0].PlateIndices {
		p := res.Plates[pi]
		assert.InDelta(t, opts.MaxOffsetFraction, p.Offset, 1e-12)
		assert.Less(t, p.Radius, 0.2)
		assert.Less(t, p.Radius/p.Offset, math.Tan(a/2))
	}
	assert.Equal(t, 0, validate.Validate(res.Mesh).NakedEdges)
}

func TestGenerateParallelStrutsLeaveNodeOpen(t *testing.T) {
	l := &lattice.Lattice{
		Nodes: []lattice.Node{
			{Pos: v3.Vec{}, Radius: 0.5},
			{Pos: v3.Vec{X: 10}, Radius: 0.5},
			{Pos: v3.Vec{X: 20}, Radius: 0.5},
		},
		Struts: []lattice.Strut{{A: 0, B: 1}, {A: 0, B: 2}},
	}
	res, err := Generate(l, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.OpenNodes)
	assert.Equal(t, 2, res.ClampedPlates)
}

func TestHullNodeRequiresRingEdges(t *testing.T) {
	build := func(plates ...[3]float64) *Result {
		res := &Result{Nodes: make([]Node, 1), Mesh: &mesh.Mesh{}}
		for _, p := range plates {
			x, dir, r := p[0], p[1], p[2]
			d := v3.Vec{X: dir}
			u, v := strutFrame(d)
			c, ring := addRing(res.Mesh, v3.Vec{X: x}, u, v, r, 4)
			res.Plates = append(res.Plates, Plate{Offset: math.Abs(x), Radius: r, Normal: d, Center: c, Ring: ring})
			res.Nodes[0].PlateIndices = append(res.Nodes[0].PlateIndices, len(res.Plates)-1)
		}
		return res
	}

	faces, err := build([3]float64{-0.5, -1, 5}, [3]float64{3, 1, 5}).hullNode(0, DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, faces)

	// The small plate sits inside the prism spanned by the other two.
	_, err = build([3]float64{-0.5, -1, 5}, [3]float64{3, 1, 5}, [3]float64{0.5, 1, 1}).hullNode(0, DefaultOptions())
	assert.ErrorIs(t, err, ErrOpenNode)
}

func TestGenerateSkipsDegenerateStruts(t *testing.T) {
	l := &lattice.Lattice{
		Nodes: []lattice.Node{
			{Pos: v3.Vec{}, Radius: 1},
			{Pos: v3.Vec{X: 10}, Radius: 1},
			{Pos: v3.Vec{X: 10, Y: 10}, Radius: 0},
		},
		Struts: []lattice.Strut{{A: 0, B: 1}, {A: 1, B: 2}},
	}
	res, err := Generate(l, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.SkippedStruts)
	assert.Len(t, res.Plates, 2)
	assert.Empty(t, res.Nodes[2].PlateIndices)
	assert.Equal(t, validate.Outward, validate.Check(res.Mesh).Orientation)
}

func TestGenerateInvalidOptions(t *testing.T) {
	_, err := Generate(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidOptions)

	tests := []struct {
		name string
		mod  func(*Options)
	}{
		{"sides", func(o *Options) { o.Sides = 2 }},
		{"margin", func(o *Options) { o.OffsetMargin = -1 }},
		{"fraction", func(o *Options) { o.MaxOffsetFraction = 0.5 }},
		{"weld", func(o *Options) { o.WeldTolerance = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mod(&opts)
			_, err := Generate(tetraNode(), opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(mapLattice(t, cell.Cross, 1, 0.05), DefaultOptions())
	require.NoError(t, err)
	b, err := Generate(mapLattice(t, cell.Cross, 1, 0.05), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Mesh, b.Mesh)
}
