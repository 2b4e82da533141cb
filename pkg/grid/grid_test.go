package grid

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRoundTrip(t *testing.T) {
	g, err := Box{CellSize: v3.Vec{X: 5, Y: 5, Z: 5}, Counts: [3]int{2, 2, 2}}.Generate()
	require.NoError(t, err)
	require.Equal(t, 27, g.Len())

	g.Each(func(idx Index, p v3.Vec) {
		assert.InDelta(t, 5*float64(idx.U), p.X, 1e-12, "x at %v", idx)
		assert.InDelta(t, 5*float64(idx.V), p.Y, 1e-12, "y at %v", idx)
		assert.InDelta(t, 5*float64(idx.W), p.Z, 1e-12, "z at %v", idx)
	})
}

func TestBoxGenerationOrder(t *testing.T) {
	g, err := Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{1, 1, 1}}.Generate()
	require.NoError(t, err)

	want := []Index{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
	}
	assert.Equal(t, want, g.Indices())
}

func TestBoxInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		box  Box
	}{
		{"zero size", Box{CellSize: v3.Vec{X: 0, Y: 1, Z: 1}, Counts: [3]int{1, 1, 1}}},
		{"negative size", Box{CellSize: v3.Vec{X: 1, Y: -1, Z: 1}, Counts: [3]int{1, 1, 1}}},
		{"zero count", Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{1, 0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tt.box.Generate()
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, g)
		})
	}
}

func TestCellsAndInterpolate(t *testing.T) {
	g, err := Box{CellSize: v3.Vec{X: 5, Y: 5, Z: 5}, Counts: [3]int{2, 2, 2}}.Generate()
	require.NoError(t, err)
	assert.Len(t, g.Cells(), 8)

	p, ok := g.Interpolate(Index{1, 0, 1}, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	require.True(t, ok)
	assert.InDelta(t, 7.5, p.X, 1e-12)
	assert.InDelta(t, 2.5, p.Y, 1e-12)
	assert.InDelta(t, 7.5, p.Z, 1e-12)

	// The last layer of points has no cells of its own, but a corner node
	// only needs the one corner it sits on.
	p, ok = g.Interpolate(Index{2, 2, 2}, v3.Vec{})
	require.True(t, ok)
	assert.Equal(t, v3.Vec{X: 10, Y: 10, Z: 10}, p)

	_, ok = g.Interpolate(Index{2, 0, 0}, v3.Vec{X: 0.5})
	assert.False(t, ok, "interpolating into a missing corner must fail")
}

func TestFilterKeepsIndexSpace(t *testing.T) {
	g, err := Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{2, 2, 2}}.Generate()
	require.NoError(t, err)

	even := g.Filter(func(idx Index, _ v3.Vec) bool { return (idx.U+idx.V+idx.W)%2 == 0 })
	nu, nv, nw := even.Counts()
	assert.Equal(t, [3]int{3, 3, 3}, [3]int{nu, nv, nw})
	assert.Equal(t, 14, even.Len())
	assert.True(t, even.Has(Index{0, 0, 0}))
	assert.False(t, even.Has(Index{0, 0, 1}))
}

func TestCylinder(t *testing.T) {
	c := Cylinder{InnerRadius: 2, OuterRadius: 6, Height: 10, Tangential: 8, Axial: 5, Radial: 2}
	g, err := c.Generate()
	require.NoError(t, err)
	require.Equal(t, 9*6*3, g.Len())

	g.Each(func(idx Index, p v3.Vec) {
		r := math.Hypot(p.X, p.Y)
		assert.InDelta(t, 2+2*float64(idx.W), r, 1e-9, "radius at %v", idx)
		assert.InDelta(t, 2*float64(idx.V), p.Z, 1e-9, "height at %v", idx)
	})

	first, _ := g.Point(Index{0, 3, 1})
	last, _ := g.Point(Index{8, 3, 1})
	assert.InDelta(t, 0, first.Sub(last).Length(), 1e-9, "seam column must coincide with column 0")
}

func TestCylinderGenerationOrder(t *testing.T) {
	g, err := Cylinder{InnerRadius: 1, OuterRadius: 2, Height: 1, Tangential: 3, Axial: 1, Radial: 1}.Generate()
	require.NoError(t, err)

	idx := g.Indices()
	require.Len(t, idx, 4*2*2)
	assert.Equal(t, []Index{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 0, 0}}, idx[:5])
	assert.Equal(t, Index{3, 1, 1}, idx[len(idx)-1])
}

func TestCylinderInvalid(t *testing.T) {
	_, err := Cylinder{InnerRadius: 5, OuterRadius: 5, Height: 1, Tangential: 4, Axial: 1, Radial: 1}.Generate()
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Cylinder{OuterRadius: 5, Height: 1, Tangential: 0, Axial: 1, Radial: 1}.Generate()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSurfaceSurface(t *testing.T) {
	lower := Patch{
		P00: v3.Vec{}, P10: v3.Vec{X: 10}, P11: v3.Vec{X: 10, Y: 10}, P01: v3.Vec{Y: 10},
	}
	upper := SurfaceFunc(func(u, v float64) v3.Vec {
		return v3.Vec{X: 10 * u, Y: 10 * v, Z: 4 + 2*u}
	})
	g, err := SurfaceSurface{Lower: lower, Upper: upper, Counts: [3]int{2, 2, 4}}.Generate()
	require.NoError(t, err)
	require.Equal(t, 3*3*5, g.Len())

	p, ok := g.Point(Index{2, 1, 2})
	require.True(t, ok)
	assert.InDelta(t, 10, p.X, 1e-12)
	assert.InDelta(t, 5, p.Y, 1e-12)
	assert.InDelta(t, 3, p.Z, 1e-12) // halfway to z = 6
}

func TestSurfacePointApex(t *testing.T) {
	base := Patch{P00: v3.Vec{}, P10: v3.Vec{X: 4}, P11: v3.Vec{X: 4, Y: 4}, P01: v3.Vec{Y: 4}}
	apex := v3.Vec{X: 2, Y: 2, Z: 6}
	g, err := SurfacePoint{Surface: base, Apex: apex, Counts: [3]int{2, 2, 3}}.Generate()
	require.NoError(t, err)

	for u := 0; u <= 2; u++ {
		for v := 0; v <= 2; v++ {
			p, ok := g.Point(Index{u, v, 3})
			require.True(t, ok)
			assert.InDelta(t, 0, p.Sub(apex).Length(), 1e-12)
		}
	}
}

func TestConformNilSurface(t *testing.T) {
	_, err := SurfaceSurface{Lower: Patch{}, Counts: [3]int{1, 1, 1}}.Generate()
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SurfacePoint{Counts: [3]int{1, 1, 1}}.Generate()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// halfBoundary hits a sphere of the given radius around the origin, but
// only for rays pointing into the +X half space.
type halfBoundary struct{ radius float64 }

func (h halfBoundary) Intersect(origin, dir v3.Vec) (v3.Vec, bool) {
	if dir.X < -1e-9 {
		return v3.Vec{}, false
	}
	return origin.Add(dir.Normalize().MulScalar(h.radius)), true
}

func TestSurfaceAxisSparseOnMiss(t *testing.T) {
	s := SurfaceAxis{
		Start: v3.Vec{}, End: v3.Vec{Z: 4},
		Boundary:   halfBoundary{radius: 3},
		Tangential: 4, Axial: 2, Radial: 3,
	}
	g, err := s.Generate()
	require.NoError(t, err)

	nu, _, _ := g.Counts()
	require.Equal(t, 5, nu)
	// Of the five tangential columns (0, 90, 180, 270, 360 degrees) the
	// one at 180 degrees points into -X and misses.
	assert.Equal(t, 4*3*4, g.Len())
	for j := 0; j <= 2; j++ {
		for k := 0; k <= 3; k++ {
			assert.False(t, g.Has(Index{2, j, k}))
		}
	}
	p, ok := g.Point(Index{1, 1, 3})
	require.True(t, ok)
	assert.InDelta(t, 3, math.Hypot(p.X, p.Y), 1e-9)
	assert.InDelta(t, 2, p.Z, 1e-9)
}

func TestSurfaceAxisInvalid(t *testing.T) {
	_, err := SurfaceAxis{End: v3.Vec{Z: 1}, Tangential: 1, Axial: 1, Radial: 1}.Generate()
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SurfaceAxis{Boundary: halfBoundary{1}, Tangential: 1, Axial: 1, Radial: 1}.Generate()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPatchCorners(t *testing.T) {
	p := Patch{P00: v3.Vec{}, P10: v3.Vec{X: 1}, P11: v3.Vec{X: 1, Y: 1, Z: 1}, P01: v3.Vec{Y: 1}}
	assert.Equal(t, p.P00, p.Point(0, 0))
	assert.Equal(t, p.P10, p.Point(1, 0))
	assert.Equal(t, p.P11, p.Point(1, 1))
	assert.Equal(t, p.P01, p.Point(0, 1))
	assert.InDelta(t, 0.25, p.Point(0.5, 0.5).Z, 1e-12)
}
