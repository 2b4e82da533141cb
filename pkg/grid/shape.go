package grid

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidInput is returned when a shape's parameters cannot produce a
// grid (non-positive sizes or counts, missing surfaces or solids). Hosts
// treat it as "no output" rather than a failure.
var ErrInvalidInput = errors.New("grid: invalid input")

// Shape is a design-space descriptor that can generate a point grid.
type Shape interface {
	Generate() (*Grid, error)
}

// Compile-time interface checks.
var (
	_ Shape = Box{}
	_ Shape = Cylinder{}
	_ Shape = SurfaceAxis{}
	_ Shape = SurfaceSurface{}
	_ Shape = SurfacePoint{}
	_ Shape = Trimmed{}
)

func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

func positiveCounts(c [3]int) bool {
	return c[0] > 0 && c[1] > 0 && c[2] > 0
}

// frame returns two unit vectors perpendicular to axis and to each other,
// such that (e1, e2, axis) is right-handed.
func frame(axis v3.Vec) (e1, e2 v3.Vec) {
	n := axis.Normalize()
	ref := v3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = v3.Vec{Y: 1}
	}
	e1 = ref.Sub(n.MulScalar(ref.Dot(n))).Normalize()
	e2 = n.Cross(e1)
	return e1, e2
}
