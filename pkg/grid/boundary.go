package grid

import (
	"math"

	"github.com/chazu/exolattice/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Boundary is a bounding surface that rays can be shot against.
type Boundary interface {
	// Intersect returns the first point where the ray origin + t*dir (t >= 0)
	// crosses the boundary, and false when the ray misses.
	Intersect(origin, dir v3.Vec) (v3.Vec, bool)
}

const (
	defaultMarchEpsilon = 1e-6
	defaultMarchSteps   = 512
	bisectionSteps      = 60
)

// SolidBoundary uses the surface of a kernel solid as a Boundary. Rays are
// sphere traced through the solid's signed distance; a step that jumps over
// the surface is refined by bisection.
type SolidBoundary struct {
	Solid       kernel.Solid
	MaxDistance float64 // 0 derives a limit from the bounding box
	Epsilon     float64 // 0 means 1e-6
	MaxSteps    int     // 0 means 512
}

// Intersect marches from origin along dir until the signed distance changes
// sign or falls within Epsilon of zero.
func (b SolidBoundary) Intersect(origin, dir v3.Vec) (v3.Vec, bool) {
	if b.Solid == nil || dir.Length() == 0 {
		return v3.Vec{}, false
	}
	dir = dir.Normalize()

	eps := b.Epsilon
	if eps <= 0 {
		eps = defaultMarchEpsilon
	}
	steps := b.MaxSteps
	if steps <= 0 {
		steps = defaultMarchSteps
	}
	maxDist := b.MaxDistance
	if maxDist <= 0 {
		min, max := b.Solid.BoundingBox()
		centre := min.Add(max).MulScalar(0.5)
		maxDist = max.Sub(min).Length() + origin.Sub(centre).Length()
	}

	d0 := b.Solid.Evaluate(origin)
	if math.Abs(d0) < eps {
		return origin, true
	}
	inside := d0 < 0

	tPrev, t := 0.0, 0.0
	for i := 0; i < steps; i++ {
		d := b.Solid.Evaluate(origin.Add(dir.MulScalar(t)))
		if math.Abs(d) < eps {
			return origin.Add(dir.MulScalar(t)), true
		}
		if (d < 0) != inside {
			return b.bisect(origin, dir, tPrev, t, inside), true
		}
		if t > maxDist {
			break
		}
		tPrev = t
		t += math.Max(math.Abs(d), eps)
	}
	return v3.Vec{}, false
}

// bisect refines a sign change between lo and hi.
func (b SolidBoundary) bisect(origin, dir v3.Vec, lo, hi float64, inside bool) v3.Vec {
	for i := 0; i < bisectionSteps; i++ {
		mid := (lo + hi) / 2
		d := b.Solid.Evaluate(origin.Add(dir.MulScalar(mid)))
		if (d < 0) == inside {
			lo = mid
		} else {
			hi = mid
		}
	}
	return origin.Add(dir.MulScalar((lo + hi) / 2))
}
