package lattice

import (
	"math"

	"github.com/chazu/exolattice/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// RadiusFunc gives the strut radius at a point in space.
type RadiusFunc func(p v3.Vec) float64

// Uniform returns a constant radius.
func Uniform(r float64) RadiusFunc {
	return func(v3.Vec) float64 { return r }
}

// Gradient interpolates linearly from r0 at point from to r1 at point to,
// measured along the line between them and clamped beyond its ends.
func Gradient(from, to v3.Vec, r0, r1 float64) RadiusFunc {
	axis := to.Sub(from)
	l2 := axis.Dot(axis)
	return func(p v3.Vec) float64 {
		if l2 == 0 {
			return r0
		}
		t := math.Max(0, math.Min(1, p.Sub(from).Dot(axis)/l2))
		return r0 + (r1-r0)*t
	}
}

// SolidField grades the radius by distance from a solid's surface: rNear at
// the surface (or inside), rFar at falloff or further away.
func SolidField(s kernel.Solid, rNear, rFar, falloff float64) RadiusFunc {
	return func(p v3.Vec) float64 {
		d := s.Evaluate(p)
		if falloff <= 0 || d <= 0 {
			if d > 0 {
				return rFar
			}
			return rNear
		}
		t := math.Min(1, d/falloff)
		return rNear + (rFar-rNear)*t
	}
}
