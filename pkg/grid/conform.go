package grid

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog/log"
)

// SurfaceAxis conforms a grid between an axis and a bounding surface that
// encloses it. The axis is divided into Axial+1 perpendicular frames; from
// each frame Tangential rays are shot radially to the boundary, and the
// radial points interpolate from the axis to the hit. Index space is
// U tangential, V axial, W radial, generated tangential-outermost like
// Cylinder.
type SurfaceAxis struct {
	Start, End v3.Vec
	Boundary   Boundary
	Tangential int
	Axial      int
	Radial     int
}

// Generate shoots the rays. A ray that misses the boundary omits its whole
// radial line; the grid is left sparse there.
func (s SurfaceAxis) Generate() (*Grid, error) {
	if s.Boundary == nil {
		return nil, fmt.Errorf("surface-axis: nil boundary: %w", ErrInvalidInput)
	}
	axis := s.End.Sub(s.Start)
	if axis.Length() == 0 {
		return nil, fmt.Errorf("surface-axis: zero-length axis: %w", ErrInvalidInput)
	}
	counts := [3]int{s.Tangential, s.Axial, s.Radial}
	if !positiveCounts(counts) {
		return nil, fmt.Errorf("surface-axis: counts %v must be positive: %w", counts, ErrInvalidInput)
	}

	e1, e2 := frame(axis)
	g := New(s.Tangential+1, s.Axial+1, s.Radial+1)
	missed := 0
	for i := 0; i <= s.Tangential; i++ {
		angle := float64(i) * 2 * math.Pi / float64(s.Tangential)
		dir := e1.MulScalar(math.Cos(angle)).Add(e2.MulScalar(math.Sin(angle)))
		for j := 0; j <= s.Axial; j++ {
			origin := lerp(s.Start, s.End, float64(j)/float64(s.Axial))
			hit, ok := s.Boundary.Intersect(origin, dir)
			if !ok {
				missed++
				log.Debug().Int("u", i).Int("v", j).Msg("grid: ray missed bounding surface")
				continue
			}
			for k := 0; k <= s.Radial; k++ {
				g.Set(Index{U: i, V: j, W: k}, lerp(origin, hit, float64(k)/float64(s.Radial)))
			}
		}
	}
	if missed > 0 {
		log.Warn().Int("missed", missed).Msg("grid: surface-axis grid is sparse")
	}
	return g, nil
}

// SurfaceSurface conforms a grid between two parametric surfaces. Counts
// holds the divisions along the surfaces' u and v parameters and across
// the gap (w).
type SurfaceSurface struct {
	Lower, Upper Surface
	Counts       [3]int
}

// Generate interpolates from Lower to Upper at each (u, v) sample.
func (s SurfaceSurface) Generate() (*Grid, error) {
	if s.Lower == nil || s.Upper == nil {
		return nil, fmt.Errorf("surface-surface: nil surface: %w", ErrInvalidInput)
	}
	return conform(s.Counts, func(u, v float64) (v3.Vec, v3.Vec) {
		return s.Lower.Point(u, v), s.Upper.Point(u, v)
	})
}

// SurfacePoint conforms a grid between a parametric surface and a single
// apex point. Every point at w = Counts[2] collapses onto the apex.
type SurfacePoint struct {
	Surface Surface
	Apex    v3.Vec
	Counts  [3]int
}

// Generate interpolates from the surface to the apex.
func (s SurfacePoint) Generate() (*Grid, error) {
	if s.Surface == nil {
		return nil, fmt.Errorf("surface-point: nil surface: %w", ErrInvalidInput)
	}
	return conform(s.Counts, func(u, v float64) (v3.Vec, v3.Vec) {
		return s.Surface.Point(u, v), s.Apex
	})
}

// conform fills a grid by sampling a pair of boundary points per (u, v)
// and interpolating between them across w.
func conform(counts [3]int, ends func(u, v float64) (v3.Vec, v3.Vec)) (*Grid, error) {
	if !positiveCounts(counts) {
		return nil, fmt.Errorf("conform: counts %v must be positive: %w", counts, ErrInvalidInput)
	}
	g := New(counts[0]+1, counts[1]+1, counts[2]+1)
	for i := 0; i <= counts[0]; i++ {
		u := float64(i) / float64(counts[0])
		for j := 0; j <= counts[1]; j++ {
			v := float64(j) / float64(counts[1])
			a, b := ends(u, v)
			for k := 0; k <= counts[2]; k++ {
				g.Set(Index{U: i, V: j, W: k}, lerp(a, b, float64(k)/float64(counts[2])))
			}
		}
	}
	return g, nil
}
