package config

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/kernel"
)

// Design-space types.
const (
	SpaceBox      = "box"
	SpaceCylinder = "cylinder"
	SpaceAxis     = "axis"
	SpaceSurface  = "surface"
	SpacePoint    = "point"
	SpaceTrim     = "trim"
)

// Patch is a bilinear surface given by four corners, counter-clockwise from
// the (0,0) corner.
type Patch [4]Vec

func (p *Patch) surface() grid.Surface {
	if p == nil {
		return nil
	}
	return grid.Patch{P00: p[0].V(), P10: p[1].V(), P11: p[2].V(), P01: p[3].V()}
}

// Space describes the conformal grid. Which fields apply depends on Type:
//
//	box       origin, cell_size, counts
//	cylinder  base, axis, inner_radius, outer_radius, height, divisions
//	axis      start, end, divisions; rays hit the top-level solid
//	surface   lower, upper, counts
//	point     lower, apex, counts
//	trim      cell_size, tolerance; the box covers the top-level solid
//
// Divisions are tangential, axial and radial counts.
type Space struct {
	Type        string  `yaml:"type"`
	Origin      Vec     `yaml:"origin,omitempty"`
	CellSize    Vec     `yaml:"cell_size,omitempty"`
	Counts      [3]int  `yaml:"counts,omitempty"`
	Base        Vec     `yaml:"base,omitempty"`
	Axis        Vec     `yaml:"axis,omitempty"`
	InnerRadius float64 `yaml:"inner_radius,omitempty"`
	OuterRadius float64 `yaml:"outer_radius,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
	Divisions   [3]int  `yaml:"divisions,omitempty"`
	Start       Vec     `yaml:"start,omitempty"`
	End         Vec     `yaml:"end,omitempty"`
	Lower       *Patch  `yaml:"lower,omitempty"`
	Upper       *Patch  `yaml:"upper,omitempty"`
	Apex        Vec     `yaml:"apex,omitempty"`
	Tolerance   float64 `yaml:"tolerance,omitempty"`
}

func (s Space) shape(solid kernel.Solid) (grid.Shape, error) {
	switch s.Type {
	case SpaceBox:
		return grid.Box{Origin: s.Origin.V(), CellSize: s.CellSize.V(), Counts: s.Counts}, nil
	case SpaceCylinder:
		return grid.Cylinder{
			Base:        s.Base.V(),
			Axis:        s.Axis.V(),
			InnerRadius: s.InnerRadius,
			OuterRadius: s.OuterRadius,
			Height:      s.Height,
			Tangential:  s.Divisions[0],
			Axial:       s.Divisions[1],
			Radial:      s.Divisions[2],
		}, nil
	case SpaceAxis:
		if solid == nil {
			return nil, fmt.Errorf("axis space needs a solid: %w", ErrInvalidConfig)
		}
		return grid.SurfaceAxis{
			Start:      s.Start.V(),
			End:        s.End.V(),
			Boundary:   grid.SolidBoundary{Solid: solid},
			Tangential: s.Divisions[0],
			Axial:      s.Divisions[1],
			Radial:     s.Divisions[2],
		}, nil
	case SpaceSurface:
		if s.Lower == nil || s.Upper == nil {
			return nil, fmt.Errorf("surface space needs lower and upper patches: %w", ErrInvalidConfig)
		}
		return grid.SurfaceSurface{Lower: s.Lower.surface(), Upper: s.Upper.surface(), Counts: s.Counts}, nil
	case SpacePoint:
		if s.Lower == nil {
			return nil, fmt.Errorf("point space needs a lower patch: %w", ErrInvalidConfig)
		}
		return grid.SurfacePoint{Surface: s.Lower.surface(), Apex: s.Apex.V(), Counts: s.Counts}, nil
	case SpaceTrim:
		if solid == nil {
			return nil, fmt.Errorf("trim space needs a solid: %w", ErrInvalidConfig)
		}
		t := grid.TrimmedBox(solid, s.CellSize.V())
		t.Tolerance = s.Tolerance
		return t, nil
	}
	return nil, fmt.Errorf("unknown space type %q: %w", s.Type, ErrInvalidConfig)
}
