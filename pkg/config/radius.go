package config

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/lattice"
)

// Radius field types.
const (
	RadiusUniform  = "uniform"
	RadiusGradient = "gradient"
	RadiusSolid    = "solid"
)

// Radius selects the strut radius field.
//
//	uniform   value
//	gradient  from, to, start, end
//	solid     near, far, falloff; distance to the top-level solid
type Radius struct {
	Type    string  `yaml:"type"`
	Value   float64 `yaml:"value,omitempty"`
	From    Vec     `yaml:"from,omitempty"`
	To      Vec     `yaml:"to,omitempty"`
	Start   float64 `yaml:"start,omitempty"`
	End     float64 `yaml:"end,omitempty"`
	Near    float64 `yaml:"near,omitempty"`
	Far     float64 `yaml:"far,omitempty"`
	Falloff float64 `yaml:"falloff,omitempty"`
}

func (r Radius) field(solid kernel.Solid) (lattice.RadiusFunc, error) {
	switch r.Type {
	case RadiusUniform:
		if r.Value <= 0 {
			return nil, fmt.Errorf("uniform radius %g must be positive: %w", r.Value, ErrInvalidConfig)
		}
		return lattice.Uniform(r.Value), nil
	case RadiusGradient:
		return lattice.Gradient(r.From.V(), r.To.V(), r.Start, r.End), nil
	case RadiusSolid:
		if solid == nil {
			return nil, fmt.Errorf("solid radius field needs a solid: %w", ErrInvalidConfig)
		}
		return lattice.SolidField(solid, r.Near, r.Far, r.Falloff), nil
	}
	return nil, fmt.Errorf("unknown radius type %q: %w", r.Type, ErrInvalidConfig)
}
