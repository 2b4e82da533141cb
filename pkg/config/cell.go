package config

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/cell"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Cell selects the unit cell. Segments, then polylines, take precedence over
// the preset name; the tolerance, min_length and max_deviation fields only
// apply to custom cells.
type Cell struct {
	Preset       string   `yaml:"preset,omitempty"`
	Segments     [][2]Vec `yaml:"segments,omitempty"`
	Polylines    [][]Vec  `yaml:"polylines,omitempty"`
	Tolerance    float64  `yaml:"tolerance,omitempty"`
	MinLength    float64  `yaml:"min_length,omitempty"`
	MaxDeviation float64  `yaml:"max_deviation,omitempty"`
}

func (c Cell) options() cell.Options {
	o := cell.DefaultOptions()
	if c.Tolerance > 0 {
		o.Tolerance = c.Tolerance
	}
	if c.MinLength > 0 {
		o.MinLength = c.MinLength
	}
	if c.MaxDeviation > 0 {
		o.MaxDeviation = c.MaxDeviation
	}
	return o
}

func (c Cell) build() (*cell.UnitCell, error) {
	switch {
	case len(c.Segments) > 0:
		segs := lo.Map(c.Segments, func(s [2]Vec, _ int) cell.Segment {
			return cell.Segment{A: s[0].V(), B: s[1].V()}
		})
		return cell.FromSegments(segs, c.options())
	case len(c.Polylines) > 0:
		lines := lo.Map(c.Polylines, func(pl []Vec, _ int) []v3.Vec {
			return lo.Map(pl, func(p Vec, _ int) v3.Vec { return p.V() })
		})
		return cell.FromPolylines(lines, c.options())
	case c.Preset != "":
		kind, err := cell.ParsePresetName(c.Preset)
		if err != nil {
			return nil, err
		}
		return cell.Preset(kind)
	}
	return nil, fmt.Errorf("no preset, segments or polylines: %w", ErrInvalidConfig)
}
