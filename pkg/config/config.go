// Package config decodes YAML job files into lattice designs.
//
// A job file names a design space, an optional solid, a unit cell, a radius
// field and the mapper and mesh options:
//
//	name: bracket
//	space:
//	  type: box
//	  cell_size: [10, 10, 10]
//	  counts: [4, 2, 2]
//	cell:
//	  preset: star
//	radius:
//	  type: uniform
//	  value: 0.8
//
// Fields left out keep the values from Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/chazu/exolattice/pkg/design"
	"github.com/chazu/exolattice/pkg/exo"
	"github.com/chazu/exolattice/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for a job file that decodes but does not
// describe a buildable design.
var ErrInvalidConfig = errors.New("config: invalid")

// Vec is a point or vector written as a three element YAML sequence.
type Vec [3]float64

// V converts to the sdfx vector type.
func (v Vec) V() v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Config is a decoded job file.
type Config struct {
	Name   string  `yaml:"name"`
	Space  Space   `yaml:"space"`
	Solid  *Solid  `yaml:"solid,omitempty"`
	Cell   Cell    `yaml:"cell"`
	Radius Radius  `yaml:"radius"`
	Mapper Mapper  `yaml:"mapper"`
	Mesh   MeshOpt `yaml:"mesh"`
}

// Mapper holds the lattice mapper options.
type Mapper struct {
	Tolerance float64 `yaml:"tolerance"`
}

// MeshOpt mirrors exo.Options.
type MeshOpt struct {
	Sides             int     `yaml:"sides"`
	OffsetMargin      float64 `yaml:"offset_margin"`
	MinOffset         float64 `yaml:"min_offset"`
	MaxOffsetFraction float64 `yaml:"max_offset_fraction"`
	MinStrutLength    float64 `yaml:"min_strut_length"`
	HullEpsilon       float64 `yaml:"hull_epsilon"`
	WeldTolerance     float64 `yaml:"weld_tolerance"`
}

func (m MeshOpt) options() exo.Options {
	return exo.Options{
		Sides:             m.Sides,
		OffsetMargin:      m.OffsetMargin,
		MinOffset:         m.MinOffset,
		MaxOffsetFraction: m.MaxOffsetFraction,
		MinStrutLength:    m.MinStrutLength,
		HullEpsilon:       m.HullEpsilon,
		WeldTolerance:     m.WeldTolerance,
	}
}

// Default returns a 3x3x3 box of 10 unit grid cells with struts of radius 1.
func Default() *Config {
	o := exo.DefaultOptions()
	return &Config{
		Name: "lattice",
		Space: Space{
			Type:     SpaceBox,
			CellSize: Vec{10, 10, 10},
			Counts:   [3]int{3, 3, 3},
		},
		Cell: Cell{
			Preset: "grid",
		},
		Radius: Radius{
			Type:  RadiusUniform,
			Value: 1,
		},
		Mapper: Mapper{Tolerance: 1e-6},
		Mesh: MeshOpt{
			Sides:             o.Sides,
			OffsetMargin:      o.OffsetMargin,
			MinOffset:         o.MinOffset,
			MaxOffsetFraction: o.MaxOffsetFraction,
			MinStrutLength:    o.MinStrutLength,
			HullEpsilon:       o.HullEpsilon,
			WeldTolerance:     o.WeldTolerance,
		},
	}
}

// Parse decodes a job file over the defaults. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return c, nil
}

// Load reads and decodes a job file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes the config back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ToDesign builds the design, creating solids through the kernel k.
func (c *Config) ToDesign(k kernel.Kernel) (*design.Design, error) {
	d := design.New(c.Name)

	if c.Solid != nil {
		s, err := c.Solid.build(k)
		if err != nil {
			return nil, fmt.Errorf("config: solid: %w", err)
		}
		d.Solid = s
	}

	space, err := c.Space.shape(d.Solid)
	if err != nil {
		return nil, fmt.Errorf("config: space: %w", err)
	}
	d.Space = space

	uc, err := c.Cell.build()
	if err != nil {
		return nil, fmt.Errorf("config: cell: %w", err)
	}
	d.Cell = uc

	rf, err := c.Radius.field(d.Solid)
	if err != nil {
		return nil, fmt.Errorf("config: radius: %w", err)
	}
	d.Radius = rf

	d.Mapper.Tolerance = c.Mapper.Tolerance
	d.Mesh = c.Mesh.options()
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return d, nil
}
