package config

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/samber/lo"
)

// Solid types.
const (
	SolidBox          = "box"
	SolidSphere       = "sphere"
	SolidCylinder     = "cylinder"
	SolidUnion        = "union"
	SolidDifference   = "difference"
	SolidIntersection = "intersection"
)

// Solid describes a design-space solid as a tree of kernel primitives and
// booleans. Translate and Rotate (degrees) apply after the shape is built.
type Solid struct {
	Type      string  `yaml:"type"`
	Size      Vec     `yaml:"size,omitempty"`
	Radius    float64 `yaml:"radius,omitempty"`
	Height    float64 `yaml:"height,omitempty"`
	Translate *Vec    `yaml:"translate,omitempty"`
	Rotate    *Vec    `yaml:"rotate,omitempty"`
	Children  []Solid `yaml:"children,omitempty"`
}

func (s Solid) build(k kernel.Kernel) (kernel.Solid, error) {
	out, err := s.shape(k)
	if err != nil {
		return nil, err
	}
	if s.Rotate != nil {
		out = k.Rotate(out, s.Rotate[0], s.Rotate[1], s.Rotate[2])
	}
	if s.Translate != nil {
		out = k.Translate(out, s.Translate[0], s.Translate[1], s.Translate[2])
	}
	return out, nil
}

func (s Solid) shape(k kernel.Kernel) (kernel.Solid, error) {
	switch s.Type {
	case SolidBox:
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0 {
			return nil, fmt.Errorf("box size %v must be positive: %w", s.Size, ErrInvalidConfig)
		}
		return k.Box(s.Size[0], s.Size[1], s.Size[2]), nil
	case SolidSphere:
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius %g must be positive: %w", s.Radius, ErrInvalidConfig)
		}
		return k.Sphere(s.Radius), nil
	case SolidCylinder:
		if s.Radius <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("cylinder radius %g height %g must be positive: %w", s.Radius, s.Height, ErrInvalidConfig)
		}
		return k.Cylinder(s.Height, s.Radius, 0), nil
	case SolidUnion, SolidDifference, SolidIntersection:
		if len(s.Children) < 2 {
			return nil, fmt.Errorf("%s needs at least two children: %w", s.Type, ErrInvalidConfig)
		}
		children := make([]kernel.Solid, 0, len(s.Children))
		for i, c := range s.Children {
			cs, err := c.build(k)
			if err != nil {
				return nil, fmt.Errorf("%s child %d: %w", s.Type, i, err)
			}
			children = append(children, cs)
		}
		op := map[string]func(a, b kernel.Solid) kernel.Solid{
			SolidUnion:        k.Union,
			SolidDifference:   k.Difference,
			SolidIntersection: k.Intersection,
		}[s.Type]
		return lo.Reduce(children[1:], func(acc kernel.Solid, c kernel.Solid, _ int) kernel.Solid {
			return op(acc, c)
		}, children[0]), nil
	}
	return nil, fmt.Errorf("unknown solid type %q: %w", s.Type, ErrInvalidConfig)
}
