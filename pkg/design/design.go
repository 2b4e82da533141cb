// Package design holds the complete description of a lattice job: the
// design space, the unit cell, the radius field and the mapper and mesh
// options. Designs are built in Go, decoded from YAML by pkg/config or
// produced by a Lisp script through pkg/engine.
package design

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/exolattice/pkg/cell"
	"github.com/chazu/exolattice/pkg/exo"
	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/lattice"
)

// ErrIncomplete is returned by Validate when a required part is missing.
var ErrIncomplete = errors.New("design: incomplete")

// ErrInvalidName is returned by Validate for a name that cannot be used as
// a file name: empty, "." or "..", or containing a path separator.
var ErrInvalidName = errors.New("design: invalid name")

// Design is one lattice job. Name doubles as the base name of its output
// files.
type Design struct {
	Name   string
	Space  grid.Shape
	Cell   *cell.UnitCell
	Radius lattice.RadiusFunc
	Mapper lattice.Options
	Mesh   exo.Options

	// Solid is the design-space solid, when the space was built from one.
	// It is only used for previews.
	Solid kernel.Solid
}

// New returns a design with default mapper and mesh options and no space,
// cell or radius.
func New(name string) *Design {
	return &Design{
		Name:   name,
		Mapper: lattice.Options{Tolerance: lattice.DefaultTolerance},
		Mesh:   exo.DefaultOptions(),
	}
}

// Validate checks that the design has everything the pipeline needs.
func (d *Design) Validate() error {
	if err := ValidName(d.Name); err != nil {
		return err
	}
	var missing []string
	if d.Space == nil {
		missing = append(missing, "space")
	}
	if d.Cell == nil {
		missing = append(missing, "cell")
	}
	if d.Radius == nil {
		missing = append(missing, "radius")
	}
	if len(missing) > 0 {
		return fmt.Errorf("design %q: missing %v: %w", d.Name, missing, ErrIncomplete)
	}
	if err := d.Mesh.Validate(); err != nil {
		return fmt.Errorf("design %q: %w", d.Name, err)
	}
	return nil
}

// ValidName returns ErrInvalidName unless name is usable as a design name.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
