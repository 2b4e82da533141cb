// Package tessellate runs a design through the whole pipeline: grid,
// lattice, skin, validation. One closed mesh is produced per design.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/exolattice/pkg/design"
	"github.com/chazu/exolattice/pkg/exo"
	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/lattice"
	"github.com/chazu/exolattice/pkg/mesh"
	"github.com/chazu/exolattice/pkg/validate"
	"github.com/rs/zerolog/log"
)

// ErrNoSolid is returned by Preview for a design without a design-space
// solid.
var ErrNoSolid = errors.New("tessellate: design has no solid")

// Result holds every stage's output for one design.
type Result struct {
	Design  *design.Design
	Grid    *grid.Grid
	Lattice *lattice.Lattice
	Exo     *exo.Result
	Solid   *mesh.Mesh
	Report  validate.Report
	Mesh    *kernel.Mesh
}

// IsInvalidInput reports whether err came from parameters that cannot
// produce output. Hosts log these and carry on.
func IsInvalidInput(err error) bool {
	return errors.Is(err, grid.ErrInvalidInput) ||
		errors.Is(err, lattice.ErrInvalidOptions) ||
		errors.Is(err, exo.ErrInvalidOptions) ||
		errors.Is(err, design.ErrIncomplete) ||
		errors.Is(err, design.ErrInvalidName)
}

// Run builds the lattice and its skin for d. The returned mesh is welded,
// validated and, when it was inside out, flipped.
func Run(d *design.Design) (*Result, error) {
	if d == nil {
		return nil, fmt.Errorf("tessellate: nil design: %w", design.ErrIncomplete)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	logger := log.With().Str("design", d.Name).Logger()

	g, err := d.Space.Generate()
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: grid: %w", d.Name, err)
	}
	logger.Debug().Int("points", g.Len()).Msg("tessellate: grid built")

	l, err := lattice.Map(g, d.Cell, d.Radius, d.Mapper)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: lattice: %w", d.Name, err)
	}
	logger.Debug().Int("nodes", len(l.Nodes)).Int("struts", len(l.Struts)).Msg("tessellate: lattice mapped")

	skin, err := exo.Generate(l, d.Mesh)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: skin: %w", d.Name, err)
	}

	report := validate.Validate(skin.Mesh)
	km := skin.Mesh.ToKernel()
	km.PartName = d.Name

	logger.Info().
		Int("nodes", len(l.Nodes)).
		Int("struts", len(l.Struts)).
		Int("faces", report.Faces).
		Bool("solid", report.Solid()).
		Msg("tessellate: done")

	return &Result{
		Design:  d,
		Grid:    g,
		Lattice: l,
		Exo:     skin,
		Solid:   skin.Mesh,
		Report:  report,
		Mesh:    km,
	}, nil
}

// Tessellate runs every design in order. Designs whose parameters cannot
// produce output are logged and left out; any other error stops the run.
func Tessellate(designs []*design.Design) ([]*Result, error) {
	var results []*Result
	for _, d := range designs {
		r, err := Run(d)
		if err != nil {
			if IsInvalidInput(err) {
				log.Warn().Err(err).Msg("tessellate: design skipped")
				continue
			}
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Preview tessellates the design-space solid with the kernel, for display
// next to the lattice.
func Preview(d *design.Design, k kernel.Kernel) (*kernel.Mesh, error) {
	if d == nil || d.Solid == nil {
		return nil, ErrNoSolid
	}
	m, err := k.ToMesh(d.Solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: preview %s: %w", d.Name, err)
	}
	m.PartName = d.Name
	return m, nil
}
