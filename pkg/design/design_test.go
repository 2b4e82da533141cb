package design

import (
	"testing"

	"github.com/chazu/exolattice/pkg/cell"
	"github.com/chazu/exolattice/pkg/exo"
	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/lattice"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	d := New("part")
	assert.Equal(t, "part", d.Name)
	assert.Equal(t, exo.DefaultOptions(), d.Mesh)
	assert.Equal(t, lattice.DefaultTolerance, d.Mapper.Tolerance)
}

func TestValidateMissing(t *testing.T) {
	d := New("empty")
	err := d.Validate()
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "space")
	assert.Contains(t, err.Error(), "cell")
	assert.Contains(t, err.Error(), "radius")
}

func TestValidateComplete(t *testing.T) {
	uc, err := cell.Preset(cell.Grid)
	require.NoError(t, err)

	d := New("cube")
	d.Space = grid.Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{1, 1, 1}}
	d.Cell = uc
	d.Radius = lattice.Uniform(0.1)
	assert.NoError(t, d.Validate())

	d.Mesh.Sides = 2
	assert.ErrorIs(t, d.Validate(), exo.ErrInvalidOptions)
}

func TestValidateName(t *testing.T) {
	uc, err := cell.Preset(cell.Grid)
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../x", "a/b", `a\b`, "/abs"} {
		d := New(name)
		d.Space = grid.Box{CellSize: v3.Vec{X: 1, Y: 1, Z: 1}, Counts: [3]int{1, 1, 1}}
		d.Cell = uc
		d.Radius = lattice.Uniform(0.1)
		assert.ErrorIs(t, d.Validate(), ErrInvalidName, "name %q", name)
	}
	for _, name := range []string{"part", "bracket-2", "x.y", "..x"} {
		assert.NoError(t, ValidName(name), "name %q", name)
	}
}
