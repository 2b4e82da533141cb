package exo

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned by Generate for out-of-range options or a
// nil lattice.
var ErrInvalidOptions = errors.New("exo: invalid options")

// Options control skin generation.
type Options struct {
	// Sides is the number of ring vertices per plate (S). Constant for the
	// whole mesh.
	Sides int
	// OffsetMargin scales the plate offset up past the point where sibling
	// plates would just touch.
	OffsetMargin float64
	// MinOffset is the smallest plate offset at a multi-strut node, as a
	// multiple of the node radius.
	MinOffset float64
	// MaxOffsetFraction caps a node's plate offset at this fraction of its
	// shortest strut; the node's plates shrink to match. Must be below one
	// half so the two plates of a strut never cross.
	MaxOffsetFraction float64
	// MinStrutLength is the length below which a strut is skipped.
	MinStrutLength float64
	// HullEpsilon is the distance, relative to the largest plate radius at
	// a node, a point must lie above a hull face to see it.
	HullEpsilon float64
	// WeldTolerance merges coincident vertices in the final mesh.
	WeldTolerance float64
}

// DefaultOptions returns octagonal plates with a ten percent margin.
func DefaultOptions() Options {
	return Options{
		Sides:             8,
		OffsetMargin:      0.1,
		MinOffset:         0.5,
		MaxOffsetFraction: 0.45,
		MinStrutLength:    1e-6,
		HullEpsilon:       1e-9,
		WeldTolerance:     1e-6,
	}
}

// Validate checks every option is in range.
func (o Options) Validate() error {
	switch {
	case o.Sides < 3:
		return fmt.Errorf("exo: sides %d, need at least 3: %w", o.Sides, ErrInvalidOptions)
	case o.OffsetMargin < 0 || o.MinOffset < 0:
		return fmt.Errorf("exo: negative offset margin or minimum: %w", ErrInvalidOptions)
	case o.MaxOffsetFraction <= 0 || o.MaxOffsetFraction >= 0.5:
		return fmt.Errorf("exo: max offset fraction %g outside (0, 0.5): %w", o.MaxOffsetFraction, ErrInvalidOptions)
	case o.MinStrutLength < 0 || o.HullEpsilon < 0 || o.WeldTolerance < 0:
		return fmt.Errorf("exo: negative tolerance: %w", ErrInvalidOptions)
	}
	return nil
}
