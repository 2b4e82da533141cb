package grid

import (
	"fmt"
	"math"

	"github.com/chazu/exolattice/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog/log"
)

// Trimmed generates its Base grid and keeps only the points inside Solid.
type Trimmed struct {
	Base      Shape
	Solid     kernel.Solid
	Tolerance float64 // points within this distance outside the surface are kept
}

// TrimmedBox returns a Trimmed shape whose base box covers the solid's
// bounding box with cells of the given size.
func TrimmedBox(solid kernel.Solid, cellSize v3.Vec) Trimmed {
	t := Trimmed{Solid: solid}
	if solid == nil || cellSize.X <= 0 || cellSize.Y <= 0 || cellSize.Z <= 0 {
		t.Base = Box{CellSize: cellSize}
		return t
	}
	min, max := solid.BoundingBox()
	size := max.Sub(min)
	t.Base = Box{
		Origin:   min,
		CellSize: cellSize,
		Counts: [3]int{
			cellCount(size.X, cellSize.X),
			cellCount(size.Y, cellSize.Y),
			cellCount(size.Z, cellSize.Z),
		},
	}
	return t
}

func cellCount(extent, size float64) int {
	n := int(math.Ceil(extent/size - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// Generate discards base points that fall outside the solid.
func (t Trimmed) Generate() (*Grid, error) {
	if t.Base == nil || t.Solid == nil {
		return nil, fmt.Errorf("trimmed: nil base or solid: %w", ErrInvalidInput)
	}
	base, err := t.Base.Generate()
	if err != nil {
		return nil, fmt.Errorf("trimmed: %w", err)
	}
	trimmed := base.Filter(func(_ Index, p v3.Vec) bool {
		return kernel.Contains(t.Solid, p, t.Tolerance)
	})
	log.Debug().Int("kept", trimmed.Len()).Int("dropped", base.Len()-trimmed.Len()).Msg("grid: trimmed to solid")
	return trimmed, nil
}
