package grid

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is an axis-aligned block of Counts cells of size CellSize starting at
// Origin. It produces (Nx+1)(Ny+1)(Nz+1) points.
type Box struct {
	Origin   v3.Vec
	CellSize v3.Vec
	Counts   [3]int
}

// Generate places point(i,j,k) = Origin + (i*Sx, j*Sy, k*Sz).
func (b Box) Generate() (*Grid, error) {
	if b.CellSize.X <= 0 || b.CellSize.Y <= 0 || b.CellSize.Z <= 0 {
		return nil, fmt.Errorf("box: cell size %v must be positive: %w", b.CellSize, ErrInvalidInput)
	}
	if !positiveCounts(b.Counts) {
		return nil, fmt.Errorf("box: counts %v must be positive: %w", b.Counts, ErrInvalidInput)
	}

	g := New(b.Counts[0]+1, b.Counts[1]+1, b.Counts[2]+1)
	for i := 0; i <= b.Counts[0]; i++ {
		for j := 0; j <= b.Counts[1]; j++ {
			for k := 0; k <= b.Counts[2]; k++ {
				p := b.Origin.Add(v3.Vec{
					X: float64(i) * b.CellSize.X,
					Y: float64(j) * b.CellSize.Y,
					Z: float64(k) * b.CellSize.Z,
				})
				g.Set(Index{U: i, V: j, W: k}, p)
			}
		}
	}
	return g, nil
}
