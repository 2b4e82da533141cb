package grid

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Cylinder is a (possibly hollow) cylindrical design space. Its index space
// is U tangential, V axial and W radial. The tangential index runs 0..T
// inclusive so the last column closes the ring; it coincides with column 0
// and is welded when the lattice is mapped.
//
// Points are generated, and lattice nodes numbered, with the tangential
// index outermost, then axial, then radial innermost: (0,0,0), (0,0,1),
// ..., (0,1,0), ..., (1,0,0). This is the U, V, W order every grid uses.
type Cylinder struct {
	Base        v3.Vec // centre of the bottom face
	Axis        v3.Vec // direction of the axis; zero means +Z
	InnerRadius float64
	OuterRadius float64
	Height      float64
	Tangential  int
	Axial       int
	Radial      int
}

// Generate places the point for tangential i, axial j, radial k at angle
// i*2pi/T, radius lerp(inner, outer, k/R), height j*H/Z.
func (c Cylinder) Generate() (*Grid, error) {
	if c.Height <= 0 || c.OuterRadius <= 0 || c.InnerRadius < 0 || c.InnerRadius >= c.OuterRadius {
		return nil, fmt.Errorf("cylinder: radii %g..%g height %g: %w", c.InnerRadius, c.OuterRadius, c.Height, ErrInvalidInput)
	}
	counts := [3]int{c.Tangential, c.Axial, c.Radial}
	if !positiveCounts(counts) {
		return nil, fmt.Errorf("cylinder: counts %v must be positive: %w", counts, ErrInvalidInput)
	}

	axis := c.Axis
	if axis.Length() == 0 {
		axis = v3.Vec{Z: 1}
	}
	axis = axis.Normalize()
	e1, e2 := frame(axis)

	g := New(c.Tangential+1, c.Axial+1, c.Radial+1)
	for i := 0; i <= c.Tangential; i++ {
		angle := float64(i) * 2 * math.Pi / float64(c.Tangential)
		dir := e1.MulScalar(math.Cos(angle)).Add(e2.MulScalar(math.Sin(angle)))
		for j := 0; j <= c.Axial; j++ {
			centre := c.Base.Add(axis.MulScalar(float64(j) * c.Height / float64(c.Axial)))
			for k := 0; k <= c.Radial; k++ {
				r := c.InnerRadius + (c.OuterRadius-c.InnerRadius)*float64(k)/float64(c.Radial)
				g.Set(Index{U: i, V: j, W: k}, centre.Add(dir.MulScalar(r)))
			}
		}
	}
	return g, nil
}
