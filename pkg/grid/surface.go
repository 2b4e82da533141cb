package grid

import v3 "github.com/deadsy/sdfx/vec/v3"

// Surface is a parametric surface over the unit square.
type Surface interface {
	Point(u, v float64) v3.Vec
}

// SurfaceFunc adapts a plain function to the Surface interface.
type SurfaceFunc func(u, v float64) v3.Vec

// Point evaluates the function.
func (f SurfaceFunc) Point(u, v float64) v3.Vec {
	return f(u, v)
}

// Patch is a bilinear surface through four corners, given counter-clockwise
// from the (0,0) corner: P00, P10, P11, P01.
type Patch struct {
	P00, P10, P11, P01 v3.Vec
}

// Point evaluates the bilinear patch.
func (p Patch) Point(u, v float64) v3.Vec {
	bottom := lerp(p.P00, p.P10, u)
	top := lerp(p.P01, p.P11, u)
	return lerp(bottom, top, v)
}
