// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide the design-space solids that grids are
// trimmed against and ray-marched into, plus a preview tessellation.
// The kernel abstraction keeps the lattice packages independent of the
// solid modelling backend.
package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max v3.Vec)
	// Evaluate returns the signed distance from p to the surface,
	// negative inside the solid.
	Evaluate(p v3.Vec) float64
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Contains reports whether p lies inside s or within tol of its surface.
func Contains(s Solid, p v3.Vec, tol float64) bool {
	return s.Evaluate(p) <= tol
}
