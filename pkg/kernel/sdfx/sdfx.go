// Package sdfx implements kernel.Kernel on github.com/deadsy/sdfx signed
// distance functions.
package sdfx

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells is the marching cubes resolution along the longest axis.
const defaultMeshCells = 200

type solid struct {
	sdf.SDF3
}

func (s solid) BoundingBox() (min, max v3.Vec) {
	bb := s.SDF3.BoundingBox()
	return bb.Min, bb.Max
}

// Wrap exposes an arbitrary sdfx solid to the lattice packages.
func Wrap(s sdf.SDF3) kernel.Solid {
	return solid{s}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(solid).SDF3
}

// must wraps a primitive constructor result. Callers validate dimensions
// before reaching the kernel, so an error here is a programming error.
func must(s sdf.SDF3, err error) kernel.Solid {
	if err != nil {
		panic(fmt.Sprintf("sdfx: %v", err))
	}
	return solid{s}
}

// SdfxKernel builds design-space solids and previews them with marching
// cubes.
type SdfxKernel struct {
	meshCells int
}

func New() *SdfxKernel {
	return &SdfxKernel{meshCells: defaultMeshCells}
}

// NewWithResolution sets the preview resolution; non-positive means the
// default.
func NewWithResolution(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{meshCells: cells}
}

// Box has its minimum corner at the origin, unlike sdf.Box3D.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	size := v3.Vec{X: x, Y: y, Z: z}
	b, err := sdf.Box3D(size, 0)
	if err != nil {
		return must(nil, err)
	}
	return solid{sdf.Transform3D(b, sdf.Translate3d(size.MulScalar(0.5)))}
}

// Cylinder is centred on the origin along Z. segments is ignored: the
// surface is exact.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return must(sdf.Cylinder3D(height, radius, 0))
}

func (k *SdfxKernel) Sphere(radius float64) kernel.Solid {
	return must(sdf.Sphere3D(radius))
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Union3D(unwrap(a), unwrap(b))}
}

// Difference is a minus b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Difference3D(unwrap(a), unwrap(b))}
}

func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Intersect3D(unwrap(a), unwrap(b))}
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return solid{sdf.Transform3D(unwrap(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))}
}

// Rotate applies X, then Y, then Z rotations given in degrees.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(sdf.DtoR(z)).Mul(sdf.RotateY(sdf.DtoR(y))).Mul(sdf.RotateX(sdf.DtoR(x)))
	return solid{sdf.Transform3D(unwrap(s), m)}
}

// ToMesh tessellates s with marching cubes. Triangle corners at the same
// position share a vertex.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := render.ToTriangles(unwrap(s), render.NewMarchingCubesUniform(k.meshCells))
	if len(tris) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles")
	}

	index := make(map[v3.Vec]int, len(tris))
	var verts []v3.Vec
	faces := make([][3]int, len(tris))
	for i, t := range tris {
		for j, p := range t {
			id, ok := index[p]
			if !ok {
				id = len(verts)
				index[p] = id
				verts = append(verts, p)
			}
			faces[i][j] = id
		}
	}
	return kernel.FromIndexed(verts, faces), nil
}
