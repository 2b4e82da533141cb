// Package mesh is the indexed triangle mesh the exo-skin is stitched into:
// shared vertices, faces wound counter-clockwise when seen from outside.
package mesh

import (
	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/spatial"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is a triangle given by three vertex indices.
type Face [3]int

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []v3.Vec
	Faces    []Face
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p v3.Vec) int {
	m.Vertices = append(m.Vertices, p)
	return len(m.Vertices) - 1
}

// AddFace appends the triangle (a, b, c).
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{a, b, c})
}

// Normal returns the unnormalised normal of face i (twice its area).
func (m *Mesh) Normal(i int) v3.Vec {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a))
}

// Weld merges vertices closer than tol, keeping the lowest index of each
// group, and rewrites the faces. Merged vertices stay in place, unused,
// until Compact. The returned slice maps every vertex to its survivor.
func (m *Mesh) Weld(tol float64) []int {
	h := spatial.NewHash(tol)
	remap := make([]int, len(m.Vertices))
	for i, p := range m.Vertices {
		remap[i], _ = h.FindOrInsert(p, i)
	}
	for i, f := range m.Faces {
		m.Faces[i] = Face{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return remap
}

// RemoveDegenerate drops faces that repeat a vertex index and returns how
// many were dropped.
func (m *Mesh) RemoveDegenerate() int {
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		kept = append(kept, f)
	}
	n := len(m.Faces) - len(kept)
	m.Faces = kept
	return n
}

// Compact removes vertices no face references, preserving vertex order.
// The returned slice maps old indices to new ones, -1 for removed vertices.
func (m *Mesh) Compact() []int {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		used[f[0]], used[f[1]], used[f[2]] = true, true, true
	}
	remap := make([]int, len(m.Vertices))
	verts := make([]v3.Vec, 0, len(m.Vertices))
	for i, p := range m.Vertices {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(verts)
		verts = append(verts, p)
	}
	m.Vertices = verts
	for i, f := range m.Faces {
		m.Faces[i] = Face{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return remap
}

// Flip reverses the winding of every face.
func (m *Mesh) Flip() {
	for i, f := range m.Faces {
		m.Faces[i] = Face{f[0], f[2], f[1]}
	}
}

// Triangles expands the mesh into sdfx triangles for the STL writer.
func (m *Mesh) Triangles() []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = &sdf.Triangle3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
	}
	return out
}

// ToKernel converts the mesh into the flat render form with per-face
// normals.
func (m *Mesh) ToKernel() *kernel.Mesh {
	faces := make([][3]int, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = f
	}
	return kernel.FromIndexed(m.Vertices, faces)
}

// FromKernel rebuilds an indexed mesh from the flat render form. Kernel
// meshes from marching cubes repeat shared vertices; call Weld to merge
// them.
func FromKernel(km *kernel.Mesh) *Mesh {
	m := &Mesh{
		Vertices: make([]v3.Vec, 0, km.VertexCount()),
		Faces:    make([]Face, 0, km.TriangleCount()),
	}
	for i := 0; i+2 < len(km.Vertices); i += 3 {
		m.AddVertex(v3.Vec{X: float64(km.Vertices[i]), Y: float64(km.Vertices[i+1]), Z: float64(km.Vertices[i+2])})
	}
	for i := 0; i+2 < len(km.Indices); i += 3 {
		m.AddFace(int(km.Indices[i]), int(km.Indices[i+1]), int(km.Indices[i+2]))
	}
	return m
}
