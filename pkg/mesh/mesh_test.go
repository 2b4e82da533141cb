package mesh

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitQuad is a unit square in z=0 built from two triangles that do not
// share vertices, plus an unused vertex.
func splitQuad() *Mesh {
	m := &Mesh{}
	a := m.AddVertex(v3.Vec{})
	b := m.AddVertex(v3.Vec{X: 1})
	c := m.AddVertex(v3.Vec{X: 1, Y: 1})
	m.AddFace(a, b, c)
	d := m.AddVertex(v3.Vec{})
	e := m.AddVertex(v3.Vec{X: 1, Y: 1.0000001})
	f := m.AddVertex(v3.Vec{Y: 1})
	m.AddFace(d, e, f)
	m.AddVertex(v3.Vec{Z: 9})
	return m
}

func TestWeldAndCompact(t *testing.T) {
	m := splitQuad()
	assert.Equal(t, []int{0, 1, 2, 0, 2, 5, 6}, m.Weld(1e-6))
	assert.Equal(t, []Face{{0, 1, 2}, {0, 2, 5}}, m.Faces)

	assert.Equal(t, []int{0, 1, 2, -1, -1, 3, -1}, m.Compact())
	require.Len(t, m.Vertices, 4)
	assert.Equal(t, []Face{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.Equal(t, v3.Vec{Y: 1}, m.Vertices[3])
}

func TestRemoveDegenerate(t *testing.T) {
	m := &Mesh{
		Vertices: []v3.Vec{{}, {X: 1}, {Y: 1}},
		Faces:    []Face{{0, 1, 2}, {0, 0, 1}, {1, 2, 2}},
	}
	assert.Equal(t, 2, m.RemoveDegenerate())
	assert.Equal(t, []Face{{0, 1, 2}}, m.Faces)
}

func TestFlipAndNormal(t *testing.T) {
	m := &Mesh{
		Vertices: []v3.Vec{{}, {X: 1}, {Y: 1}},
		Faces:    []Face{{0, 1, 2}},
	}
	assert.Equal(t, v3.Vec{Z: 1}, m.Normal(0))
	m.Flip()
	assert.Equal(t, v3.Vec{Z: -1}, m.Normal(0))
}

func TestExport(t *testing.T) {
	m := splitQuad()
	m.Weld(1e-6)
	m.Compact()

	tris := m.Triangles()
	require.Len(t, tris, 2)
	assert.Equal(t, m.Vertices[2], tris[1][1])

	k := m.ToKernel()
	assert.Equal(t, 4, k.VertexCount())
	assert.Equal(t, 2, k.TriangleCount())
	// Both faces point up, so every vertex normal does too.
	for i := 0; i < k.VertexCount(); i++ {
		assert.InDelta(t, 1, k.Normals[i*3+2], 1e-6)
	}
}

func TestFromKernelRoundTrip(t *testing.T) {
	m := splitQuad()
	m.Weld(1e-6)
	m.Compact()

	back := FromKernel(m.ToKernel())
	require.Len(t, back.Vertices, 4)
	assert.Equal(t, m.Faces, back.Faces)
	for i, p := range m.Vertices {
		assert.InDelta(t, 0, back.Vertices[i].Sub(p).Length(), 1e-6)
	}
}
