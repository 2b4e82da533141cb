// Package validate checks that a mesh is a closed, consistently wound solid
// and corrects inside-out meshes.
package validate

import (
	"fmt"
	"strings"

	"github.com/chazu/exolattice/pkg/mesh"
	"github.com/rs/zerolog/log"
)

// Orientation is the solid status of a mesh.
type Orientation int

const (
	Inward  Orientation = -1 // closed, normals point in
	Open    Orientation = 0  // not a closed, consistently wound solid
	Outward Orientation = 1  // closed, normals point out
)

func (o Orientation) String() string {
	switch o {
	case Inward:
		return "inward"
	case Open:
		return "open"
	case Outward:
		return "outward"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Report summarises a mesh check.
type Report struct {
	Vertices int
	Faces    int
	// NakedEdges border exactly one face.
	NakedEdges int
	// NonManifoldEdges border more than two faces.
	NonManifoldEdges int
	// InconsistentEdges are shared by two faces that traverse them in the
	// same direction.
	InconsistentEdges int
	// Volume is the signed enclosed volume; it is only meaningful for a
	// closed mesh.
	Volume      float64
	Orientation Orientation
	// Flipped is set by Validate when it reversed the winding.
	Flipped bool
}

// Solid reports whether the mesh is closed and consistently wound.
func (r Report) Solid() bool {
	return r.Orientation != Open
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mesh: %d vertices, %d faces\n", r.Vertices, r.Faces)
	fmt.Fprintf(&b, "naked edges: %d\n", r.NakedEdges)
	if r.NonManifoldEdges > 0 {
		fmt.Fprintf(&b, "non-manifold edges: %d\n", r.NonManifoldEdges)
	}
	if r.InconsistentEdges > 0 {
		fmt.Fprintf(&b, "inconsistently wound edges: %d\n", r.InconsistentEdges)
	}
	if r.Solid() {
		fmt.Fprintf(&b, "solid: yes, normals %s, volume %.6g\n", r.Orientation, r.Volume)
	} else {
		b.WriteString("solid: no\n")
	}
	if r.Flipped {
		b.WriteString("orientation corrected: normals flipped\n")
	}
	return b.String()
}

type edge [2]int

func undirected(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// Check inspects m without modifying it.
func Check(m *mesh.Mesh) Report {
	r := Report{Vertices: len(m.Vertices), Faces: len(m.Faces)}

	count := make(map[edge]int, len(m.Faces)*3/2)
	directed := make(map[edge]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			count[undirected(a, b)]++
			directed[edge{a, b}]++
		}
	}
	for e, n := range count {
		switch {
		case n == 1:
			r.NakedEdges++
		case n > 2:
			r.NonManifoldEdges++
		case directed[e] != 1:
			// Two faces, but both run a->b or both b->a.
			r.InconsistentEdges++
		}
	}

	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		r.Volume += a.Dot(b.Cross(c)) / 6
	}

	if r.Faces > 0 && r.NakedEdges == 0 && r.NonManifoldEdges == 0 && r.InconsistentEdges == 0 {
		switch {
		case r.Volume > 0:
			r.Orientation = Outward
		case r.Volume < 0:
			r.Orientation = Inward
		}
	}
	return r
}

// Validate checks m and, when it is an inside-out solid, flips its winding
// in place and checks again. Open meshes are reported, not repaired.
func Validate(m *mesh.Mesh) Report {
	r := Check(m)
	if r.Orientation == Inward {
		m.Flip()
		r = Check(m)
		r.Flipped = true
	}
	log.Debug().
		Int("naked", r.NakedEdges).
		Stringer("orientation", r.Orientation).
		Bool("flipped", r.Flipped).
		Msg("validate: mesh checked")
	return r
}
