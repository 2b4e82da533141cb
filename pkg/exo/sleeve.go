package exo

import "github.com/chazu/exolattice/pkg/mesh"

// Sleeve is the tube of triangles joining the two plates of a strut.
type Sleeve struct {
	Strut  int
	PlateA int
	PlateB int
}

// SleeveFaces stitches ring a (at the strut's A end) to ring b (at its B
// end): two triangles per side, 2S in all, wound outward when both rings
// run counter-clockwise about the A to B direction.
func SleeveFaces(a, b []int) []mesh.Face {
	s := len(a)
	out := make([]mesh.Face, 0, 2*s)
	for i := 0; i < s; i++ {
		j := (i + 1) % s
		out = append(out,
			mesh.Face{a[i], a[j], b[j]},
			mesh.Face{a[i], b[j], b[i]},
		)
	}
	return out
}

// FanFaces closes a ring with a fan to its centre. The cap faces away
// from the strut: backwards at the A end, forwards at the B end.
func FanFaces(center int, ring []int, atA bool) []mesh.Face {
	s := len(ring)
	out := make([]mesh.Face, s)
	for i := 0; i < s; i++ {
		j := (i + 1) % s
		if atA {
			out[i] = mesh.Face{center, ring[j], ring[i]}
		} else {
			out[i] = mesh.Face{center, ring[i], ring[j]}
		}
	}
	return out
}
