package cell

import (
	"errors"
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind selects a preset unit cell.
type Kind int

const (
	Grid       Kind = iota // the twelve cube edges
	Cross                  // body diagonals through the centre
	Star                   // centre to every corner and face centre
	Star2                  // Star plus the cube edges
	Octahedral             // face centres joined to their neighbours
)

// ErrUnknownPreset is returned by ParsePresetName for an unrecognised name.
var ErrUnknownPreset = errors.New("cell: unknown preset")

func (k Kind) String() string {
	switch k {
	case Grid:
		return "grid"
	case Cross:
		return "cross"
	case Star:
		return "star"
	case Star2:
		return "star2"
	case Octahedral:
		return "octahedral"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParsePresetName maps a preset name (case-insensitive, "x" and "octa" are
// accepted as aliases) to its Kind.
func ParsePresetName(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "grid":
		return Grid, nil
	case "cross", "x":
		return Cross, nil
	case "star":
		return Star, nil
	case "star2":
		return Star2, nil
	case "octahedral", "octa":
		return Octahedral, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Preset returns the preset unit cell of the given kind.
func Preset(kind Kind) (*UnitCell, error) {
	var nodes []v3.Vec
	var struts []Pair
	switch kind {
	case Grid:
		nodes = corners()
		struts = cubeEdges(0)
	case Cross:
		nodes = append([]v3.Vec{centre}, corners()...)
		struts = spokes(0, 1, 8)
	case Star:
		nodes = append(append([]v3.Vec{centre}, corners()...), faceCentres()...)
		struts = spokes(0, 1, 14)
	case Star2:
		nodes = append(append([]v3.Vec{centre}, corners()...), faceCentres()...)
		struts = append(spokes(0, 1, 14), cubeEdges(1)...)
	case Octahedral:
		nodes = faceCentres()
		struts = octahedronEdges()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownPreset, kind)
	}
	return New(nodes, struts)
}

var centre = v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}

// corners lists the cube corners with x outermost.
func corners() []v3.Vec {
	out := make([]v3.Vec, 0, 8)
	for x := 0.0; x <= 1; x++ {
		for y := 0.0; y <= 1; y++ {
			for z := 0.0; z <= 1; z++ {
				out = append(out, v3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// faceCentres lists the face centres as -x, +x, -y, +y, -z, +z.
func faceCentres() []v3.Vec {
	return []v3.Vec{
		{X: 0, Y: 0.5, Z: 0.5}, {X: 1, Y: 0.5, Z: 0.5},
		{X: 0.5, Y: 0, Z: 0.5}, {X: 0.5, Y: 1, Z: 0.5},
		{X: 0.5, Y: 0.5, Z: 0}, {X: 0.5, Y: 0.5, Z: 1},
	}
}

// cubeEdges joins corners differing along one axis. Corner i of corners()
// has bits x<<2|y<<1|z; base is the index of the first corner.
func cubeEdges(base int) []Pair {
	var out []Pair
	for i := 0; i < 8; i++ {
		for _, bit := range []int{4, 2, 1} {
			if i&bit == 0 {
				out = append(out, Pair{A: base + i, B: base + (i | bit)})
			}
		}
	}
	return out
}

// spokes joins hub to the n nodes starting at first.
func spokes(hub, first, n int) []Pair {
	out := make([]Pair, n)
	for i := range out {
		out[i] = Pair{A: hub, B: first + i}
	}
	return out
}

// octahedronEdges joins every pair of face centres that are not opposite.
func octahedronEdges() []Pair {
	var out []Pair
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if i/2 != j/2 {
				out = append(out, Pair{A: i, B: j})
			}
		}
	}
	return out
}
