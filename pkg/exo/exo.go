// Package exo builds the solid skin around a lattice wireframe. Every strut
// gets a plate at each end and a sleeve between them; plates meeting at a
// node are closed by a convex hull, and lone plates by a fan.
package exo

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/exolattice/pkg/lattice"
	"github.com/chazu/exolattice/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog/log"
)

// Node tracks the plates at a lattice node. StrutIndices and PlateIndices
// run in step: plate PlateIndices[k] sits on strut StrutIndices[k].
type Node struct {
	Lattice      int
	StrutIndices []int
	PlateIndices []int
}

// ErrOpenNode is returned for a node whose hull does not border every
// plate ring edge, so its sleeves would not attach.
var ErrOpenNode = errors.New("exo: plate ring not on node hull")

// Result is the skin and the arenas it was built from.
type Result struct {
	Nodes   []Node
	Plates  []Plate
	Sleeves []Sleeve
	Mesh    *mesh.Mesh

	// SkippedStruts are too short or have a non-positive radius.
	SkippedStruts []int
	// OpenNodes could not be hulled and leave holes in the mesh.
	OpenNodes []int
	// ClampedPlates sit at nodes whose offset was cut to MaxOffsetFraction
	// of the shortest strut there. Those plates shrink by the same factor
	// as the offset so they still clear each other.
	ClampedPlates int
}

// Generate builds the skin for l.
func Generate(l *lattice.Lattice, opts Options) (*Result, error) {
	if l == nil {
		return nil, fmt.Errorf("exo: nil lattice: %w", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Nodes: make([]Node, len(l.Nodes)), Mesh: &mesh.Mesh{}}
	for i := range res.Nodes {
		res.Nodes[i].Lattice = i
	}

	incident := make([][]int, len(l.Nodes))
	valid := make([]bool, len(l.Struts))
	for i, s := range l.Struts {
		if l.Length(i) < opts.MinStrutLength || l.RadiusAt(i, 0) <= 0 || l.RadiusAt(i, 1) <= 0 {
			res.SkippedStruts = append(res.SkippedStruts, i)
			continue
		}
		valid[i] = true
		incident[s.A] = append(incident[s.A], i)
		incident[s.B] = append(incident[s.B], i)
	}
	if len(res.SkippedStruts) > 0 {
		log.Warn().Int("struts", len(res.SkippedStruts)).Msg("exo: skipped degenerate struts")
	}

	offsets := make([]float64, len(l.Nodes))
	radii := make([]float64, len(l.Nodes))
	for n, struts := range incident {
		offsets[n], radii[n] = res.fitNode(l, n, struts, opts)
	}

	for si, s := range l.Struts {
		if !valid[si] {
			continue
		}
		pa := res.addPlate(l, si, s.A, offsets[s.A], radii[s.A], opts)
		pb := res.addPlate(l, si, s.B, offsets[s.B], radii[s.B], opts)
		res.Sleeves = append(res.Sleeves, Sleeve{Strut: si, PlateA: pa, PlateB: pb})
		res.Mesh.Faces = append(res.Mesh.Faces, SleeveFaces(res.Plates[pa].Ring, res.Plates[pb].Ring)...)
	}
	if res.ClampedPlates > 0 {
		log.Warn().Int("plates", res.ClampedPlates).Msg("exo: plate offsets clamped, plates shrunk to fit")
	}

	for n := range res.Nodes {
		plates := res.Nodes[n].PlateIndices
		switch len(plates) {
		case 0:
		case 1:
			p := res.Plates[plates[0]]
			atA := l.Struts[p.Strut].A == n
			res.Mesh.Faces = append(res.Mesh.Faces, FanFaces(p.Center, p.Ring, atA)...)
		default:
			faces, err := res.hullNode(n, opts)
			if err != nil {
				log.Warn().Err(err).Int("node", n).Msg("exo: node left open")
				res.OpenNodes = append(res.OpenNodes, n)
				continue
			}
			res.Mesh.Faces = append(res.Mesh.Faces, faces...)
		}
	}

	res.stitch(opts)
	log.Debug().
		Int("plates", len(res.Plates)).
		Int("vertices", len(res.Mesh.Vertices)).
		Int("faces", len(res.Mesh.Faces)).
		Msg("exo: skin generated")
	return res, nil
}

// fitNode returns the offset and plate radius shared by every plate at
// node n. All plates at a node sit at one distance with one radius, so
// their rings lie on a common sphere and each ring bounds an empty cap of
// it. When the offset would pass MaxOffsetFraction of the shortest strut
// at the node, offset and radius shrink together.
func (r *Result) fitNode(l *lattice.Lattice, n int, struts []int, opts Options) (offset, radius float64) {
	radius = l.Nodes[n].Radius
	if len(struts) == 0 {
		return 0, radius
	}
	dirs := make([]v3.Vec, len(struts))
	rs := make([]float64, len(struts))
	limit := math.Inf(1)
	for k, si := range struts {
		dirs[k] = l.Nodes[l.Struts[si].Other(n)].Pos.Sub(l.Nodes[n].Pos).Normalize()
		rs[k] = radius
		limit = min(limit, opts.MaxOffsetFraction*l.Length(si))
	}
	offset = nodeOffset(dirs, rs, opts)
	if offset <= limit {
		return offset, radius
	}
	r.ClampedPlates += len(struts)
	if math.IsInf(offset, 1) {
		// Parallel struts never clear; the hull check reports the node.
		return limit, radius
	}
	return limit, radius * limit / offset
}

// addPlate places the plate for strut si at node n and registers it with
// the node.
func (r *Result) addPlate(l *lattice.Lattice, si, n int, offset, radius float64, opts Options) int {
	s := l.Struts[si]
	length := l.Length(si)
	d := l.Nodes[s.B].Pos.Sub(l.Nodes[s.A].Pos).MulScalar(1 / length)
	u, v := strutFrame(d)

	out := d
	if n == s.B {
		out = d.MulScalar(-1)
	}
	centre := l.Nodes[n].Pos.Add(out.MulScalar(offset))
	c, ring := addRing(r.Mesh, centre, u, v, radius, opts.Sides)

	r.Plates = append(r.Plates, Plate{
		Node:   n,
		Strut:  si,
		Offset: offset,
		Radius: radius,
		Normal: out,
		Center: c,
		Ring:   ring,
	})
	idx := len(r.Plates) - 1
	node := &r.Nodes[n]
	node.StrutIndices = append(node.StrutIndices, si)
	node.PlateIndices = append(node.PlateIndices, idx)
	return idx
}

// hullNode hulls every plate ring at node n, seeded with the first plate's
// ring and the second plate's centre, then drops the faces lying within a
// single plate so the sleeves can attach to the holes left behind. Every
// ring edge must border a kept face, or the node is open.
func (r *Result) hullNode(n int, opts Options) ([]mesh.Face, error) {
	plates := r.Nodes[n].PlateIndices
	var pts []v3.Vec
	var ids, owner []int
	push := func(vi, plate int) {
		pts = append(pts, r.Mesh.Vertices[vi])
		ids = append(ids, vi)
		owner = append(owner, plate)
	}

	rmax := 0.0
	for k, pi := range plates {
		p := r.Plates[pi]
		rmax = max(rmax, p.Radius)
		for _, vi := range p.Ring {
			push(vi, pi)
		}
		if k == 0 {
			push(r.Plates[plates[1]].Center, plates[1])
		}
	}

	local, err := ConvexHull(pts, opts.HullEpsilon*rmax)
	if err != nil {
		return nil, fmt.Errorf("exo: node %d: %w", n, err)
	}
	out := make([]mesh.Face, 0, len(local))
	edges := make(map[[2]int]bool, 3*len(local))
	for _, f := range local {
		if owner[f[0]] == owner[f[1]] && owner[f[1]] == owner[f[2]] {
			continue
		}
		face := mesh.Face{ids[f[0]], ids[f[1]], ids[f[2]]}
		out = append(out, face)
		for k := range face {
			edges[[2]int{face[k], face[(k+1)%3]}] = true
		}
	}

	for _, pi := range plates {
		ring := r.Plates[pi].Ring
		for i, a := range ring {
			b := ring[(i+1)%len(ring)]
			if !edges[[2]int{a, b}] && !edges[[2]int{b, a}] {
				return nil, fmt.Errorf("exo: node %d plate %d edge %d-%d: %w", n, pi, a, b, ErrOpenNode)
			}
		}
	}
	return out, nil
}

// stitch welds coincident vertices, drops faces that collapsed and
// compacts the vertex list, keeping plate indices current.
func (r *Result) stitch(opts Options) {
	weld := r.Mesh.Weld(opts.WeldTolerance)
	if n := r.Mesh.RemoveDegenerate(); n > 0 {
		log.Debug().Int("faces", n).Msg("exo: dropped degenerate faces")
	}
	compact := r.Mesh.Compact()
	moved := func(i int) int { return compact[weld[i]] }
	for pi := range r.Plates {
		p := &r.Plates[pi]
		p.Center = moved(p.Center)
		for k, vi := range p.Ring {
			p.Ring[k] = moved(vi)
		}
	}
}
