package engine

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/cell"
	"github.com/chazu/exolattice/pkg/design"
	"github.com/chazu/exolattice/pkg/grid"
	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/lattice"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Custom Sexp types carry Go values between builtins. None of them are
// registered zygomys types, so Type returns nil.

// sexpVec3 wraps a point or vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid.
type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid %s)", s.desc)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpSurface wraps a parametric surface.
type sexpSurface struct {
	surface grid.Surface
}

func (s *sexpSurface) SexpString(ps *zygo.PrintState) string { return "(patch)" }
func (s *sexpSurface) Type() *zygo.RegisteredType            { return nil }

// sexpShape wraps a design-space grid shape, plus the solid it was cut
// from when there is one.
type sexpShape struct {
	shape grid.Shape
	solid kernel.Solid
	kind  string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", s.kind)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpSegment wraps one strut of a custom cell.
type sexpSegment struct {
	seg cell.Segment
}

func (s *sexpSegment) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(segment (vec3 %g %g %g) (vec3 %g %g %g))",
		s.seg.A.X, s.seg.A.Y, s.seg.A.Z, s.seg.B.X, s.seg.B.Y, s.seg.B.Z)
}
func (s *sexpSegment) Type() *zygo.RegisteredType { return nil }

// sexpPolyline wraps a run of connected points in unit-cell space.
type sexpPolyline struct {
	pts []v3.Vec
}

func (p *sexpPolyline) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(polyline %d points)", len(p.pts))
}
func (p *sexpPolyline) Type() *zygo.RegisteredType { return nil }

// sexpCell wraps a validated unit cell.
type sexpCell struct {
	cell *cell.UnitCell
	name string
}

func (c *sexpCell) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cell %s: %d nodes, %d struts)", c.name, len(c.cell.Nodes), len(c.cell.Struts))
}
func (c *sexpCell) Type() *zygo.RegisteredType { return nil }

// sexpRadius wraps a radius field.
type sexpRadius struct {
	fn   lattice.RadiusFunc
	desc string
}

func (r *sexpRadius) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(radius %s)", r.desc)
}
func (r *sexpRadius) Type() *zygo.RegisteredType { return nil }

// sexpDesign wraps a finished design.
type sexpDesign struct {
	d *design.Design
}

func (d *sexpDesign) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(lattice %q)", d.d.Name)
}
func (d *sexpDesign) Type() *zygo.RegisteredType { return nil }

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

func toSurface(s zygo.Sexp) (grid.Surface, error) {
	if v, ok := s.(*sexpSurface); ok {
		return v.surface, nil
	}
	return nil, fmt.Errorf("expected surface, got %T (%s)", s, s.SexpString(nil))
}

func toShape(s zygo.Sexp) (*sexpShape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected grid, got %T (%s)", s, s.SexpString(nil))
}

func toCell(s zygo.Sexp) (*cell.UnitCell, error) {
	if v, ok := s.(*sexpCell); ok {
		return v.cell, nil
	}
	return nil, fmt.Errorf("expected cell, got %T (%s)", s, s.SexpString(nil))
}

func toRadius(s zygo.Sexp) (lattice.RadiusFunc, error) {
	switch v := s.(type) {
	case *sexpRadius:
		return v.fn, nil
	case *zygo.SexpInt, *zygo.SexpFloat:
		r, _ := toFloat64(v)
		return lattice.Uniform(r), nil
	}
	return nil, fmt.Errorf("expected radius, got %T (%s)", s, s.SexpString(nil))
}
