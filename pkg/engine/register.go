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

// builtin is the zygomys user function signature.
type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the lattice DSL into a zygomys environment.
// Solids are built through k; every (lattice ...) form adds a design to p.
//
// Source code must be preprocessed with preprocessSource() first, so that
// :keyword tokens arrive as recognizable strings and kebab-case names such
// as box-grid arrive as box_grid.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, p *Program) {
	for name, fn := range map[string]builtin{
		"vec3":          vec3Builtin,
		"patch":         patchBuiltin,
		"box":           boxSolid(k),
		"sphere":        sphereSolid(k),
		"cylinder":      cylinderSolid(k),
		"translate":     transformSolid(k, "translate", k.Translate),
		"rotate":        transformSolid(k, "rotate", k.Rotate),
		"union":         booleanSolid("union", k.Union),
		"difference":    booleanSolid("difference", k.Difference),
		"intersection":  booleanSolid("intersection", k.Intersection),
		"box_grid":      boxGrid(k),
		"cylinder_grid": cylinderGrid,
		"axis_grid":     axisGrid,
		"surface_grid":  surfaceGrid,
		"point_grid":    pointGrid,
		"trim_grid":     trimGrid,
		"preset":        presetCell,
		"segment":       segmentBuiltin,
		"polyline":      polylineBuiltin,
		"custom_cell":   customCell,
		"uniform":       uniformRadius,
		"gradient":      gradientRadius,
		"solid_field":   solidFieldRadius,
		"lattice":       latticeBuiltin(p),
	} {
		env.AddFunction(name, fn)
	}
}

// ---------------------------------------------------------------------------
// Vectors and surfaces
// ---------------------------------------------------------------------------

// (vec3 1 2 3)
func vec3Builtin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// (patch p00 p10 p11 p01), corners counter-clockwise from (0,0).
func patchBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 4 {
		return zygo.SexpNull, fmt.Errorf("patch requires 4 corners, got %d", len(args))
	}
	var c [4]v3.Vec
	for i, a := range args {
		v, err := toVec3(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("patch: corner %d: %w", i, err)
		}
		c[i] = v
	}
	return &sexpSurface{surface: grid.Patch{P00: c[0], P10: c[1], P11: c[2], P01: c[3]}}, nil
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// (box (vec3 10 20 30)), minimum corner at the origin.
func boxSolid(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("box requires a size vector")
		}
		size, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return zygo.SexpNull, fmt.Errorf("box: size %v must be positive", size)
		}
		return &sexpSolid{solid: k.Box(size.X, size.Y, size.Z), desc: "box"}, nil
	}
}

// (sphere 5)
func sphereSolid(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius")
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("sphere: radius %g must be positive", r)
		}
		return &sexpSolid{solid: k.Sphere(r), desc: "sphere"}, nil
	}
}

// (cylinder :height 20 :radius 5), centred on the origin along Z.
func cylinderSolid(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var h, r float64
		if err := pa.float("height", &h); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if err := pa.float("radius", &r); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if h <= 0 || r <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height %g and radius %g must be positive", h, r)
		}
		return &sexpSolid{solid: k.Cylinder(h, r, 0), desc: "cylinder"}, nil
	}
}

// (translate solid (vec3 x y z)) and (rotate solid (vec3 rx ry rz)).
func transformSolid(k kernel.Kernel, op string, fn func(s kernel.Solid, x, y, z float64) kernel.Solid) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vector", op)
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		v, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		return &sexpSolid{solid: fn(s, v.X, v.Y, v.Z), desc: op}, nil
	}
}

// (union a b ...), (difference a b ...), (intersection a b ...), folded
// left to right.
func booleanSolid(op string, fn func(a, b kernel.Solid) kernel.Solid) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least two solids", op)
		}
		acc, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: operand 0: %w", op, err)
		}
		for i := 1; i < len(args); i++ {
			s, err := toSolid(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i, err)
			}
			acc = fn(acc, s)
		}
		return &sexpSolid{solid: acc, desc: op}, nil
	}
}

// ---------------------------------------------------------------------------
// Design spaces
// ---------------------------------------------------------------------------

// (box-grid :origin (vec3 0 0 0) :cell-size (vec3 10 10 10) :counts (list 4 2 2))
func boxGrid(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var b grid.Box
		if err := pa.vec("origin", &b.Origin); err != nil {
			return zygo.SexpNull, fmt.Errorf("box-grid: %w", err)
		}
		if err := pa.vec("cell-size", &b.CellSize); err != nil {
			return zygo.SexpNull, fmt.Errorf("box-grid: %w", err)
		}
		if err := pa.counts("counts", &b.Counts); err != nil {
			return zygo.SexpNull, fmt.Errorf("box-grid: %w", err)
		}
		out := &sexpShape{shape: b, kind: "box-grid"}
		size := v3.Vec{
			X: b.CellSize.X * float64(b.Counts[0]),
			Y: b.CellSize.Y * float64(b.Counts[1]),
			Z: b.CellSize.Z * float64(b.Counts[2]),
		}
		if size.X > 0 && size.Y > 0 && size.Z > 0 {
			out.solid = k.Translate(k.Box(size.X, size.Y, size.Z), b.Origin.X, b.Origin.Y, b.Origin.Z)
		}
		return out, nil
	}
}

// cylinderGrid implements
//
//	(cylinder-grid :base (vec3 0 0 0) :axis (vec3 0 0 1) :inner 5 :outer 10
//	               :height 30 :divisions (list 12 3 1))
func cylinderGrid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var c grid.Cylinder
	var div [3]int
	for _, err := range []error{
		pa.vec("base", &c.Base),
		pa.vec("axis", &c.Axis),
		pa.float("inner", &c.InnerRadius),
		pa.float("outer", &c.OuterRadius),
		pa.float("height", &c.Height),
		pa.counts("divisions", &div),
	} {
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder-grid: %w", err)
		}
	}
	c.Tangential, c.Axial, c.Radial = div[0], div[1], div[2]
	return &sexpShape{shape: c, kind: "cylinder-grid"}, nil
}

// (axis-grid :start (vec3 0 0 -4) :end (vec3 0 0 4) :solid s :divisions (list 8 4 2))
func axisGrid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var a grid.SurfaceAxis
	var div [3]int
	for _, err := range []error{
		pa.vec("start", &a.Start),
		pa.vec("end", &a.End),
		pa.counts("divisions", &div),
	} {
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis-grid: %w", err)
		}
	}
	v, ok := pa.kw["solid"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("axis-grid: a :solid boundary is required")
	}
	s, err := toSolid(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("axis-grid: solid: %w", err)
	}
	a.Boundary = grid.SolidBoundary{Solid: s}
	a.Tangential, a.Axial, a.Radial = div[0], div[1], div[2]
	return &sexpShape{shape: a, solid: s, kind: "axis-grid"}, nil
}

// (surface-grid :lower (patch ...) :upper (patch ...) :counts (list 4 4 2))
func surfaceGrid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var s grid.SurfaceSurface
	if err := pa.counts("counts", &s.Counts); err != nil {
		return zygo.SexpNull, fmt.Errorf("surface-grid: %w", err)
	}
	for key, dst := range map[string]*grid.Surface{"lower": &s.Lower, "upper": &s.Upper} {
		v, ok := pa.kw[key]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("surface-grid: :%s is required", key)
		}
		surf, err := toSurface(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface-grid: %s: %w", key, err)
		}
		*dst = surf
	}
	return &sexpShape{shape: s, kind: "surface-grid"}, nil
}

// (point-grid :surface (patch ...) :apex (vec3 0 0 10) :counts (list 4 4 3))
func pointGrid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var s grid.SurfacePoint
	if err := pa.vec("apex", &s.Apex); err != nil {
		return zygo.SexpNull, fmt.Errorf("point-grid: %w", err)
	}
	if err := pa.counts("counts", &s.Counts); err != nil {
		return zygo.SexpNull, fmt.Errorf("point-grid: %w", err)
	}
	v, ok := pa.kw["surface"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("point-grid: :surface is required")
	}
	surf, err := toSurface(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point-grid: surface: %w", err)
	}
	s.Surface = surf
	return &sexpShape{shape: s, kind: "point-grid"}, nil
}

// (trim-grid :solid s :cell-size (vec3 2 2 2)) covers the solid's bounding
// box; (trim-grid :solid s :base g) trims an existing grid.
func trimGrid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	v, ok := pa.kw["solid"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("trim-grid: :solid is required")
	}
	s, err := toSolid(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("trim-grid: solid: %w", err)
	}

	var t grid.Trimmed
	if base, ok := pa.kw["base"]; ok {
		sh, err := toShape(base)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("trim-grid: base: %w", err)
		}
		t = grid.Trimmed{Base: sh.shape, Solid: s}
	} else {
		var size v3.Vec
		if err := pa.vec("cell-size", &size); err != nil {
			return zygo.SexpNull, fmt.Errorf("trim-grid: %w", err)
		}
		t = grid.TrimmedBox(s, size)
	}
	if err := pa.float("tolerance", &t.Tolerance); err != nil {
		return zygo.SexpNull, fmt.Errorf("trim-grid: %w", err)
	}
	return &sexpShape{shape: t, solid: s, kind: "trim-grid"}, nil
}

// ---------------------------------------------------------------------------
// Unit cells
// ---------------------------------------------------------------------------

// (preset :star)
func presetCell(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("preset requires a name")
	}
	n, err := toKeywordString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("preset: %w", err)
	}
	kind, err := cell.ParsePresetName(n)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("preset: %w", err)
	}
	uc, err := cell.Preset(kind)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("preset: %w", err)
	}
	return &sexpCell{cell: uc, name: kind.String()}, nil
}

// (segment (vec3 0 0 0) (vec3 1 1 1))
func segmentBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("segment requires two end points")
	}
	a, err := toVec3(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("segment: start: %w", err)
	}
	b, err := toVec3(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("segment: end: %w", err)
	}
	return &sexpSegment{seg: cell.Segment{A: a, B: b}}, nil
}

// (polyline p0 p1 p2 ...)
func polylineBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 2 {
		return zygo.SexpNull, fmt.Errorf("polyline requires at least two points")
	}
	pts := make([]v3.Vec, len(args))
	for i, a := range args {
		v, err := toVec3(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyline: point %d: %w", i, err)
		}
		pts[i] = v
	}
	return &sexpPolyline{pts: pts}, nil
}

// (custom-cell seg-or-polyline ... :tolerance 1e-4 :min-length 0.01 :max-deviation 0.005)
//
// Polylines are split into segments honoring min-length and max-deviation;
// all pieces are then validated as one cell.
func customCell(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	opts := cell.DefaultOptions()
	for _, err := range []error{
		pa.float("tolerance", &opts.Tolerance),
		pa.float("min-length", &opts.MinLength),
		pa.float("max-deviation", &opts.MaxDeviation),
	} {
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("custom-cell: %w", err)
		}
	}

	var segs []cell.Segment
	var lines [][]v3.Vec
	for i, a := range pa.positional {
		switch v := a.(type) {
		case *sexpSegment:
			segs = append(segs, v.seg)
		case *sexpPolyline:
			lines = append(lines, v.pts)
		default:
			return zygo.SexpNull, fmt.Errorf("custom-cell: argument %d: expected segment or polyline, got %T (%s)",
				i, a, a.SexpString(nil))
		}
	}
	if len(lines) > 0 {
		segs = append(segs, cell.PolylineSegments(lines, opts)...)
	}
	uc, err := cell.FromSegments(segs, opts)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("custom-cell: %w", err)
	}
	return &sexpCell{cell: uc, name: "custom"}, nil
}

// ---------------------------------------------------------------------------
// Radius fields
// ---------------------------------------------------------------------------

// (uniform 0.8)
func uniformRadius(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("uniform requires a radius")
	}
	r, err := toFloat64(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("uniform: %w", err)
	}
	if r <= 0 {
		return zygo.SexpNull, fmt.Errorf("uniform: radius %g must be positive", r)
	}
	return &sexpRadius{fn: lattice.Uniform(r), desc: fmt.Sprintf("uniform %g", r)}, nil
}

// (gradient :from (vec3 0 0 0) :to (vec3 0 0 30) :start 1 :end 0.5)
func gradientRadius(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var from, to v3.Vec
	var r0, r1 float64
	for _, err := range []error{
		pa.vec("from", &from),
		pa.vec("to", &to),
		pa.float("start", &r0),
		pa.float("end", &r1),
	} {
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("gradient: %w", err)
		}
	}
	return &sexpRadius{fn: lattice.Gradient(from, to, r0, r1), desc: "gradient"}, nil
}

// (solid-field s :near 0.5 :far 1 :falloff 4)
func solidFieldRadius(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("solid-field requires a solid")
	}
	s, err := toSolid(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("solid-field: %w", err)
	}
	var near, far, falloff float64
	for _, err := range []error{
		pa.float("near", &near),
		pa.float("far", &far),
		pa.float("falloff", &falloff),
	} {
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid-field: %w", err)
		}
	}
	return &sexpRadius{fn: lattice.SolidField(s, near, far, falloff), desc: "solid-field"}, nil
}

// ---------------------------------------------------------------------------
// Designs
// ---------------------------------------------------------------------------

// latticeBuiltin implements
//
//	(lattice "name" :space g :cell c :radius r
//	         :sides 8 :offset-margin 0.1 :min-offset 0.5 :max-offset-fraction 0.45
//	         :min-strut-length 1e-6 :hull-epsilon 1e-9 :weld-tolerance 1e-6
//	         :tolerance 1e-6)
//
// :radius also accepts a plain number for a uniform field.
func latticeBuiltin(p *Program) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("lattice requires a name argument")
		}
		dname, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: name: %w", err)
		}
		if err := design.ValidName(dname); err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		d := design.New(dname)

		if v, ok := pa.kw["space"]; ok {
			sh, err := toShape(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: space: %w", err)
			}
			d.Space, d.Solid = sh.shape, sh.solid
		}
		if v, ok := pa.kw["cell"]; ok {
			if d.Cell, err = toCell(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: cell: %w", err)
			}
		}
		if v, ok := pa.kw["radius"]; ok {
			if d.Radius, err = toRadius(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: radius: %w", err)
			}
		}
		if v, ok := pa.kw["sides"]; ok {
			if d.Mesh.Sides, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: sides: %w", err)
			}
		}
		for _, err := range []error{
			pa.float("offset-margin", &d.Mesh.OffsetMargin),
			pa.float("min-offset", &d.Mesh.MinOffset),
			pa.float("max-offset-fraction", &d.Mesh.MaxOffsetFraction),
			pa.float("min-strut-length", &d.Mesh.MinStrutLength),
			pa.float("hull-epsilon", &d.Mesh.HullEpsilon),
			pa.float("weld-tolerance", &d.Mesh.WeldTolerance),
			pa.float("tolerance", &d.Mapper.Tolerance),
		} {
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
			}
		}

		if err := d.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		if err := p.add(d); err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		return &sexpDesign{d: d}, nil
	}
}
