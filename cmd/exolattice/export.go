package main

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/lattice"
	"github.com/chazu/exolattice/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// writeSTL saves a mesh as binary STL.
func writeSTL(path string, m *mesh.Mesh) error {
	if err := render.SaveSTL(path, m.Triangles()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// wireframe is one lattice drawn on its own DXF layer.
type wireframe struct {
	layer   string
	color   color.ColorNumber
	lattice *lattice.Lattice
}

// writeDXF saves lattice wireframes: a line per strut and a point per node.
func writeDXF(path string, frames []wireframe) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	for _, f := range frames {
		if _, err := d.AddLayer(f.layer, f.color, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("dxf layer %s: %w", f.layer, err)
		}
		for _, s := range f.lattice.Struts {
			a, b := f.lattice.Nodes[s.A].Pos, f.lattice.Nodes[s.B].Pos
			if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
				return fmt.Errorf("dxf strut: %w", err)
			}
		}
		for _, n := range f.lattice.Nodes {
			if _, err := d.Point(n.Pos.X, n.Pos.Y, n.Pos.Z); err != nil {
				return fmt.Errorf("dxf node: %w", err)
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
