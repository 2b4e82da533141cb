package main

import (
	"fmt"
	"path/filepath"

	"github.com/chazu/exolattice/pkg/design"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		outDir string
		stl    bool
		dxf    bool
	)
	cmd := &cobra.Command{
		Use:   "generate JOB",
		Short: "Build the lattice skin and write STL and DXF files",
		Long: `Generate runs every design in JOB (a .yaml job file or a script) through
the grid, lattice, skin and validation stages. Each design is written as
NAME.stl; the wireframes of all designs go to JOB.dxf. The validation report
is printed for each design.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			designs, err := loadDesigns(app, args[0])
			if err != nil {
				return err
			}
			res := app.Run(designs)
			if len(res.Errors) > 0 {
				return fmt.Errorf("%s", res.Errors[0].Message)
			}

			out := cmd.OutOrStdout()
			var frames []wireframe
			for _, p := range res.Parts {
				name := p.Design.Name
				fmt.Fprintf(out, "== %s\n%s", name, p.Report)
				if stl {
					path, err := outPath(outDir, name, ".stl")
					if err != nil {
						return err
					}
					if err := writeSTL(path, p.Solid); err != nil {
						return err
					}
					log.Info().Str("path", path).Msg("wrote skin")
				}
				frames = append(frames, wireframe{layer: name, color: p.Color, lattice: p.Lattice})
			}

			if dxf && len(frames) > 0 {
				base := filepath.Base(args[0])
				path := filepath.Join(outDir, base[:len(base)-len(filepath.Ext(base))]+".dxf")
				if err := writeDXF(path, frames); err != nil {
					return err
				}
				log.Info().Str("path", path).Msg("wrote wireframe")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&stl, "stl", true, "write the skin of each design as STL")
	cmd.Flags().BoolVar(&dxf, "dxf", false, "write the lattice wireframes as DXF")
	return cmd
}

// outPath joins a design's output file under dir, refusing names that
// would land anywhere else.
func outPath(dir, name, suffix string) (string, error) {
	if err := design.ValidName(name); err != nil {
		return "", err
	}
	return filepath.Join(dir, name+suffix), nil
}
