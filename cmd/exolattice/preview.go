package main

import (
	"errors"

	"github.com/chazu/exolattice/pkg/mesh"
	"github.com/chazu/exolattice/pkg/tessellate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPreviewCmd(app *App) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "preview JOB",
		Short: "Write the design-space solid of each design as STL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			designs, err := loadDesigns(app, args[0])
			if err != nil {
				return err
			}
			for _, d := range designs {
				km, err := tessellate.Preview(d, app.kernel)
				if errors.Is(err, tessellate.ErrNoSolid) {
					log.Warn().Str("design", d.Name).Msg("preview: no design-space solid")
					continue
				}
				if err != nil {
					return err
				}
				m := mesh.FromKernel(km)
				m.Weld(1e-6)
				m.RemoveDegenerate()
				m.Compact()
				path, err := outPath(outDir, d.Name, "-space.stl")
				if err != nil {
					return err
				}
				if err := writeSTL(path, m); err != nil {
					return err
				}
				log.Info().Str("path", path).Int("faces", len(m.Faces)).Msg("wrote preview")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
