package main

import (
	"fmt"
	"os"

	"github.com/chazu/exolattice/pkg/lattice"
	"github.com/chazu/exolattice/pkg/tessellate"
	"github.com/spf13/cobra"
)

func newNodesCmd(app *App) *cobra.Command {
	var (
		records   string
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "nodes JOB",
		Short: "List lattice nodes with 1-based numbers",
		Long: `Nodes prints the lattice nodes of every design in JOB, numbered from 1,
with their position and radius. With --records, each "x,y,z[,values...]"
line of the records file is matched to the nearest node instead; records
with no node within --tolerance get node 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			designs, err := loadDesigns(app, args[0])
			if err != nil {
				return err
			}

			var recs []lattice.Record
			if records != "" {
				text, err := os.ReadFile(records)
				if err != nil {
					return err
				}
				if recs, err = lattice.ParseRecords(string(text)); err != nil {
					return fmt.Errorf("%s: %w", records, err)
				}
			}

			out := cmd.OutOrStdout()
			for _, d := range designs {
				g, err := d.Space.Generate()
				if err != nil {
					if tessellate.IsInvalidInput(err) {
						continue
					}
					return err
				}
				l, err := lattice.Map(g, d.Cell, d.Radius, d.Mapper)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "== %s: %d nodes, %d struts\n", d.Name, len(l.Nodes), len(l.Struts))

				if recs == nil {
					for i, n := range l.Nodes {
						fmt.Fprintf(out, "%d,%g,%g,%g,%g\n", i+1, n.Pos.X, n.Pos.Y, n.Pos.Z, n.Radius)
					}
					continue
				}
				f := lattice.NewNodeFinder(l)
				f.Tolerance = tolerance
				for _, a := range lattice.Attach(f, recs) {
					fmt.Fprintf(out, "%d,%g,%g,%g", a.Node, a.Pos.X, a.Pos.Y, a.Pos.Z)
					for _, v := range a.Values {
						fmt.Fprintf(out, ",%g", v)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&records, "records", "r", "", "attachment records to match to nodes")
	cmd.Flags().Float64Var(&tolerance, "tolerance", lattice.DefaultMatchTolerance, "record match distance")
	return cmd
}
