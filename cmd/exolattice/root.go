package main

import (
	"fmt"
	"strings"

	"github.com/chazu/exolattice/pkg/design"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd(app *App) *cobra.Command {
	var verbose, quiet bool
	root := &cobra.Command{
		Use:          "exolattice",
		Short:        "Generate conformal strut lattices and their closed skins",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case verbose:
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			case quiet:
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			default:
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")

	root.AddCommand(
		newGenerateCmd(app),
		newNodesCmd(app),
		newPreviewCmd(app),
		newDefaultsCmd(),
	)
	return root
}

// loadDesigns loads a job file and turns script errors into one error.
func loadDesigns(app *App, path string) ([]*design.Design, error) {
	designs, evalErrs, err := app.Designs(path)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s: %s", path, strings.Join(msgs, "; "))
	}
	return designs, nil
}
