// Command exolattice builds conformal strut lattices and their closed skins
// from YAML job files or Lisp scripts.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := newRootCmd(NewApp()).Execute(); err != nil {
		os.Exit(1)
	}
}
