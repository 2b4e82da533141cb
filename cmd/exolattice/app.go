package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/exolattice/pkg/config"
	"github.com/chazu/exolattice/pkg/design"
	"github.com/chazu/exolattice/pkg/engine"
	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/kernel/sdfx"
	"github.com/chazu/exolattice/pkg/tessellate"
	"github.com/rs/zerolog/log"
	"github.com/yofu/dxf/color"
)

// colorPalette assigns distinct DXF layer colors to designs.
var colorPalette = []color.ColorNumber{
	color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta,
}

// App ties the script engine, the YAML loader and the pipeline together.
// Commands share one App.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// NewApp creates an App with an engine and the sdfx kernel.
func NewApp() *App {
	k := sdfx.New()
	return &App{
		engine: engine.NewEngineWithKernel(k),
		kernel: k,
	}
}

// Part is one tessellated design ready for export.
type Part struct {
	*tessellate.Result
	Color color.ColorNumber
}

// EvalResult is everything one job produced.
type EvalResult struct {
	Parts  []Part
	Errors []engine.EvalError
}

// isConfig reports whether path names a YAML job file.
func isConfig(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Designs loads a job file. YAML files are decoded by pkg/config; anything
// else is evaluated as a script. Script errors come back as eval errors.
func (a *App) Designs(path string) ([]*design.Design, []engine.EvalError, error) {
	if isConfig(path) {
		c, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		d, err := c.ToDesign(a.kernel)
		if err != nil {
			return nil, nil, err
		}
		return []*design.Design{d}, nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	p, evalErrs, err := a.engine.Evaluate(string(source))
	if err != nil || len(evalErrs) > 0 {
		return nil, evalErrs, err
	}
	return p.Designs, nil, nil
}

// Evaluate runs script source through the engine and the pipeline.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{Parts: []Part{}, Errors: []engine.EvalError{}}

	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Error().Err(err).Msg("evaluate: fatal")
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, evalErrs...)
		return result
	}
	return a.build(p.Designs, result)
}

// Run runs loaded designs through the pipeline.
func (a *App) Run(designs []*design.Design) EvalResult {
	return a.build(designs, EvalResult{Parts: []Part{}, Errors: []engine.EvalError{}})
}

func (a *App) build(designs []*design.Design, result EvalResult) EvalResult {
	results, err := tessellate.Tessellate(designs)
	if err != nil {
		log.Error().Err(err).Msg("tessellate failed")
		result.Errors = append(result.Errors, engine.EvalError{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	for i, r := range results {
		result.Parts = append(result.Parts, Part{
			Result: r,
			Color:  colorPalette[i%len(colorPalette)],
		})
	}
	return result
}
