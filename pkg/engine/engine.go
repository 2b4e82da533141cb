// Package engine evaluates lattice job scripts. It wraps zygomys in a
// sandboxed environment and collects the designs a script declares with
// (lattice ...).
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chazu/exolattice/pkg/kernel"
	"github.com/chazu/exolattice/pkg/kernel/sdfx"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past its deadline. The
	// interpreter goroutine is abandoned, not stopped.
	ErrTimeout = errors.New("engine: evaluation timed out")

	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one started on the same Engine.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each evaluation gets a fresh sandbox, and only the newest evaluation's
// result is delivered.
type Engine struct {
	// Timeout bounds Evaluate. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
	kernel     kernel.Kernel
}

// NewEngine creates an Engine whose solids are built with the sdfx kernel.
func NewEngine() *Engine {
	return NewEngineWithKernel(sdfx.New())
}

// NewEngineWithKernel creates an Engine that builds solids with k.
func NewEngineWithKernel(k kernel.Kernel) *Engine {
	return &Engine{kernel: k}
}

// outcome carries one evaluation back from its goroutine.
type outcome struct {
	program *Program
	errors  []EvalError
	err     error
}

// Evaluate runs a script under the engine's timeout and returns the
// designs it declares.
//
//   - success: program, nil, nil
//   - parse or runtime error in the script: nil, eval errors, nil
//   - timeout, panic or a newer evaluation: nil, nil, error
func (e *Engine) Evaluate(source string) (*Program, []EvalError, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.EvaluateContext(ctx, source)
}

// EvaluateContext is Evaluate bounded by ctx instead of the engine timeout.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*Program, []EvalError, error) {
	gen := e.next()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		p, evalErrs, err := e.evaluate(source)
		ch <- outcome{program: p, errors: evalErrs, err: err}
	}()

	return e.wait(ctx, ch, gen)
}

func (e *Engine) next() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// wait delivers the outcome on ch unless ctx ends first or a newer
// evaluation has started since generation gen.
func (e *Engine) wait(ctx context.Context, ch <-chan outcome, gen uint64) (*Program, []EvalError, error) {
	select {
	case res := <-ch:
		if gen != e.current() {
			return nil, nil, ErrSuperseded
		}
		return res.program, res.errors, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, ErrTimeout
		}
		return nil, nil, fmt.Errorf("engine: %w", ctx.Err())
	}
}

// evaluate runs source in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Program, []EvalError, error) {
	p := newProgram()
	if strings.TrimSpace(source) == "" {
		return p, nil, nil
	}

	// The sandbox keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.kernel, p)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return p, nil, nil
}
