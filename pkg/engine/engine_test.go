package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateNoDesigns(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t  \n  "},
		{"expression", "(+ 1 2)"},
		{"definitions", "(def x 10)\n(def y 20)\n(+ x y)"},
		{"kebab-case variable", "(def cell-size 4)\n(* cell-size 2)"},
		{"comments", "; nothing here\n;; or here\n"},
		{"unused solid", "(def s (sphere 3))"},
	}

	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("unexpected eval errors: %v", evalErrs)
			}
			if p == nil {
				t.Fatal("expected non-nil program")
			}
			if p.Len() != 0 {
				t.Errorf("expected no designs, got %d", p.Len())
			}
		})
	}
}

func TestEvaluateScriptErrors(t *testing.T) {
	const cube = `(lattice "a" :space (box-grid :cell-size (vec3 1 1 1) :counts (list 1 1 1)) :cell (preset :grid) :radius 0.1)`
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", "(+ 1 2"},
		{"unmatched paren on line 2", "(+ 1 2)\n(+ 3"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"builtin rejects argument", "(sphere -1)"},
		{"duplicate design", cube + "\n" + cube},
	}

	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if p != nil {
				t.Error("expected nil program on error")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
			if evalErrs[0].Message == "" {
				t.Error("eval error message should not be empty")
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	const src = `(lattice "a" :space (box-grid :cell-size (vec3 1 1 1) :counts (list 2 2 1)) :cell (preset :cross) :radius 0.1)`
	eng := NewEngine()

	var first *Program
	for i := 0; i < 3; i++ {
		p, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, err, evalErrs)
		}
		if first == nil {
			first = p
			continue
		}
		a, b := first.Designs[0], p.Designs[0]
		if a.Space != b.Space || len(a.Cell.Struts) != len(b.Cell.Struts) {
			t.Errorf("iteration %d: design differs from the first evaluation", i)
		}
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// A channel that never delivers stands in for a script that never ends.
	eng := NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := eng.wait(ctx, make(chan outcome), eng.next())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got: %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
}

func TestEvaluateCanceled(t *testing.T) {
	eng := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := eng.wait(ctx, make(chan outcome), eng.next())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("cancellation should not be reported as a timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := NewEngine()
	stale := eng.next()
	eng.next()

	ch := make(chan outcome, 1)
	ch <- outcome{program: newProgram()}

	_, _, err := eng.wait(context.Background(), ch, stale)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got: %v", err)
	}
}

func TestEvaluateContext(t *testing.T) {
	eng := NewEngine()
	eng.Timeout = time.Minute

	p, evalErrs, err := eng.EvaluateContext(context.Background(), "(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if p == nil || p.Len() != 0 {
		t.Fatalf("expected an empty program, got %v", p)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "bare line prefix",
			msg:      "line 3: lattice: design has no space",
			wantLine: 3,
			wantMsg:  "design has no space",
		},
		{
			name:     "message spanning lines",
			msg:      "Error on line 2: box-grid: counts:\nexpected 3 counts, got 2",
			wantLine: 2,
			wantMsg:  "expected 3 counts, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
