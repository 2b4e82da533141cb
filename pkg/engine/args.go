package engine

import (
	"fmt"
	"math"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// kwArgs is a builtin's argument list split into keyword and positional
// arguments. A trailing keyword with no value maps to SexpNull.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	a := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		switch {
		case !ok:
			a.positional = append(a.positional, args[i])
		case i+1 < len(args):
			i++
			a.kw[name] = args[i]
		default:
			a.kw[name] = zygo.SexpNull
		}
	}
	return a
}

// isKW returns the name of a keyword marked by preprocessSource.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// float, vec and counts store the named argument in dst when it is present
// and leave dst alone otherwise.
func (a kwArgs) float(name string, dst *float64) error {
	return lookup(a, name, dst, toFloat64)
}

func (a kwArgs) vec(name string, dst *v3.Vec) error {
	return lookup(a, name, dst, toVec3)
}

func (a kwArgs) counts(name string, dst *[3]int) error {
	return lookup(a, name, dst, toCounts)
}

func lookup[T any](a kwArgs, name string, dst *T, conv func(zygo.Sexp) (T, error)) error {
	s, ok := a.kw[name]
	if !ok {
		return nil
	}
	v, err := conv(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}

func mismatch(want string, s zygo.Sexp) error {
	return fmt.Errorf("expected %s, got %T (%s)", want, s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, mismatch("number", s)
}

// toInt accepts integral floats.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil || f != math.Trunc(f) {
		return 0, mismatch("integer", s)
	}
	return int(f), nil
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", mismatch("string", s)
}

// toKeywordString accepts :star as well as "star".
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", mismatch("keyword or string", s)
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, mismatch("vec3", s)
}

// toCounts reads (list nu nv nw).
func toCounts(s zygo.Sexp) ([3]int, error) {
	var c [3]int
	items, err := sexpListToSlice(s)
	if err != nil {
		return c, err
	}
	if len(items) != len(c) {
		return c, fmt.Errorf("expected 3 counts, got %d", len(items))
	}
	for i, item := range items {
		if c[i], err = toInt(item); err != nil {
			return c, err
		}
	}
	return c, nil
}

// sexpListToSlice flattens a list or array. The empty list is nil.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	}
	if s == zygo.SexpNull {
		return nil, nil
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}
