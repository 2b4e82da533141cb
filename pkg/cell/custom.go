package cell

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Segment is a straight strut drawn in unit-cube coordinates.
type Segment struct {
	A, B v3.Vec
}

// Curve is a parametric curve over t in [0,1].
type Curve interface {
	Point(t float64) v3.Vec
}

// CurveFunc adapts a plain function to the Curve interface.
type CurveFunc func(t float64) v3.Vec

// Point evaluates the function.
func (f CurveFunc) Point(t float64) v3.Vec {
	return f(t)
}

// Options control how drawn geometry becomes a unit cell.
type Options struct {
	// Tolerance merges endpoints closer than this and snaps coordinates
	// onto the cube faces.
	Tolerance float64
	// MinLength is the shortest segment kept when polylines and curves are
	// split up.
	MinLength float64
	// MaxDeviation is the largest distance a segment may stray from the
	// polyline or curve it replaces.
	MaxDeviation float64
}

// DefaultOptions returns the options used when a field is left at zero.
func DefaultOptions() Options {
	return Options{Tolerance: 1e-4, MinLength: 0.01, MaxDeviation: 0.005}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MinLength < 0 {
		o.MinLength = 0
	}
	if o.MaxDeviation <= 0 {
		o.MaxDeviation = d.MaxDeviation
	}
	return o
}

// FromSegments builds a unit cell from drawn segments. Endpoints within
// Tolerance of each other become one node; zero-length segments are dropped.
func FromSegments(segments []Segment, opts Options) (*UnitCell, error) {
	opts = opts.withDefaults()
	var nodes []v3.Vec
	var struts []Pair

	nodeFor := func(p v3.Vec) (int, error) {
		s, err := snap(p, opts.Tolerance)
		if err != nil {
			return 0, fmt.Errorf("cell: endpoint %v: %w", p, err)
		}
		for i, n := range nodes {
			if near(n, s, opts.Tolerance) {
				return i, nil
			}
		}
		nodes = append(nodes, s)
		return len(nodes) - 1, nil
	}

	for _, seg := range segments {
		a, err := nodeFor(seg.A)
		if err != nil {
			return nil, err
		}
		b, err := nodeFor(seg.B)
		if err != nil {
			return nil, err
		}
		if a == b {
			continue
		}
		struts = append(struts, Pair{A: a, B: b})
	}
	if len(struts) == 0 {
		return nil, ErrEmptyCell
	}
	return build(nodes, struts, opts.Tolerance)
}

// FromPolylines simplifies each polyline to within MaxDeviation, removes
// vertices closer than MinLength to their predecessor, and builds the cell
// from the remaining segments. Polyline end points are always kept.
func FromPolylines(polylines [][]v3.Vec, opts Options) (*UnitCell, error) {
	return FromSegments(PolylineSegments(polylines, opts), opts)
}

// PolylineSegments is the segmenting half of FromPolylines, for callers that
// mix polylines with explicit segments.
func PolylineSegments(polylines [][]v3.Vec, opts Options) []Segment {
	opts = opts.withDefaults()
	var segments []Segment
	for _, pl := range polylines {
		pts := enforceMinLength(simplify(pl, opts.MaxDeviation), opts.MinLength)
		segments = append(segments, toSegments(pts)...)
	}
	return segments
}

// FromCurves samples each curve by adaptive chord subdivision until every
// chord is within MaxDeviation of the curve, then proceeds as FromPolylines.
func FromCurves(curves []Curve, opts Options) (*UnitCell, error) {
	opts = opts.withDefaults()
	var segments []Segment
	for _, c := range curves {
		if c == nil {
			continue
		}
		pts := enforceMinLength(sampleCurve(c, opts), opts.MinLength)
		segments = append(segments, toSegments(pts)...)
	}
	return FromSegments(segments, opts)
}

func toSegments(pts []v3.Vec) []Segment {
	if len(pts) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		out = append(out, Segment{A: pts[i-1], B: pts[i]})
	}
	return out
}

// simplify is Douglas-Peucker with an explicit stack.
func simplify(pts []v3.Vec, tol float64) []v3.Vec {
	if len(pts) < 3 {
		return pts
	}
	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true
	stack := [][2]int{{0, len(pts) - 1}}
	for len(stack) > 0 {
		span := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		worst, at := 0.0, -1
		for i := span[0] + 1; i < span[1]; i++ {
			if d := distToSegment(pts[i], pts[span[0]], pts[span[1]]); d > worst {
				worst, at = d, i
			}
		}
		if at >= 0 && worst > tol {
			keep[at] = true
			stack = append(stack, [2]int{span[0], at}, [2]int{at, span[1]})
		}
	}
	out := make([]v3.Vec, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// enforceMinLength drops interior vertices closer than minLen to the last
// kept vertex. If the final vertex lands too close, the vertex before it
// gives way instead.
func enforceMinLength(pts []v3.Vec, minLen float64) []v3.Vec {
	if len(pts) < 2 || minLen <= 0 {
		return pts
	}
	out := []v3.Vec{pts[0]}
	for _, p := range pts[1 : len(pts)-1] {
		if p.Sub(out[len(out)-1]).Length() >= minLen {
			out = append(out, p)
		}
	}
	last := pts[len(pts)-1]
	if len(out) > 1 && last.Sub(out[len(out)-1]).Length() < minLen {
		out = out[:len(out)-1]
	}
	return append(out, last)
}

func distToSegment(p, a, b v3.Vec) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.MulScalar(t))).Length()
}

const (
	curveSeedSpans = 4
	curveMaxDepth  = 12
)

// sampleCurve splits [0,1] into a few spans and refines each span while
// its midpoint strays from the chord by more than MaxDeviation.
func sampleCurve(c Curve, opts Options) []v3.Vec {
	pts := []v3.Vec{c.Point(0)}
	var refine func(t0, t1 float64, p0, p1 v3.Vec, depth int)
	refine = func(t0, t1 float64, p0, p1 v3.Vec, depth int) {
		tm := (t0 + t1) / 2
		pm := c.Point(tm)
		if depth < curveMaxDepth &&
			p1.Sub(p0).Length() > opts.MinLength &&
			distToSegment(pm, p0, p1) > opts.MaxDeviation {
			refine(t0, tm, p0, pm, depth+1)
			refine(tm, t1, pm, p1, depth+1)
			return
		}
		pts = append(pts, p1)
	}
	for i := 0; i < curveSeedSpans; i++ {
		t0 := float64(i) / curveSeedSpans
		t1 := float64(i+1) / curveSeedSpans
		refine(t0, t1, c.Point(t0), c.Point(t1), 0)
	}
	return simplify(pts, opts.MaxDeviation)
}
