package motion

import (
	"fmt"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Interpolator blends composite property values. t is eased progress and may
// fall slightly outside [0, 1] for overshooting easings.
type Interpolator interface {
	Interpolate(from, to any, t float64) any
}

// InterpolatorFunc adapts a plain function to Interpolator.
type InterpolatorFunc func(from, to any, t float64) any

// Interpolate calls f(from, to, t).
func (f InterpolatorFunc) Interpolate(from, to any, t float64) any { return f(from, to, t) }

// checker is implemented by interpolators that can reject a from/to pair at
// Register time instead of failing mid-animation.
type checker interface {
	Check(from, to any) error
}

var (
	// ColorInterpolator blends Color values in CIE L*a*b* space, which keeps
	// midpoints from going muddy. Alpha blends linearly.
	ColorInterpolator Interpolator = colorInterpolator{}
	// PointsInterpolator morphs one []Vec2 shape into another point by point.
	// Both shapes must have the same number of points.
	PointsInterpolator Interpolator = pointsInterpolator{}
	// Vec2Interpolator moves a Vec2 along the straight line between values.
	Vec2Interpolator Interpolator = vec2Interpolator{}
)

type colorInterpolator struct{}

func (colorInterpolator) Interpolate(from, to any, t float64) any {
	a, b := from.(Color), to.(Color)
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	m := ca.BlendLab(cb, t).Clamped()
	return Color{R: m.R, G: m.G, B: m.B, A: lerp(a.A, b.A, t)}
}

func (colorInterpolator) Check(from, to any) error {
	if _, ok := from.(Color); !ok {
		return fmt.Errorf("from is %T, want Color", from)
	}
	if _, ok := to.(Color); !ok {
		return fmt.Errorf("to is %T, want Color", to)
	}
	return nil
}

type pointsInterpolator struct{}

func (pointsInterpolator) Interpolate(from, to any, t float64) any {
	a, b := from.([]Vec2), to.([]Vec2)
	if t >= 1 {
		return slices.Clone(b)
	}
	out := make([]Vec2, len(a))
	for i := range a {
		out[i] = a[i].Lerp(b[i], t)
	}
	return out
}

func (pointsInterpolator) Check(from, to any) error {
	a, ok := from.([]Vec2)
	if !ok {
		return fmt.Errorf("from is %T, want []Vec2", from)
	}
	b, ok := to.([]Vec2)
	if !ok {
		return fmt.Errorf("to is %T, want []Vec2", to)
	}
	if len(a) != len(b) {
		return fmt.Errorf("shapes have %d and %d points", len(a), len(b))
	}
	return nil
}

type vec2Interpolator struct{}

func (vec2Interpolator) Interpolate(from, to any, t float64) any {
	if t >= 1 {
		return to.(Vec2)
	}
	return from.(Vec2).Lerp(to.(Vec2), t)
}

func (vec2Interpolator) Check(from, to any) error {
	if _, ok := from.(Vec2); !ok {
		return fmt.Errorf("from is %T, want Vec2", from)
	}
	if _, ok := to.(Vec2); !ok {
		return fmt.Errorf("to is %T, want Vec2", to)
	}
	return nil
}

// PathInterpolator follows a polyline by arc length: t = 0 is the first
// point, t = 1 the last. The property's from/to values are ignored, so specs
// typically animate a placeholder from 0 to 1. The result is a Vec2.
type PathInterpolator struct {
	points []Vec2
	cum    []float64 // cumulative length at each point
}

// NewPathInterpolator precomputes segment lengths for points. A path needs
// at least two points.
func NewPathInterpolator(points []Vec2) (*PathInterpolator, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("motion path: need at least 2 points, got %d", len(points))
	}
	p := &PathInterpolator{points: points, cum: make([]float64, len(points))}
	for i := 1; i < len(points); i++ {
		p.cum[i] = p.cum[i-1] + points[i-1].Dist(points[i])
	}
	return p, nil
}

// Length returns the total arc length of the path.
func (p *PathInterpolator) Length() float64 {
	return p.cum[len(p.cum)-1]
}

// Interpolate returns the point at fraction t of the path's length.
func (p *PathInterpolator) Interpolate(_, _ any, t float64) any {
	t = clamp01(t)
	total := p.Length()
	if total == 0 || t == 0 {
		return p.points[0]
	}
	if t == 1 {
		return p.points[len(p.points)-1]
	}
	d := t * total
	// Linear scan; paths are short and this runs once per tick per track.
	for i := 1; i < len(p.cum); i++ {
		if d <= p.cum[i] {
			seg := p.cum[i] - p.cum[i-1]
			if seg == 0 {
				return p.points[i]
			}
			return p.points[i-1].Lerp(p.points[i], (d-p.cum[i-1])/seg)
		}
	}
	return p.points[len(p.points)-1]
}

// interpolatorFor picks the built-in strategy for a value's dynamic type.
// nil means the value is numeric and blends linearly.
func interpolatorFor(v any) Interpolator {
	switch v.(type) {
	case Color:
		return ColorInterpolator
	case []Vec2:
		return PointsInterpolator
	case Vec2:
		return Vec2Interpolator
	default:
		return nil
	}
}

// toFloat normalizes numeric property values.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// lerpExact is start + t*(end-start) with the ends pinned, so value(0) and
// value(1) reproduce start and end bit for bit.
func lerpExact(start, end, t float64) float64 {
	switch t {
	case 0:
		return start
	case 1:
		return end
	}
	return lerp(start, end, t)
}
