package motion

import (
	"reflect"
	"time"
)

// Property is one animated property of a Spec.
type Property struct {
	Name string
	// From is the start value. Nil reads the target's current value at
	// Register time.
	From any
	To   any
	// Easing overrides Spec.Easing for this property.
	Easing EaseFunc
	// Interpolator blends composite values. Nil picks a built-in strategy
	// from the value's type (Color, []Vec2, Vec2) or blends numbers linearly.
	Interpolator Interpolator
}

// To animates name from its current value to v.
func To(name string, v any) Property {
	return Property{Name: name, To: v}
}

// FromTo animates name from a to b.
func FromTo(name string, a, b any) Property {
	return Property{Name: name, From: a, To: b}
}

// Spec describes an animation to Register.
//
// An animation is time-based when Scroll is nil, scroll-scrubbed when
// Scroll.Mode is ModeScrub, and scroll-triggered playback when Scroll.Mode is
// ModeDiscrete. Time-based and discrete animations need a positive Duration;
// scrubbed animations ignore Duration, Delay, Repeat and Yoyo.
type Spec struct {
	Target     Target
	Properties []Property

	Duration time.Duration
	// Delay postpones the start of time-based animations.
	Delay  time.Duration
	Scroll *ScrollSpec

	// Repeat is the number of extra cycles after the first, or
	// RepeatInfinite.
	Repeat int
	// Yoyo plays every odd cycle in reverse.
	Yoyo bool
	// Easing applies to every property without its own. Nil uses the
	// engine's default.
	Easing EaseFunc

	OnStart    func()
	OnUpdate   func(progress float64)
	OnComplete func()
}

// track is a validated Property.
type track struct {
	name     string
	fields   []string // target fields the track writes
	from, to any
	ease     EaseFunc
	interp   Interpolator
	numeric  bool
	fromF    float64
	toF      float64
}

func (t *track) value(p float64) any {
	e := p
	// Easing curves are only defined on [0, 1]; extrapolated scrub progress
	// continues linearly past the ends.
	if p >= 0 && p <= 1 {
		e = t.ease(p)
	}
	if t.numeric {
		return lerpExact(t.fromF, t.toF, e)
	}
	return t.interp.Interpolate(t.from, t.to, e)
}

// compile validates s and resolves defaults into tracks.
func (s *Spec) compile(defaultEase EaseFunc, hasSource bool) ([]track, error) {
	if s.Target == nil {
		return nil, invalid("Target", "missing target")
	}
	if !reflect.TypeOf(s.Target).Comparable() {
		return nil, invalid("Target", "%T is not comparable", s.Target)
	}
	if !targetAlive(s.Target) {
		return nil, invalid("Target", "target is not in the live document")
	}
	if len(s.Properties) == 0 {
		return nil, invalid("Properties", "no properties to animate")
	}
	if s.Repeat < RepeatInfinite {
		return nil, invalid("Repeat", "must be >= -1, got %d", s.Repeat)
	}
	if s.Delay < 0 {
		return nil, invalid("Delay", "must not be negative, got %v", s.Delay)
	}

	timed := s.Scroll == nil || s.Scroll.Mode == ModeDiscrete
	if timed && s.Duration <= 0 {
		return nil, invalid("Duration", "must be positive, got %v", s.Duration)
	}
	if s.Scroll != nil {
		if err := s.Scroll.validate(hasSource); err != nil {
			return nil, err
		}
	}

	ease := s.Easing
	if ease == nil {
		ease = defaultEase
	}

	tracks := make([]track, 0, len(s.Properties))
	seen := make(map[string]string, len(s.Properties))
	for _, p := range s.Properties {
		field := "Properties[" + p.Name + "]"
		if p.Name == "" {
			return nil, invalid("Properties", "property without a name")
		}
		fields := propertyFields(s.Target, p.Name)
		for _, f := range fields {
			switch prev, dup := seen[f]; {
			case dup && prev == p.Name:
				return nil, invalid(field, "listed twice")
			case dup:
				return nil, invalid(field, "writes the same field as %q", prev)
			}
			seen[f] = p.Name
		}

		tr := track{name: p.Name, fields: fields, from: p.From, to: p.To, ease: p.Easing, interp: p.Interpolator}
		if tr.ease == nil {
			tr.ease = ease
		}
		if tr.from == nil {
			cur, ok := s.Target.Property(p.Name)
			if !ok {
				return nil, invalid(field, "no from value and the target has no such property")
			}
			tr.from = cur
		}
		if tr.interp == nil {
			tr.interp = interpolatorFor(tr.to)
		}
		if tr.interp == nil {
			from, ok1 := toFloat(tr.from)
			to, ok2 := toFloat(tr.to)
			if !ok1 || !ok2 {
				return nil, invalid(field, "values %T and %T are not numeric and no interpolator is set", tr.from, tr.to)
			}
			tr.numeric, tr.fromF, tr.toF = true, from, to
		} else if c, ok := tr.interp.(checker); ok {
			if err := c.Check(tr.from, tr.to); err != nil {
				return nil, invalid(field, "%v", err)
			}
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

func (s *ScrollSpec) validate(hasSource bool) error {
	if !hasSource {
		return invalid("Scroll", "engine has no scroll source; call Init first")
	}
	if s.Trigger != nil && !reflect.TypeOf(s.Trigger).Comparable() {
		return invalid("Scroll.Trigger", "%T is not comparable", s.Trigger)
	}
	if s.Trigger != nil && !targetAlive(s.Trigger) {
		return invalid("Scroll.Trigger", "trigger is not in the live document")
	}
	start, end := s.Start, s.End
	if start.IsZero() {
		start = DefaultStart
	}
	if end.IsZero() {
		end = DefaultEnd
	}
	if s.Trigger == nil && (!start.IsAbsolute() || !end.IsAbsolute()) {
		return invalid("Scroll.Trigger", "relative rules need a trigger")
	}
	if start.IsAbsolute() && end.IsAbsolute() && end.offset <= start.offset {
		return invalid("Scroll", "span must be positive, got start %v end %v", start.offset, end.offset)
	}
	if s.Smoothing < 0 {
		return invalid("Scroll.Smoothing", "must not be negative, got %v", s.Smoothing)
	}
	return nil
}
