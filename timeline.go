package motion

import (
	"errors"
	"time"
)

// Stagger copies base once per target, delaying each copy by each more than
// the one before. Properties are shared; base.Target is ignored.
func Stagger(base Spec, targets []Target, each time.Duration) []Spec {
	out := make([]Spec, len(targets))
	for i, t := range targets {
		s := base
		s.Target = t
		s.Delay = base.Delay + time.Duration(i)*each
		out[i] = s
	}
	return out
}

// Position places a Timeline entry relative to the entries before it.
type Position struct {
	kind   positionKind
	offset time.Duration
}

type positionKind uint8

const (
	posAfter positionKind = iota
	posWithPrevious
	posAt
)

// After starts the entry gap after the timeline's current end. A negative
// gap overlaps the previous entries.
func After(gap time.Duration) Position { return Position{kind: posAfter, offset: gap} }

// Overlap starts the entry d before the timeline's current end.
func Overlap(d time.Duration) Position { return After(-d) }

// WithPrevious starts the entry together with the previous one.
func WithPrevious() Position { return Position{kind: posWithPrevious} }

// AtTime starts the entry at an absolute time from the timeline's start.
func AtTime(t time.Duration) Position { return Position{kind: posAt, offset: t} }

type timelineEntry struct {
	spec  Spec
	start time.Duration
}

// Timeline sequences time-based specs. Entries are laid out as they are
// added and registered together, so their delays share one origin.
type Timeline struct {
	entries []timelineEntry
	end     time.Duration
	err     error
}

// Add appends spec at pos. Scroll-bound specs cannot be sequenced; the error
// surfaces from Register.
func (tl *Timeline) Add(spec Spec, pos Position) *Timeline {
	if tl.err != nil {
		return tl
	}
	if spec.Scroll != nil {
		tl.err = invalid("Scroll", "scroll-bound specs cannot join a timeline")
		return tl
	}
	var start time.Duration
	switch pos.kind {
	case posAfter:
		start = tl.end + pos.offset
	case posWithPrevious:
		if n := len(tl.entries); n > 0 {
			start = tl.entries[n-1].start
		}
	case posAt:
		start = pos.offset
	}
	if start < 0 {
		start = 0
	}
	tl.entries = append(tl.entries, timelineEntry{spec: spec, start: start})
	if end := start + spec.Delay + spec.Duration*time.Duration(max(spec.Repeat, 0)+1); end > tl.end {
		tl.end = end
	}
	return tl
}

// Duration returns the time from the timeline's start to the end of its last
// finite entry.
func (tl *Timeline) Duration() time.Duration { return tl.end }

// Specs returns the entries with their timeline offsets folded into Delay.
func (tl *Timeline) Specs() []Spec {
	out := make([]Spec, len(tl.entries))
	for i, en := range tl.entries {
		s := en.spec
		s.Delay += en.start
		out[i] = s
	}
	return out
}

// Register registers every entry with e. If any entry is rejected the ones
// already registered are killed and the error is returned.
func (tl *Timeline) Register(e *Engine) ([]Handle, error) {
	if tl.err != nil {
		return nil, tl.err
	}
	if len(tl.entries) == 0 {
		return nil, errors.New("motion: timeline is empty")
	}
	specs := tl.Specs()
	handles := make([]Handle, 0, len(specs))
	for _, s := range specs {
		h, err := e.Register(s)
		if err != nil {
			for _, prev := range handles {
				prev.Kill()
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}
