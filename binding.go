package motion

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects how a scroll binding drives its animation.
type Mode uint8

const (
	// ModeScrub maps scroll position directly onto progress.
	ModeScrub Mode = iota
	// ModeDiscrete plays the animation over its Duration when the scroll
	// position crosses the window edges, as directed by ToggleActions.
	ModeDiscrete
)

func (m Mode) String() string {
	if m == ModeDiscrete {
		return "discrete"
	}
	return "scrub"
}

// Edge is a position along an element or the viewport: a fraction of its
// extent plus a pixel offset.
type Edge struct {
	Fraction float64
	Pixels   float64
}

// OffsetRule resolves to a scroll offset. The zero value means "unset"; the
// binding then falls back to its default rule.
type OffsetRule struct {
	set      bool
	absolute bool
	offset   float64 // absolute position, or delta for relative rules
	element  Edge
	viewport Edge
}

// At is an absolute scroll offset.
func At(offset float64) OffsetRule {
	return OffsetRule{set: true, absolute: true, offset: offset}
}

// When is reached when the trigger's element edge meets the viewport edge,
// shifted by delta pixels.
func When(element, viewport Edge, delta float64) OffsetRule {
	return OffsetRule{set: true, element: element, viewport: viewport, offset: delta}
}

// IsZero reports whether the rule is unset.
func (r OffsetRule) IsZero() bool { return !r.set }

// IsAbsolute reports whether the rule is a fixed scroll offset.
func (r OffsetRule) IsAbsolute() bool { return r.absolute }

// resolve computes the scroll offset along one axis. box is the trigger's
// document-space extent on that axis (position, size); view is the viewport
// size on that axis.
func (r OffsetRule) resolve(boxPos, boxSize, view float64) float64 {
	if r.absolute {
		return r.offset
	}
	el := boxPos + r.element.Fraction*boxSize + r.element.Pixels
	vp := r.viewport.Fraction*view + r.viewport.Pixels
	return el - vp + r.offset
}

func (r OffsetRule) String() string {
	if !r.set {
		return ""
	}
	if r.absolute {
		return strconv.FormatFloat(r.offset, 'g', -1, 64)
	}
	s := formatEdge(r.element) + " " + formatEdge(r.viewport)
	switch {
	case r.offset > 0:
		s += "+=" + strconv.FormatFloat(r.offset, 'g', -1, 64)
	case r.offset < 0:
		s += "-=" + strconv.FormatFloat(-r.offset, 'g', -1, 64)
	}
	return s
}

func formatEdge(e Edge) string {
	switch {
	case e.Pixels != 0 && e.Fraction == 0:
		return strconv.FormatFloat(e.Pixels, 'g', -1, 64) + "px"
	case e.Fraction == 0:
		return "top"
	case e.Fraction == 0.5:
		return "center"
	case e.Fraction == 1:
		return "bottom"
	default:
		return strconv.FormatFloat(e.Fraction*100, 'g', -1, 64) + "%"
	}
}

// ParseOffsetRule parses a rule. A bare number ("100") is absolute; otherwise
// the rule is "<element edge> <viewport edge>" such as "top 80%" or
// "bottom top", with an optional trailing "+=N" or "-=N" pixel shift. Edges
// are top, center, bottom, left, right, N% or Npx. A single edge applies to
// both element and viewport.
func ParseOffsetRule(s string) (OffsetRule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OffsetRule{}, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return At(v), nil
	}

	var delta float64
	if i := strings.Index(s, "+="); i >= 0 {
		d, err := strconv.ParseFloat(strings.TrimSpace(s[i+2:]), 64)
		if err != nil {
			return OffsetRule{}, fmt.Errorf("parse offset rule %q: bad shift: %w", s, err)
		}
		delta, s = d, strings.TrimSpace(s[:i])
	} else if i := strings.Index(s, "-="); i >= 0 {
		d, err := strconv.ParseFloat(strings.TrimSpace(s[i+2:]), 64)
		if err != nil {
			return OffsetRule{}, fmt.Errorf("parse offset rule %q: bad shift: %w", s, err)
		}
		delta, s = -d, strings.TrimSpace(s[:i])
	}

	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return OffsetRule{}, fmt.Errorf("parse offset rule %q: want one or two edges", s)
	}
	el, err := parseEdge(fields[0])
	if err != nil {
		return OffsetRule{}, fmt.Errorf("parse offset rule %q: %w", s, err)
	}
	vp := el
	if len(fields) == 2 {
		if vp, err = parseEdge(fields[1]); err != nil {
			return OffsetRule{}, fmt.Errorf("parse offset rule %q: %w", s, err)
		}
	}
	return When(el, vp, delta), nil
}

// MustParseOffsetRule is ParseOffsetRule for rules known at compile time.
func MustParseOffsetRule(s string) OffsetRule {
	r, err := ParseOffsetRule(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseEdge(s string) (Edge, error) {
	switch strings.ToLower(s) {
	case "top", "left":
		return Edge{}, nil
	case "center":
		return Edge{Fraction: 0.5}, nil
	case "bottom", "right":
		return Edge{Fraction: 1}, nil
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Edge{}, fmt.Errorf("bad percentage %q", s)
		}
		return Edge{Fraction: v / 100}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return Edge{}, fmt.Errorf("bad edge %q", s)
	}
	return Edge{Pixels: v}, nil
}

// Default rules for bindings with a trigger: the window opens when the
// trigger's top reaches the viewport bottom and closes when its bottom
// passes the viewport top.
var (
	DefaultStart = When(Edge{}, Edge{Fraction: 1}, 0)
	DefaultEnd   = When(Edge{Fraction: 1}, Edge{}, 0)
)

// ToggleAction is what a discrete binding does to its playhead when the
// scroll position crosses a window edge.
type ToggleAction uint8

const (
	ActionNone     ToggleAction = iota
	ActionPlay                  // run forward from the current playhead
	ActionPause                 // freeze the playhead
	ActionResume                // continue in the last direction
	ActionReverse               // run backward from the current playhead
	ActionRestart               // jump to the start and run forward
	ActionReset                 // jump to the start and freeze
	ActionComplete              // jump to the end and freeze
)

var actionNames = [...]string{"none", "play", "pause", "resume", "reverse", "restart", "reset", "complete"}

func (a ToggleAction) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ToggleActions holds the action for each edge crossing, in scroll order:
// entering forward, leaving forward, entering backward, leaving backward.
type ToggleActions struct {
	Enter, Leave, EnterBack, LeaveBack ToggleAction
}

// DefaultToggleActions plays once on the first forward entry.
var DefaultToggleActions = ToggleActions{Enter: ActionPlay}

// replays reports whether any crossing after the first entry can move the
// playhead. Discrete animations that cannot replay complete normally; the
// rest stay registered so later crossings can act on them.
func (t ToggleActions) replays() bool {
	return t.Leave != ActionNone || t.EnterBack != ActionNone || t.LeaveBack != ActionNone
}

func (t ToggleActions) String() string {
	return t.Enter.String() + " " + t.Leave.String() + " " + t.EnterBack.String() + " " + t.LeaveBack.String()
}

// ParseToggleActions parses four space-separated action names, for example
// "play none none reverse".
func ParseToggleActions(s string) (ToggleActions, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return ToggleActions{}, fmt.Errorf("parse toggle actions %q: want 4 actions, got %d", s, len(fields))
	}
	var out [4]ToggleAction
	for i, f := range fields {
		found := false
		for j, name := range actionNames {
			if strings.EqualFold(f, name) {
				out[i] = ToggleAction(j)
				found = true
				break
			}
		}
		if !found {
			return ToggleActions{}, fmt.Errorf("parse toggle actions %q: unknown action %q", s, f)
		}
	}
	return ToggleActions{Enter: out[0], Leave: out[1], EnterBack: out[2], LeaveBack: out[3]}, nil
}

// ScrollSpec binds an animation to the scroll position.
type ScrollSpec struct {
	// Trigger is the element whose box relative rules measure. Optional when
	// both Start and End are absolute.
	Trigger Target
	// Start and End bound the scroll window. Unset rules default to
	// DefaultStart and DefaultEnd.
	Start, End OffsetRule
	Mode       Mode
	// Extrapolate lets scrub progress run past [0, 1] outside the window.
	Extrapolate bool
	// Smoothing makes scrub progress trail the scroll position, settling in
	// roughly this long. Zero follows the scroll position exactly.
	Smoothing time.Duration
	// Actions drive discrete bindings. The zero value means
	// DefaultToggleActions.
	Actions ToggleActions
	// Horizontal binds to the x scroll axis instead of y.
	Horizontal bool
}

type region uint8

const (
	regionBefore region = iota
	regionInside
	regionAfter
)

// scrollBinding is the engine-side state of a ScrollSpec.
type scrollBinding struct {
	spec    ScrollSpec
	actions ToggleActions

	layoutGen  uint64 // engine layout generation the offsets were resolved at
	resolved   bool
	start, end float64

	last     float64 // last computed progress
	region   region
	seen     bool // region has been evaluated at least once
	smoothed float64
	velocity float64
}

func newScrollBinding(spec ScrollSpec) *scrollBinding {
	if spec.Start.IsZero() {
		spec.Start = DefaultStart
	}
	if spec.End.IsZero() {
		spec.End = DefaultEnd
	}
	b := &scrollBinding{spec: spec, actions: spec.Actions}
	if b.actions == (ToggleActions{}) {
		b.actions = DefaultToggleActions
	}
	return b
}

// offsets returns the resolved window, recomputing it when the engine's
// layout generation has moved since the last resolve.
func (b *scrollBinding) offsets(gen uint64, viewport Vec2) (float64, float64) {
	if b.resolved && b.layoutGen == gen {
		return b.start, b.end
	}
	var pos, size, view float64
	if b.spec.Trigger != nil {
		box := b.spec.Trigger.BoundingBox()
		if b.spec.Horizontal {
			pos, size = box.X, box.Width
		} else {
			pos, size = box.Y, box.Height
		}
	}
	if b.spec.Horizontal {
		view = viewport.X
	} else {
		view = viewport.Y
	}
	b.start = b.spec.Start.resolve(pos, size, view)
	b.end = b.spec.End.resolve(pos, size, view)
	b.layoutGen = gen
	b.resolved = true
	return b.start, b.end
}

// rawProgress maps scroll position onto the window without clamping. A
// window that resolved to zero or negative length acts as a step at start.
func (b *scrollBinding) rawProgress(pos, start, end float64) float64 {
	if end <= start {
		if pos >= start {
			return 1
		}
		return 0
	}
	return (pos - start) / (end - start)
}

func regionOf(pos, start, end float64) region {
	switch {
	case pos < start:
		return regionBefore
	case pos > end:
		return regionAfter
	default:
		return regionInside
	}
}
