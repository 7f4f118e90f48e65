package motion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Document is a declarative set of animations, usually loaded from YAML:
//
//	animations:
//	  - target: hero
//	    properties:
//	      opacity: {from: 0, to: 1}
//	      y: {from: 40, to: 0}
//	    duration: 0.8
//	    easing: power2.out
//	    trigger: hero
//	    scrollStart: top 80%
//	    actions: play none none reverse
//
// Keys the loader does not recognize are ignored.
type Document struct {
	Animations []AnimationConfig `yaml:"animations"`
}

// AnimationConfig is one entry of a Document.
type AnimationConfig struct {
	Target     string    `yaml:"target"`
	Properties yaml.Node `yaml:"properties"`
	Duration   Seconds   `yaml:"duration"`
	Delay      Seconds   `yaml:"delay"`
	Repeat     int       `yaml:"repeat"`
	Yoyo       bool      `yaml:"yoyo"`
	Easing     string    `yaml:"easing"`

	Trigger     string        `yaml:"trigger"`
	ScrollStart OffsetRule    `yaml:"scrollStart"`
	ScrollEnd   OffsetRule    `yaml:"scrollEnd"`
	Scrub       ScrubOption   `yaml:"scrub"`
	Mode        *Mode         `yaml:"mode"`
	Actions     ToggleActions `yaml:"actions"`
	Extrapolate bool          `yaml:"extrapolate"`
	Horizontal  bool          `yaml:"horizontal"`
	Stagger     Seconds       `yaml:"stagger"`
	// Targets animates several nodes with one entry, Stagger apart.
	Targets []string `yaml:"targets"`
}

// Seconds is a duration written as a number of seconds ("0.8") or a Go
// duration string ("800ms").
type Seconds time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Seconds) UnmarshalYAML(n *yaml.Node) error {
	if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
		*s = Seconds(f * float64(time.Second))
		return nil
	}
	d, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: bad duration %q", n.Line, n.Value)
	}
	*s = Seconds(d)
	return nil
}

// ScrubOption is the scrub key: true for exact scrubbing, a number for
// scrubbing that trails the scroll position by that many seconds.
type ScrubOption struct {
	Set       bool
	Enabled   bool
	Smoothing time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *ScrubOption) UnmarshalYAML(n *yaml.Node) error {
	o.Set = true
	if b, err := strconv.ParseBool(n.Value); err == nil {
		o.Enabled = b
		return nil
	}
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("line %d: scrub must be a bool or a non-negative number, got %q", n.Line, n.Value)
	}
	o.Enabled = true
	o.Smoothing = time.Duration(f * float64(time.Second))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *OffsetRule) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseOffsetRule(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*r = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *ToggleActions) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseToggleActions(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*t = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mode) UnmarshalYAML(n *yaml.Node) error {
	switch strings.ToLower(n.Value) {
	case "scrub":
		*m = ModeScrub
	case "discrete", "toggle":
		*m = ModeDiscrete
	default:
		return fmt.Errorf("line %d: unknown mode %q", n.Line, n.Value)
	}
	return nil
}

// LoadDocument parses a YAML animation document.
func LoadDocument(data []byte) (*Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// ReadDocument parses a YAML animation document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("parse animation document: %w", err)
	}
	return &doc, nil
}

// LoadDocumentFile reads and parses a YAML animation document.
func LoadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open animation document: %w", err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// TargetResolver maps the target names used in documents to Targets.
type TargetResolver interface {
	ResolveTarget(name string) (Target, bool)
}

// Specs converts every entry to Specs, resolving names with res. Entries
// with several targets expand into one staggered Spec per target.
func (d *Document) Specs(res TargetResolver) ([]Spec, error) {
	var out []Spec
	for i := range d.Animations {
		specs, err := d.Animations[i].specs(res)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		out = append(out, specs...)
	}
	return out, nil
}

func (c *AnimationConfig) specs(res TargetResolver) ([]Spec, error) {
	names := c.Targets
	if c.Target != "" {
		names = append([]string{c.Target}, names...)
	}
	if len(names) == 0 {
		return nil, errors.New("no target")
	}
	targets := make([]Target, len(names))
	for i, name := range names {
		t, ok := res.ResolveTarget(name)
		if !ok {
			return nil, fmt.Errorf("target %q not found", name)
		}
		targets[i] = t
	}

	props, err := decodeProperties(&c.Properties)
	if err != nil {
		return nil, err
	}
	base := Spec{
		Properties: props,
		Duration:   time.Duration(c.Duration),
		Delay:      time.Duration(c.Delay),
		Repeat:     c.Repeat,
		Yoyo:       c.Yoyo,
	}
	if c.Easing != "" {
		if base.Easing, err = ParseEase(c.Easing); err != nil {
			return nil, err
		}
	}

	windowed := c.Trigger != "" || !c.ScrollStart.IsZero() || !c.ScrollEnd.IsZero()
	if windowed || c.Scrub.Enabled || c.Mode != nil {
		sc := &ScrollSpec{
			Start:       c.ScrollStart,
			End:         c.ScrollEnd,
			Extrapolate: c.Extrapolate,
			Smoothing:   c.Scrub.Smoothing,
			Actions:     c.Actions,
			Horizontal:  c.Horizontal,
			Mode:        ModeDiscrete,
		}
		switch {
		case c.Mode != nil:
			sc.Mode = *c.Mode
		case c.Scrub.Enabled:
			sc.Mode = ModeScrub
		}
		if c.Trigger != "" {
			t, ok := res.ResolveTarget(c.Trigger)
			if !ok {
				return nil, fmt.Errorf("trigger %q not found", c.Trigger)
			}
			sc.Trigger = t
		}
		base.Scroll = sc
	}

	// Each spec gets its own Properties slice; Register mutates nothing, but
	// callers may edit the results.
	out := Stagger(base, targets, time.Duration(c.Stagger))
	for i := range out {
		out[i].Properties = append([]Property(nil), props...)
	}
	return out, nil
}

// decodeProperties reads the properties mapping in document order. Each
// value is either {from, to, easing} or a bare end value.
func decodeProperties(n *yaml.Node) ([]Property, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: properties must be a mapping", n.Line)
	}
	props := make([]Property, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name, val := n.Content[i].Value, n.Content[i+1]
		p := Property{Name: name}
		var err error
		if val.Kind == yaml.MappingNode && (hasKey(val, "from") || hasKey(val, "easing")) && !hasKey(val, "to") {
			return nil, fmt.Errorf("property %q: line %d: from without to", name, val.Line)
		}
		if val.Kind == yaml.MappingNode && hasKey(val, "to") {
			for j := 0; j+1 < len(val.Content); j += 2 {
				switch val.Content[j].Value {
				case "from":
					p.From, err = decodeValue(val.Content[j+1])
				case "to":
					p.To, err = decodeValue(val.Content[j+1])
				case "easing":
					p.Easing, err = ParseEase(val.Content[j+1].Value)
				}
				if err != nil {
					return nil, fmt.Errorf("property %q: %w", name, err)
				}
			}
		} else if p.To, err = decodeValue(val); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props = append(props, p)
	}
	return props, nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// decodeValue turns a YAML value into a property value: numbers become
// float64, "#rrggbb" strings a Color, {x, y} or [x, y] a Vec2 and
// [[x, y], ...] a []Vec2.
func decodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if strings.HasPrefix(n.Value, "#") {
			c, err := colorful.Hex(n.Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q is not a number or #color", n.Line, n.Value)
		}
		return f, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i].Value; k != "x" && k != "y" {
				return nil, fmt.Errorf("line %d: a point takes x and y, got %q", n.Line, k)
			}
		}
		var v Vec2
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	case yaml.SequenceNode:
		if len(n.Content) == 2 && n.Content[0].Kind == yaml.ScalarNode && n.Content[1].Kind == yaml.ScalarNode {
			var xy [2]float64
			if err := n.Decode(&xy); err != nil {
				return nil, fmt.Errorf("line %d: a point must be [x, y]: %w", n.Line, err)
			}
			return Vec2{xy[0], xy[1]}, nil
		}
		var pts [][2]float64
		if err := n.Decode(&pts); err != nil {
			return nil, fmt.Errorf("line %d: points must be [x, y] pairs: %w", n.Line, err)
		}
		out := make([]Vec2, len(pts))
		for i, p := range pts {
			out[i] = Vec2{p[0], p[1]}
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: unsupported value", n.Line)
}
