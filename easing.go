package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// EaseFunc maps linear progress in [0, 1] to eased progress. Eased values may
// leave [0, 1] (back, elastic) but must return exactly 0 and 1 at the ends.
type EaseFunc func(p float64) float64

// FromTween adapts a gween easing function. The ends are pinned so float32
// rounding inside gween never leaks into start or end values.
func FromTween(fn ease.TweenFunc) EaseFunc {
	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		return float64(fn(float32(p), 0, 1, 1))
	}
}

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// Steps quantizes progress into n equal jumps, like CSS steps(n, end).
func Steps(n int) EaseFunc {
	if n < 1 {
		n = 1
	}
	return func(p float64) float64 {
		if p >= 1 {
			return 1
		}
		if p <= 0 {
			return 0
		}
		return math.Floor(p*float64(n)) / float64(n)
	}
}

// DefaultEase is applied when neither the Spec, the Property, nor the engine
// Config names an easing.
var DefaultEase = FromTween(ease.OutQuad)

var namedEases = map[string]ease.TweenFunc{
	"linear": ease.Linear,
	"none":   ease.Linear,

	"power1.in": ease.InQuad, "power1.out": ease.OutQuad, "power1.inout": ease.InOutQuad,
	"power2.in": ease.InCubic, "power2.out": ease.OutCubic, "power2.inout": ease.InOutCubic,
	"power3.in": ease.InQuart, "power3.out": ease.OutQuart, "power3.inout": ease.InOutQuart,
	"power4.in": ease.InQuint, "power4.out": ease.OutQuint, "power4.inout": ease.InOutQuint,

	"sine.in": ease.InSine, "sine.out": ease.OutSine, "sine.inout": ease.InOutSine,
	"expo.in": ease.InExpo, "expo.out": ease.OutExpo, "expo.inout": ease.InOutExpo,
	"circ.in": ease.InCirc, "circ.out": ease.OutCirc, "circ.inout": ease.InOutCirc,
	"back.in": ease.InBack, "back.out": ease.OutBack, "back.inout": ease.InOutBack,
	"elastic.in": ease.InElastic, "elastic.out": ease.OutElastic, "elastic.inout": ease.InOutElastic,
	"bounce.in": ease.InBounce, "bounce.out": ease.OutBounce, "bounce.inout": ease.InOutBounce,
}

// ParseEase resolves an easing name such as "power2.out", "sine.inOut",
// "bounce" (an ".out" default), or "steps(12)". Names are case-insensitive.
func ParseEase(name string) (EaseFunc, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("parse ease: empty name")
	}
	if strings.HasPrefix(key, "steps(") && strings.HasSuffix(key, ")") {
		n, err := strconv.Atoi(strings.TrimSpace(key[len("steps(") : len(key)-1]))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("parse ease %q: step count must be a positive integer", name)
		}
		return Steps(n), nil
	}
	// Parameter lists such as "elastic.out(1, 0.5)" are accepted but the
	// parameters are ignored; gween's curves are fixed.
	if i := strings.IndexByte(key, '('); i > 0 {
		key = key[:i]
	}
	if fn, ok := namedEases[key]; ok {
		if key == "linear" || key == "none" {
			return Linear, nil
		}
		return FromTween(fn), nil
	}
	if fn, ok := namedEases[key+".out"]; ok {
		return FromTween(fn), nil
	}
	return nil, fmt.Errorf("parse ease %q: unknown easing", name)
}
