package motion

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestParseEaseNames(t *testing.T) {
	names := []string{
		"linear", "none", "power1.in", "Power2.InOut", "power3.out", "power4.inout",
		"sine.in", "expo.inOut", "circ.out", "back.in", "elastic.out(1, 0.3)",
		"bounce", "power2", "steps(4)",
	}
	for _, name := range names {
		fn, err := ParseEase(name)
		if err != nil {
			t.Errorf("ParseEase(%q): %v", name, err)
			continue
		}
		if fn(0) != 0 || fn(1) != 1 {
			t.Errorf("%q: f(0) = %v, f(1) = %v, want exact 0 and 1", name, fn(0), fn(1))
		}
	}
}

func TestParseEaseErrors(t *testing.T) {
	for _, name := range []string{"", "wobble", "steps(0)", "steps(x)", "power9.out"} {
		if _, err := ParseEase(name); err == nil {
			t.Errorf("ParseEase(%q) succeeded, want error", name)
		}
	}
}

func TestParseEaseBareNameIsOut(t *testing.T) {
	bare, _ := ParseEase("expo")
	out, _ := ParseEase("expo.out")
	for _, p := range []float64{0.1, 0.4, 0.8} {
		if bare(p) != out(p) {
			t.Errorf("expo(%v) = %v, expo.out = %v", p, bare(p), out(p))
		}
	}
}

func TestFromTweenMatchesGween(t *testing.T) {
	fn := FromTween(ease.InOutCubic)
	for _, p := range []float64{0.25, 0.5, 0.75} {
		want := float64(ease.InOutCubic(float32(p), 0, 1, 1))
		if got := fn(p); got != want {
			t.Errorf("FromTween(InOutCubic)(%v) = %v, want %v", p, got, want)
		}
	}
	if fn(-1) != 0 || fn(2) != 1 {
		t.Error("FromTween should pin values outside [0, 1] to the ends")
	}
}

func TestSteps(t *testing.T) {
	fn := Steps(4)
	tests := []struct{ in, want float64 }{
		{0, 0}, {0.2, 0}, {0.25, 0.25}, {0.49, 0.25}, {0.99, 0.75}, {1, 1},
	}
	for _, tt := range tests {
		if got := fn(tt.in); got != tt.want {
			t.Errorf("Steps(4)(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Steps(0)(0.5) != 0 {
		t.Error("Steps(0) should behave as a single step")
	}
}

func TestBackOvershoots(t *testing.T) {
	fn, _ := ParseEase("back.out")
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = max(peak, fn(float64(i)/100))
	}
	if peak <= 1 {
		t.Errorf("back.out peak = %v, want overshoot past 1", peak)
	}
}
