package motion

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestColorInterpolatorEnds(t *testing.T) {
	red := Color{1, 0, 0, 1}
	blue := Color{0, 0, 1, 0.5}
	if got := ColorInterpolator.Interpolate(red, blue, 0); got != red {
		t.Errorf("t=0: %v, want %v", got, red)
	}
	if got := ColorInterpolator.Interpolate(red, blue, 1); got != blue {
		t.Errorf("t=1: %v, want %v", got, blue)
	}
	mid := ColorInterpolator.Interpolate(red, blue, 0.5).(Color)
	if !approxEqual(mid.A, 0.75, epsilon) {
		t.Errorf("mid alpha = %v, want 0.75", mid.A)
	}
	for _, c := range []float64{mid.R, mid.G, mid.B} {
		if c < 0 || c > 1 {
			t.Errorf("mid channel %v out of range", c)
		}
	}
	// Lab blending keeps the midpoint brighter than a plain RGB average.
	if mid.R+mid.G+mid.B <= 1 {
		t.Errorf("mid = %+v, want a Lab midpoint", mid)
	}
}

func TestPointsInterpolator(t *testing.T) {
	from := []Vec2{{0, 0}, {10, 0}, {10, 10}}
	to := []Vec2{{0, 0}, {20, 0}, {20, 20}}
	got := PointsInterpolator.Interpolate(from, to, 0.5).([]Vec2)
	want := []Vec2{{0, 0}, {15, 0}, {15, 15}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("morph (-want +got):\n%s", diff)
	}
	if err := PointsInterpolator.(checker).Check(from, to[:2]); err == nil {
		t.Error("Check should reject shapes of different sizes")
	}
	got[1].X = -1
	if from[1].X != 10 {
		t.Error("Interpolate must not alias its input")
	}
	end := PointsInterpolator.Interpolate(from, to, 1).([]Vec2)
	end[2].Y = -1
	if to[2].Y != 20 {
		t.Error("the end shape must not alias the to value")
	}
}

func TestShapeMorphKeepsEndShape(t *testing.T) {
	e, _ := newTestEngine(t, Config{})
	shape := NewShape("s", []Vec2{{0, 0}, {10, 0}, {10, 10}}, ColorWhite)
	end := []Vec2{{0, 0}, {20, 0}, {20, 20}}
	if _, err := e.Register(Spec{Target: shape, Properties: []Property{To("points", end)}, Duration: time.Second}); err != nil {
		t.Fatal(err)
	}
	e.Tick(0)
	e.Tick(time.Second)
	shape.Points[1].X = 99
	if end[1].X != 20 {
		t.Errorf("editing the node changed the animation's end shape: %v", end)
	}
}

func TestVec2Interpolator(t *testing.T) {
	got := Vec2Interpolator.Interpolate(Vec2{0, 0}, Vec2{10, -10}, 0.3).(Vec2)
	if !approxEqual(got.X, 3, epsilon) || !approxEqual(got.Y, -3, epsilon) {
		t.Errorf("Interpolate = %v, want {3 -3}", got)
	}
	if err := Vec2Interpolator.(checker).Check(1.0, Vec2{}); err == nil {
		t.Error("Check should reject a non-Vec2 from value")
	}
}

func TestPathInterpolator(t *testing.T) {
	if _, err := NewPathInterpolator([]Vec2{{0, 0}}); err == nil {
		t.Error("a single point is not a path")
	}
	path, err := NewPathInterpolator([]Vec2{{0, 0}, {30, 0}, {30, 10}})
	if err != nil {
		t.Fatal(err)
	}
	if path.Length() != 40 {
		t.Errorf("Length = %v, want 40", path.Length())
	}
	tests := []struct {
		t    float64
		want Vec2
	}{
		{0, Vec2{0, 0}},
		{0.5, Vec2{20, 0}},
		{0.875, Vec2{30, 5}},
		{1, Vec2{30, 10}},
		{1.5, Vec2{30, 10}},
	}
	opt := cmpopts.EquateApprox(0, 1e-9)
	for _, tt := range tests {
		got := path.Interpolate(nil, nil, tt.t).(Vec2)
		if diff := cmp.Diff(tt.want, got, opt); diff != "" {
			t.Errorf("t=%v (-want +got):\n%s", tt.t, diff)
		}
	}
}

func TestPathInterpolatorDrivesPosition(t *testing.T) {
	e, _ := newTestEngine(t, Config{DefaultEasing: Linear})
	n := NewBox("dot", 4, 4, ColorWhite)
	path, _ := NewPathInterpolator([]Vec2{{0, 0}, {100, 0}})
	if _, err := e.Register(Spec{
		Target:     n,
		Properties: []Property{{Name: "position", From: 0.0, To: 1.0, Interpolator: path}},
		Duration:   1e9,
	}); err != nil {
		t.Fatal(err)
	}
	e.Tick(0)
	e.Tick(250e6)
	if n.X != 25 || n.Y != 0 {
		t.Errorf("position = (%v, %v), want (25, 0)", n.X, n.Y)
	}
}

func TestCustomInterpolatorFunc(t *testing.T) {
	e, _ := newTestEngine(t, Config{DefaultEasing: Linear})
	tgt := newFakeTarget("t", nil)
	label := InterpolatorFunc(func(from, to any, t float64) any {
		if t < 0.5 {
			return from
		}
		return to
	})
	if _, err := e.Register(Spec{
		Target:     tgt,
		Properties: []Property{{Name: "text", From: "off", To: "on", Interpolator: label}},
		Duration:   1e9,
	}); err != nil {
		t.Fatal(err)
	}
	e.Tick(0)
	e.Tick(400e6)
	if tgt.props["text"] != "off" {
		t.Errorf("text = %v, want off", tgt.props["text"])
	}
	e.Tick(600e6)
	if tgt.props["text"] != "on" {
		t.Errorf("text = %v, want on", tgt.props["text"])
	}
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{1.5, float32(1.5), 3, int32(3), int64(3), uint8(3), uint32(3)} {
		if _, ok := toFloat(v); !ok {
			t.Errorf("toFloat(%T) not numeric", v)
		}
	}
	if _, ok := toFloat("1"); ok {
		t.Error("strings are not numeric")
	}
}

func TestLerpExact(t *testing.T) {
	a, b := 0.1, 0.7
	if lerpExact(a, b, 1) != b || lerpExact(a, b, 0) != a {
		t.Error("lerpExact must reproduce its ends")
	}
	if got := lerpExact(a, b, 0.5); math.Abs(got-0.4) > epsilon {
		t.Errorf("lerpExact(0.5) = %v, want 0.4", got)
	}
}
