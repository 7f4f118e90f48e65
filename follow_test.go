package motion

import (
	"errors"
	"testing"
	"time"
)

func TestFollowerConverges(t *testing.T) {
	tgt := newFakeTarget("dot", map[string]any{"x": 0.0})
	f, err := NewFollower(tgt, "x", 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Settled() {
		t.Error("a new follower rests on its start value")
	}
	f.SetGoal(100)

	prev := 0.0
	for range 300 {
		f.Update(16 * time.Millisecond)
		x := tgt.float("x")
		if x < prev || x > 100 {
			t.Fatalf("critically damped follower moved from %v to %v", prev, x)
		}
		prev = x
		if f.Settled() {
			break
		}
	}
	if !f.Settled() || tgt.float("x") != 100 || f.Value() != 100 {
		t.Errorf("settled %v x %v", f.Settled(), tgt.float("x"))
	}

	writes := len(tgt.writes)
	f.Update(16 * time.Millisecond)
	if len(tgt.writes) != writes {
		t.Error("a settled follower should not write")
	}
}

func TestFollowerKeepsVelocityOnRetarget(t *testing.T) {
	tgt := newFakeTarget("dot", map[string]any{"x": 0.0})
	f, _ := NewFollower(tgt, "x", 8, 1)
	f.SetGoal(100)
	for range 5 {
		f.Update(16 * time.Millisecond)
	}
	v := f.vel
	f.SetGoal(200)
	if f.vel != v || f.vel <= 0 {
		t.Errorf("velocity %v after retarget, want %v", f.vel, v)
	}
	if f.Goal() != 200 {
		t.Errorf("Goal = %v", f.Goal())
	}
}

func TestFollowerSkipsDeadTargets(t *testing.T) {
	tgt := newFakeTarget("dot", map[string]any{"x": 0.0})
	f, _ := NewFollower(tgt, "x", 8, 1)
	f.SetGoal(10)
	tgt.dead = true
	f.Update(16 * time.Millisecond)
	if len(tgt.writes) != 0 {
		t.Error("dead targets must not be written")
	}
}

func TestNewFollowerValidation(t *testing.T) {
	tgt := newFakeTarget("dot", map[string]any{"x": 0.0, "label": "hi"})
	tests := []struct {
		name     string
		target   Target
		property string
		freq     float64
	}{
		{"nil target", nil, "x", 5},
		{"missing property", tgt, "y", 5},
		{"not numeric", tgt, "label", 5},
		{"zero frequency", tgt, "x", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFollower(tt.target, tt.property, tt.freq, 1); !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("err = %v, want ErrInvalidSpec", err)
			}
		})
	}
}
