package motion

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fade(tgt Target, d time.Duration) Spec {
	return Spec{Target: tgt, Properties: []Property{FromTo("opacity", 0.0, 1.0)}, Duration: d}
}

func TestStagger(t *testing.T) {
	targets := []Target{newFakeTarget("a", nil), newFakeTarget("b", nil), newFakeTarget("c", nil)}
	base := fade(nil, time.Second)
	base.Delay = 100 * time.Millisecond
	specs := Stagger(base, targets, 50*time.Millisecond)

	var delays []time.Duration
	for i, s := range specs {
		if s.Target != targets[i] {
			t.Errorf("spec %d target = %v", i, s.Target)
		}
		delays = append(delays, s.Delay)
	}
	want := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 200 * time.Millisecond}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Errorf("delays (-want +got):\n%s", diff)
	}
}

func TestTimelinePositions(t *testing.T) {
	a, b, c, d := newFakeTarget("a", nil), newFakeTarget("b", nil), newFakeTarget("c", nil), newFakeTarget("d", nil)
	var tl Timeline
	tl.Add(fade(a, time.Second), After(0)).
		Add(fade(b, 500*time.Millisecond), Overlap(250*time.Millisecond)).
		Add(fade(c, time.Second), WithPrevious()).
		Add(fade(d, 200*time.Millisecond), AtTime(100*time.Millisecond))

	var starts []time.Duration
	for _, s := range tl.Specs() {
		starts = append(starts, s.Delay)
	}
	want := []time.Duration{0, 750 * time.Millisecond, 750 * time.Millisecond, 100 * time.Millisecond}
	if diff := cmp.Diff(want, starts); diff != "" {
		t.Errorf("starts (-want +got):\n%s", diff)
	}
	if got := tl.Duration(); got != 1750*time.Millisecond {
		t.Errorf("Duration = %v, want 1.75s", got)
	}
}

func TestTimelineCountsRepeatsAndDelay(t *testing.T) {
	s := fade(newFakeTarget("a", nil), 100*time.Millisecond)
	s.Repeat = 2
	s.Delay = 50 * time.Millisecond
	var tl Timeline
	tl.Add(s, After(0))
	if got := tl.Duration(); got != 350*time.Millisecond {
		t.Errorf("Duration = %v, want 350ms", got)
	}
}

func TestTimelineNegativeStartClamps(t *testing.T) {
	var tl Timeline
	tl.Add(fade(newFakeTarget("a", nil), time.Second), After(-5*time.Second))
	if got := tl.Specs()[0].Delay; got != 0 {
		t.Errorf("Delay = %v, want 0", got)
	}
}

func TestTimelineRegisterPlaysInSequence(t *testing.T) {
	e, _ := newTestEngine(t, Config{DefaultEasing: Linear})
	a, b := newFakeTarget("a", nil), newFakeTarget("b", nil)
	var tl Timeline
	tl.Add(fade(a, time.Second), After(0)).Add(fade(b, time.Second), After(0))
	handles, err := tl.Register(e)
	if err != nil {
		t.Fatal(err)
	}
	if len(handles) != 2 {
		t.Fatalf("handles = %d, want 2", len(handles))
	}
	e.Tick(0)
	e.Tick(500 * time.Millisecond)
	if a.float("opacity") != 0.5 || len(b.writes) != 0 {
		t.Errorf("at 0.5s: a %v, b writes %d", a.float("opacity"), len(b.writes))
	}
	e.Tick(1500 * time.Millisecond)
	if a.float("opacity") != 1 || b.float("opacity") != 0.5 {
		t.Errorf("at 1.5s: a %v b %v", a.float("opacity"), b.float("opacity"))
	}
}

func TestTimelineRegisterRollsBack(t *testing.T) {
	e, _ := newTestEngine(t, Config{})
	var tl Timeline
	tl.Add(fade(newFakeTarget("a", nil), time.Second), After(0)).
		Add(fade(newFakeTarget("b", nil), 0), After(0))
	if _, err := tl.Register(e); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("err = %v, want ErrInvalidSpec", err)
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d, want the partial timeline killed", e.Len())
	}
}

func TestTimelineRejectsScrollSpecs(t *testing.T) {
	e, _ := newTestEngine(t, Config{})
	s := fade(newFakeTarget("a", nil), time.Second)
	s.Scroll = &ScrollSpec{Start: At(0), End: At(10)}
	var tl Timeline
	tl.Add(s, After(0)).Add(fade(newFakeTarget("b", nil), time.Second), After(0))
	if _, err := tl.Register(e); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("err = %v, want ErrInvalidSpec", err)
	}
	if len(tl.entries) != 0 {
		t.Error("entries added after an error should be dropped")
	}
}

func TestTimelineEmpty(t *testing.T) {
	e, _ := newTestEngine(t, Config{})
	var tl Timeline
	if _, err := tl.Register(e); err == nil {
		t.Error("registering an empty timeline should fail")
	}
}
