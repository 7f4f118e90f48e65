package motion

import (
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "scrollTo", "x": 0, "y": 900, "duration": 0.5},
			{"action": "wait", "frames": 3}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Duration != 0.5 || runner.steps[2].Y != 900 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `not json`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`, `unknown action "teleport"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestTestRunnerScrollAndWait(t *testing.T) {
	s := newTestScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "scroll", "x": 0, "y": 300},
		{"action": "wait", "frames": 2},
		{"action": "scrollTo", "x": 0, "y": 0, "duration": 0.1}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	runFrames(t, s, 1)
	if s.Viewport().ScrollOffset().Y != 300 {
		t.Fatalf("scroll = %v, want 300", s.Viewport().ScrollOffset())
	}
	runFrames(t, s, 2) // wait
	if s.Viewport().ScrollOffset().Y != 300 || runner.Done() {
		t.Fatal("wait should hold the runner")
	}
	runFrames(t, s, 1)
	if !s.Viewport().Scrolling() {
		t.Fatal("scrollTo should animate")
	}
	runFrames(t, s, 10)
	if s.Viewport().ScrollOffset().Y != 0 {
		t.Errorf("scroll = %v, want 0", s.Viewport().ScrollOffset())
	}
	runFrames(t, s, 1)
	if !runner.Done() {
		t.Error("runner should be done once the scroll finishes")
	}
}

func TestTestRunnerClickReachesNode(t *testing.T) {
	s := newTestScene(t)
	box := addInteractableBox(s.Root(), "btn", 0, 0, 50, 50)
	clicks := 0
	box.OnClick = func(ClickContext) { clicks++ }
	runner, _ := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 10, "y": 10},
		{"action": "click", "x": 20, "y": 20}
	]}`))
	s.SetTestRunner(runner)
	runFrames(t, s, 6)
	if clicks != 2 {
		t.Errorf("clicks = %d, want 2", clicks)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}
