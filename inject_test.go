package motion

import "testing"

func TestInjectQueueOneEventPerFrame(t *testing.T) {
	s := newTestScene(t)
	s.InjectClick(10, 10)
	s.InjectWheel(0, -1)
	if len(s.injectQueue) != 3 {
		t.Fatalf("queue = %d, want 3", len(s.injectQueue))
	}
	runFrames(t, s, 1)
	if len(s.injectQueue) != 2 || !s.pointer.down {
		t.Errorf("after one frame: queue %d down %v", len(s.injectQueue), s.pointer.down)
	}
	runFrames(t, s, 2)
	if len(s.injectQueue) != 0 || s.pointer.down {
		t.Errorf("after three frames: queue %d down %v", len(s.injectQueue), s.pointer.down)
	}
	if s.Viewport().ScrollOffset().Y != defaultWheelScale {
		t.Errorf("scroll = %v", s.Viewport().ScrollOffset())
	}
}

func TestInjectDragFrames(t *testing.T) {
	s := newTestScene(t)
	s.InjectDrag(0, 0, 100, 50, 6)
	q := s.injectQueue
	if len(q) != 6 {
		t.Fatalf("queue = %d, want 6", len(q))
	}
	if !q[0].pressed || q[5].pressed {
		t.Error("drag should open with a press and close with a release")
	}
	if q[2].x != 40 || q[2].y != 20 {
		t.Errorf("second move at (%v, %v), want (40, 20)", q[2].x, q[2].y)
	}

	s.injectQueue = nil
	s.InjectDrag(0, 0, 10, 10, 0)
	if len(s.injectQueue) != 2 {
		t.Errorf("minimum drag = %d events, want 2", len(s.injectQueue))
	}
}

func TestInjectResize(t *testing.T) {
	s := newTestScene(t)
	var kinds []ViewportEventKind
	s.Viewport().Subscribe(func(e ViewportEvent) { kinds = append(kinds, e.Kind) })
	s.InjectResize(1024, 768)
	runFrames(t, s, 1)
	if s.Viewport().ViewportSize() != (Vec2{1024, 768}) {
		t.Errorf("size = %v", s.Viewport().ViewportSize())
	}
	if len(kinds) != 1 || kinds[0] != ViewportResize {
		t.Errorf("events = %v, want one resize", kinds)
	}
}

func TestInjectedWheelDrivesScrub(t *testing.T) {
	s := newTestScene(t)
	box := NewBox("box", 100, 100, ColorWhite)
	s.Root().AddChild(box)
	if _, err := s.Animate(Spec{
		Target:     box,
		Properties: []Property{FromTo("x", 0.0, 100.0)},
		Easing:     Linear,
		Scroll:     &ScrollSpec{Start: At(0), End: At(400)},
	}); err != nil {
		t.Fatal(err)
	}
	s.InjectWheel(0, -5)
	runFrames(t, s, 1)
	if !approxEqual(box.X, 50, epsilon) {
		t.Errorf("x = %v, want 50 after scrolling 200px", box.X)
	}
}
