package motion

type syntheticKind uint8

const (
	synthPointer syntheticKind = iota
	synthWheel
	synthResize
)

// syntheticEvent is one queued input event. Pointer coordinates are in
// screen space, exactly like real mouse input.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64 // pointer position, wheel delta, or new viewport size
	pressed bool
	button  MouseButton
}

// InjectPress queues a left-button press at the given screen coordinates.
// Each queued event is consumed by one frame.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: synthPointer, x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: synthPointer, x: x, y: y, pressed: true})
}

// InjectHover queues a pointer move with no button held.
func (s *Scene) InjectHover(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: synthPointer, x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: synthPointer, x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves,
// and a release at (toX, toY). Minimum frames is 2.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues wheel input in ticks. Positive dy scrolls up.
func (s *Scene) InjectWheel(dx, dy float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: synthWheel, x: dx, y: dy})
}

// InjectResize queues a viewport resize.
func (s *Scene) InjectResize(width, height float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: synthResize, x: width, y: height})
}

// processInjectedInput pops one queued event and feeds it through the same
// path as device input. It reports whether an event was consumed, in which
// case device input is skipped for the frame.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch ev.kind {
	case synthPointer:
		s.processPointer(ev.x, ev.y, ev.pressed, ev.button, 0)
	case synthWheel:
		s.processWheel(ev.x, ev.y, 0)
	case synthResize:
		s.viewport.Resize(ev.x, ev.y)
	}
	return true
}
