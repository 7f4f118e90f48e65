package motion

import (
	"slices"
	"time"
)

// animation is the engine-side state of a registered Spec. Only the engine
// mutates it.
type animation struct {
	id     uint64
	target Target
	tracks []track

	duration time.Duration
	delay    time.Duration
	startAt  time.Duration // engine clock at the first tick that saw it
	started  bool
	repeat   int
	yoyo     bool

	scroll *scrollBinding

	state    State
	progress float64

	onStart    func()
	onUpdate   func(float64)
	onComplete func()

	// Discrete playback. dir is +1 forward, -1 backward, 0 paused; lastDir
	// remembers the direction for ActionResume.
	playhead  time.Duration
	dir       int
	lastDir   int
	triggered bool
}

func (a *animation) done() bool {
	return a.state == StateCompleted || a.state == StateKilled
}

// timeProgress maps time since the animation's first cycle began onto
// progress. Odd cycles run backward under yoyo. Once the last finite cycle
// ends the animation rests where that cycle ended.
func (a *animation) timeProgress(elapsed time.Duration) (float64, bool) {
	if elapsed <= 0 {
		return 0, false
	}
	cycle := int64(elapsed / a.duration)
	if a.repeat != RepeatInfinite && cycle > int64(a.repeat) {
		if a.yoyo && a.repeat%2 == 1 {
			return 0, true
		}
		return 1, true
	}
	p := float64(elapsed%a.duration) / float64(a.duration)
	if a.yoyo && cycle%2 == 1 {
		p = 1 - p
	}
	return p, false
}

// removeTrack drops the track that writes field and returns it.
func (a *animation) removeTrack(field string) (track, bool) {
	for i := range a.tracks {
		if slices.Contains(a.tracks[i].fields, field) {
			tr := a.tracks[i]
			a.tracks = append(a.tracks[:i], a.tracks[i+1:]...)
			return tr, true
		}
	}
	return track{}, false
}

func (a *animation) apply(p float64) {
	for i := range a.tracks {
		a.target.SetProperty(a.tracks[i].name, a.tracks[i].value(p))
	}
	a.progress = p
}

// Handle refers to a registered animation. The zero Handle refers to nothing;
// its methods report a killed animation and Kill is a no-op.
type Handle struct {
	anim   *animation
	engine *Engine
}

// ID returns the animation's engine-unique id, or 0 for the zero Handle.
func (h Handle) ID() uint64 {
	if h.anim == nil {
		return 0
	}
	return h.anim.id
}

// Kill stops the animation immediately. Safe to call more than once.
func (h Handle) Kill() {
	if h.engine != nil {
		h.engine.Kill(h)
	}
}

// State returns the animation's lifecycle state.
func (h Handle) State() State {
	if h.anim == nil {
		return StateKilled
	}
	return h.anim.state
}

// Progress returns the progress applied at the last tick.
func (h Handle) Progress() float64 {
	if h.anim == nil {
		return 0
	}
	return h.anim.progress
}

// Alive reports whether the animation is still pending or active.
func (h Handle) Alive() bool {
	return h.anim != nil && !h.anim.done()
}
