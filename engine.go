package motion

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Config configures an Engine. The zero value is usable.
type Config struct {
	// Logger receives target-loss warnings and debug traces. Nil logs
	// warnings and above to stderr.
	Logger *slog.Logger
	// DefaultEasing applies to specs that name no easing. Nil uses
	// DefaultEase (power1.out).
	DefaultEasing EaseFunc
	// Sink, if set, receives lifecycle events for every animation.
	Sink EventSink
}

// AnimationEventType identifies an animation lifecycle transition.
type AnimationEventType uint8

const (
	AnimationStarted   AnimationEventType = iota // pending to active
	AnimationCompleted                           // finished naturally
	AnimationKilled                              // Kill, KillAll, or overwritten
	AnimationLost                                // target left the document
)

func (t AnimationEventType) String() string {
	switch t {
	case AnimationStarted:
		return "started"
	case AnimationCompleted:
		return "completed"
	case AnimationKilled:
		return "killed"
	case AnimationLost:
		return "lost"
	default:
		return "unknown"
	}
}

// AnimationEvent is delivered to an EventSink.
type AnimationEvent struct {
	Type     AnimationEventType
	ID       uint64
	Target   Target
	Progress float64
}

// EventSink receives animation lifecycle events, synchronously within the
// engine call that caused them.
type EventSink interface {
	EmitAnimationEvent(event AnimationEvent)
}

type ownerKey struct {
	target Target
	field  string
}

// Engine owns a set of animations and advances them once per frame.
//
// An Engine is not safe for concurrent use. Hosts that drive it from more
// than one goroutine must serialize every call.
type Engine struct {
	log  *slog.Logger
	ease EaseFunc
	sink EventSink

	source    ScrollSource
	sub       Subscription
	scroll    Vec2
	view      Vec2
	layoutGen uint64

	now      time.Duration // engine clock, as of the last tick
	hasTick  bool
	ticking  bool
	needsGC  bool
	nextID   uint64
	anims    []*animation
	owners   map[ownerKey]*animation
	disposed bool
}

// NewEngine creates an engine. Call Init before registering scroll-bound
// animations.
func NewEngine(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	ease := cfg.DefaultEasing
	if ease == nil {
		ease = DefaultEase
	}
	return &Engine{
		log:    log.With("pkg", "motion"),
		ease:   ease,
		sink:   cfg.Sink,
		owners: make(map[ownerKey]*animation),
	}
}

// Init attaches the engine to a scroll source and subscribes to its change
// notifications. Calling Init again switches sources.
func (e *Engine) Init(source ScrollSource) error {
	if source == nil {
		return errors.New("motion: Init: nil scroll source")
	}
	if e.disposed {
		return errors.New("motion: Init: engine is disposed")
	}
	e.sub.Unsubscribe()
	e.source = source
	e.scroll = source.ScrollOffset()
	e.view = source.ViewportSize()
	e.layoutGen++
	e.sub = source.Subscribe(e.onViewport)
	return nil
}

func (e *Engine) onViewport(ev ViewportEvent) {
	switch ev.Kind {
	case ViewportScroll:
		e.scroll = ev.Offset
	case ViewportResize:
		e.scroll = ev.Offset
		e.view = ev.Size
		e.layoutGen++
	case ViewportLayout:
		e.layoutGen++
	}
}

// Refresh re-queries the scroll source and invalidates every cached scroll
// window. Hosts call it after layout changes the source did not announce.
func (e *Engine) Refresh() {
	if e.source != nil {
		e.scroll = e.source.ScrollOffset()
		e.view = e.source.ViewportSize()
	}
	e.layoutGen++
}

// Dispose kills every animation and releases the scroll subscription. The
// engine cannot be reused afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.KillAll()
	e.sub.Unsubscribe()
	e.source = nil
	e.disposed = true
}

// SetEventSink replaces the lifecycle event sink. Nil disables events.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
}

// Now returns the engine clock.
func (e *Engine) Now() time.Duration { return e.now }

// Len returns the number of pending and active animations.
func (e *Engine) Len() int {
	n := 0
	for _, a := range e.anims {
		if !a.done() {
			n++
		}
	}
	return n
}

// Register validates spec and adds it in the pending state. Properties it
// animates are taken over from any earlier animation of the same target.
// Time-based animations start counting at the next tick.
func (e *Engine) Register(spec Spec) (Handle, error) {
	if e.disposed {
		return Handle{}, errors.New("motion: Register: engine is disposed")
	}
	tracks, err := spec.compile(e.ease, e.source != nil)
	if err != nil {
		return Handle{}, err
	}
	e.nextID++
	a := &animation{
		id:         e.nextID,
		target:     spec.Target,
		tracks:     tracks,
		duration:   spec.Duration,
		delay:      spec.Delay,
		repeat:     spec.Repeat,
		yoyo:       spec.Yoyo,
		onStart:    spec.OnStart,
		onUpdate:   spec.OnUpdate,
		onComplete: spec.OnComplete,
	}
	if spec.Scroll != nil {
		a.scroll = newScrollBinding(*spec.Scroll)
	}

	for _, tr := range tracks {
		for _, f := range tr.fields {
			k := ownerKey{spec.Target, f}
			if prev := e.owners[k]; prev != nil && prev != a {
				e.release(prev, f)
			}
			e.owners[k] = a
		}
	}
	e.anims = append(e.anims, a)
	e.log.Debug("registered", "id", a.id, "target", targetName(a.target), "tracks", len(tracks))
	return Handle{anim: a, engine: e}, nil
}

// Kill removes the animation immediately. Its target is never written
// again. Killing a finished animation does nothing.
func (e *Engine) Kill(h Handle) {
	if h.anim == nil || h.engine != e || h.anim.done() {
		return
	}
	e.finish(h.anim, StateKilled, AnimationKilled)
	e.compact()
}

// KillAll removes every animation.
func (e *Engine) KillAll() {
	for _, a := range e.anims {
		if !a.done() {
			a.state = StateKilled
			e.emit(AnimationKilled, a)
		}
	}
	clear(e.owners)
	e.needsGC = true
	e.compact()
}

// Update advances the engine clock by dt and ticks.
func (e *Engine) Update(dt time.Duration) {
	e.Tick(e.now + dt)
}

// Tick advances every animation to engine time now, in registration order.
// Callbacks run synchronously; animations they register are first ticked on
// the next call. Tick does nothing when called from inside a callback.
func (e *Engine) Tick(now time.Duration) {
	if e.ticking || e.disposed {
		return
	}
	var dt time.Duration
	if e.hasTick && now > e.now {
		dt = now - e.now
	}
	e.hasTick = true
	e.now = now

	e.ticking = true
	n := len(e.anims)
	for i := 0; i < n; i++ {
		a := e.anims[i]
		if a.done() {
			continue
		}
		if !targetAlive(a.target) || (a.scroll != nil && a.scroll.spec.Trigger != nil && !targetAlive(a.scroll.spec.Trigger)) {
			e.lose(a)
			continue
		}
		switch {
		case a.scroll == nil:
			e.stepTime(a)
		case a.scroll.spec.Mode == ModeScrub:
			e.stepScrub(a, dt)
		default:
			e.stepDiscrete(a, dt)
		}
	}
	e.ticking = false
	e.compact()
}

func (e *Engine) stepTime(a *animation) {
	if !a.started {
		a.started, a.startAt = true, e.now
	}
	elapsed := e.now - a.startAt - a.delay
	if elapsed < 0 {
		return
	}
	p, done := a.timeProgress(elapsed)
	e.advance(a, p)
	if done && !a.done() {
		e.finish(a, StateCompleted, AnimationCompleted)
	}
}

// axis returns the scroll position along the binding's axis.
func (e *Engine) axis(b *scrollBinding) float64 {
	if b.spec.Horizontal {
		return e.scroll.X
	}
	return e.scroll.Y
}

func (e *Engine) stepScrub(a *animation, dt time.Duration) {
	b := a.scroll
	start, end := b.offsets(e.layoutGen, e.view)
	p := b.rawProgress(e.axis(b), start, end)
	if !b.spec.Extrapolate {
		p = clamp01(p)
	}

	if b.spec.Smoothing > 0 {
		switch {
		case !b.seen:
			b.smoothed = p
		case dt > 0:
			// Critically damped: no overshoot, settles within the lag.
			freq := 6 / b.spec.Smoothing.Seconds()
			spring := harmonica.NewSpring(dt.Seconds(), freq, 1)
			b.smoothed, b.velocity = spring.Update(b.smoothed, b.velocity, p)
			if math.Abs(b.smoothed-p) < 1e-4 && math.Abs(b.velocity) < 1e-3 {
				b.smoothed, b.velocity = p, 0
			}
		}
		p = b.smoothed
		if !b.spec.Extrapolate {
			p = clamp01(p)
		}
	}

	if b.seen && p == b.last {
		return
	}
	b.seen = true
	b.last = p
	e.advance(a, p)
}

func (e *Engine) stepDiscrete(a *animation, dt time.Duration) {
	b := a.scroll
	infinite := a.repeat == RepeatInfinite
	total := a.duration * time.Duration(a.repeat+1)
	if infinite {
		total = a.duration
	}

	if a.dir != 0 && dt > 0 {
		a.playhead += time.Duration(a.dir) * dt
		if a.playhead < 0 {
			a.playhead = 0
		}
		if !infinite && a.playhead > total {
			a.playhead = total
		}
	}

	start, end := b.offsets(e.layoutGen, e.view)
	r := regionOf(e.axis(b), start, end)
	prev := b.region
	if !b.seen {
		prev = regionBefore
		b.seen = true
	}
	b.region = r
	if r > prev {
		if prev == regionBefore {
			a.toggle(b.actions.Enter, total)
		}
		if r == regionAfter {
			a.toggle(b.actions.Leave, total)
		}
	} else if r < prev {
		if prev == regionAfter {
			a.toggle(b.actions.EnterBack, total)
		}
		if r == regionBefore {
			a.toggle(b.actions.LeaveBack, total)
		}
	}
	if !a.triggered {
		return
	}

	p, ended := a.timeProgress(a.playhead)
	if !infinite && a.playhead >= total {
		ended = true
	}
	b.last = p
	e.advance(a, p)
	if ended && !a.done() && !b.actions.replays() {
		e.finish(a, StateCompleted, AnimationCompleted)
	}
}

func (a *animation) toggle(act ToggleAction, total time.Duration) {
	switch act {
	case ActionNone:
		return
	case ActionPlay:
		a.dir = 1
	case ActionPause:
		a.dir = 0
	case ActionResume:
		a.dir = a.lastDir
		if a.dir == 0 {
			a.dir = 1
		}
	case ActionReverse:
		a.dir = -1
	case ActionRestart:
		a.playhead, a.dir = 0, 1
	case ActionReset:
		a.playhead, a.dir = 0, 0
	case ActionComplete:
		a.playhead, a.dir = total, 0
	}
	if a.dir != 0 {
		a.lastDir = a.dir
	}
	a.triggered = true
}

// advance applies p and fires the lifecycle callbacks it implies.
func (e *Engine) advance(a *animation, p float64) {
	a.apply(p)
	if a.state == StatePending && p != 0 {
		a.state = StateActive
		e.emit(AnimationStarted, a)
		if a.onStart != nil {
			a.onStart()
		}
	}
	if a.onUpdate != nil && !a.done() {
		a.onUpdate(p)
	}
}

func (e *Engine) lose(a *animation) {
	err := &TargetLostError{ID: a.id, Target: targetName(a.target)}
	e.log.Warn("animation killed", "err", err)
	e.finish(a, StateKilled, AnimationLost)
}

// finish moves a to a terminal state and releases its properties. Removal
// from the set waits for compact so a running Tick keeps its indices.
func (e *Engine) finish(a *animation, state State, ev AnimationEventType) {
	if state == StateCompleted && a.state == StatePending {
		a.state = StateActive
		e.emit(AnimationStarted, a)
		if a.onStart != nil {
			a.onStart()
		}
	}
	a.state = state
	for _, tr := range a.tracks {
		e.disown(a, tr)
	}
	e.needsGC = true
	e.emit(ev, a)
	if state == StateCompleted && a.onComplete != nil {
		a.onComplete()
	}
}

// release takes field away from a along with the rest of the track that
// writes it. An animation left with nothing to write is killed.
func (e *Engine) release(a *animation, field string) {
	tr, ok := a.removeTrack(field)
	if !ok {
		return
	}
	e.disown(a, tr)
	if len(a.tracks) == 0 {
		e.finish(a, StateKilled, AnimationKilled)
	}
}

func (e *Engine) disown(a *animation, tr track) {
	for _, f := range tr.fields {
		k := ownerKey{a.target, f}
		if e.owners[k] == a {
			delete(e.owners, k)
		}
	}
}

func (e *Engine) emit(t AnimationEventType, a *animation) {
	if e.sink != nil {
		e.sink.EmitAnimationEvent(AnimationEvent{Type: t, ID: a.id, Target: a.target, Progress: a.progress})
	}
}

func (e *Engine) compact() {
	if e.ticking || !e.needsGC {
		return
	}
	live := e.anims[:0]
	for _, a := range e.anims {
		if !a.done() {
			live = append(live, a)
		}
	}
	clear(e.anims[len(live):])
	e.anims = live
	e.needsGC = false
}

// QuickTo returns a setter that animates property toward each value it is
// given, starting from wherever the property currently is. Each call
// supersedes the previous one. The target must already expose property.
// Calls made after the target left the document are ignored.
func (e *Engine) QuickTo(target Target, property string, duration time.Duration, easing EaseFunc) (func(float64), error) {
	if target == nil {
		return nil, invalid("Target", "missing target")
	}
	if _, ok := target.Property(property); !ok {
		return nil, invalid("Properties["+property+"]", "the target has no such property")
	}
	if duration <= 0 {
		return nil, invalid("Duration", "must be positive, got %v", duration)
	}
	return func(v float64) {
		if !targetAlive(target) {
			return
		}
		_, err := e.Register(Spec{
			Target:     target,
			Properties: []Property{To(property, v)},
			Duration:   duration,
			Easing:     easing,
		})
		if err != nil {
			e.log.Warn("quickTo", "property", property, "err", err)
		}
	}, nil
}
