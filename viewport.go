package motion

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds an active ScrollTo tween per axis.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport is the window onto the document and the reference ScrollSource.
// X and Y are the document-space position of its top-left corner.
type Viewport struct {
	x, y          float64
	width, height float64

	// CullEnabled skips nodes whose document box misses the visible area.
	CullEnabled bool

	boundsEnabled bool
	bounds        Rect

	scrollTween *scrollAnim

	subs   map[uint32]func(ViewportEvent)
	order  []uint32
	nextID uint32
}

// NewViewport creates a viewport of the given size scrolled to the origin.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		width:       width,
		height:      height,
		CullEnabled: true,
		subs:        make(map[uint32]func(ViewportEvent)),
	}
}

// ScrollOffset returns the current scroll position.
func (v *Viewport) ScrollOffset() Vec2 { return Vec2{v.x, v.y} }

// ViewportSize returns the visible extent.
func (v *Viewport) ViewportSize() Vec2 { return Vec2{v.width, v.height} }

// Subscribe registers fn for scroll, resize and layout notifications.
// Listeners run synchronously in subscription order.
func (v *Viewport) Subscribe(fn func(ViewportEvent)) Subscription {
	v.nextID++
	id := v.nextID
	v.subs[id] = fn
	v.order = append(v.order, id)
	return NewSubscription(func() {
		delete(v.subs, id)
		for i, o := range v.order {
			if o == id {
				v.order = append(v.order[:i], v.order[i+1:]...)
				break
			}
		}
	})
}

func (v *Viewport) notify(kind ViewportEventKind) {
	ev := ViewportEvent{Kind: kind, Offset: v.ScrollOffset(), Size: v.ViewportSize()}
	// Listeners may unsubscribe while being notified.
	ids := append([]uint32(nil), v.order...)
	for _, id := range ids {
		if fn, ok := v.subs[id]; ok {
			fn(ev)
		}
	}
}

// SetScroll jumps to a scroll position, clamped to the content bounds, and
// cancels any ScrollTo in flight.
func (v *Viewport) SetScroll(x, y float64) {
	v.scrollTween = nil
	v.setScroll(x, y)
}

func (v *Viewport) setScroll(x, y float64) {
	x, y = v.clamp(x, y)
	if x == v.x && y == v.y {
		return
	}
	v.x, v.y = x, y
	v.notify(ViewportScroll)
}

// ScrollBy scrolls relative to the current position.
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.SetScroll(v.x+dx, v.y+dy)
}

// ScrollTo animates the scroll position to (x, y). A non-positive duration
// jumps immediately.
func (v *Viewport) ScrollTo(x, y float64, duration time.Duration, easeFn ease.TweenFunc) {
	if duration <= 0 {
		v.SetScroll(x, y)
		return
	}
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	x, y = v.clamp(x, y)
	d := float32(duration.Seconds())
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.x), float32(x), d, easeFn),
		tweenY: gween.New(float32(v.y), float32(y), d, easeFn),
	}
}

// ScrollToTarget animates to the scroll position at which rule is reached
// for trigger, so that a binding using the same rule sits exactly at its
// edge. Horizontal rules scroll x; everything else scrolls y.
func (v *Viewport) ScrollToTarget(trigger Target, rule OffsetRule, horizontal bool, duration time.Duration, easeFn ease.TweenFunc) {
	box := trigger.BoundingBox()
	if horizontal {
		v.ScrollTo(rule.resolve(box.X, box.Width, v.width), v.y, duration, easeFn)
		return
	}
	v.ScrollTo(v.x, rule.resolve(box.Y, box.Height, v.height), duration, easeFn)
}

// Scrolling reports whether a ScrollTo is in flight.
func (v *Viewport) Scrolling() bool { return v.scrollTween != nil }

// Resize changes the visible extent.
func (v *Viewport) Resize(width, height float64) {
	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height
	v.x, v.y = v.clamp(v.x, v.y)
	v.notify(ViewportResize)
}

// NotifyLayout tells subscribers that document layout changed, so cached
// scroll windows are stale.
func (v *Viewport) NotifyLayout() {
	v.notify(ViewportLayout)
}

// SetBounds limits scrolling so the visible area stays within the document
// rectangle r.
func (v *Viewport) SetBounds(r Rect) {
	v.boundsEnabled = true
	v.bounds = r
	v.setScroll(v.x, v.y)
}

// ClearBounds removes the scroll limits.
func (v *Viewport) ClearBounds() {
	v.boundsEnabled = false
}

// update advances a ScrollTo in flight by dt.
func (v *Viewport) update(dt time.Duration) {
	t := v.scrollTween
	if t == nil {
		return
	}
	x, y := v.x, v.y
	step := float32(dt.Seconds())
	if !t.doneX {
		val, done := t.tweenX.Update(step)
		x, t.doneX = float64(val), done
	}
	if !t.doneY {
		val, done := t.tweenY.Update(step)
		y, t.doneY = float64(val), done
	}
	if t.doneX && t.doneY {
		v.scrollTween = nil
	}
	v.setScroll(x, y)
}

func (v *Viewport) clamp(x, y float64) (float64, float64) {
	if !v.boundsEnabled {
		return x, y
	}
	return clampAxis(x, v.bounds.X, v.bounds.Width, v.width),
		clampAxis(y, v.bounds.Y, v.bounds.Height, v.height)
}

// clampAxis keeps [p, p+view] inside [lo, lo+size]. Content smaller than the
// view pins to its start.
func clampAxis(p, lo, size, view float64) float64 {
	hi := lo + size - view
	if hi < lo {
		return lo
	}
	return max(lo, min(p, hi))
}

// DocumentToScreen converts a document-space point to screen space.
func (v *Viewport) DocumentToScreen(x, y float64) (float64, float64) {
	return x - v.x, y - v.y
}

// ScreenToDocument converts a screen-space point to document space.
func (v *Viewport) ScreenToDocument(x, y float64) (float64, float64) {
	return x + v.x, y + v.y
}

// VisibleBounds returns the visible area in document space.
func (v *Viewport) VisibleBounds() Rect {
	return Rect{X: v.x, Y: v.y, Width: v.width, Height: v.height}
}

// viewMatrix maps document space to screen space.
func (v *Viewport) viewMatrix() matrix {
	return matrix{1, 0, 0, 1, -v.x, -v.y}
}
