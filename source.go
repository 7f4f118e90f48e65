package motion

// ViewportEventKind distinguishes viewport change notifications.
type ViewportEventKind uint8

const (
	ViewportScroll ViewportEventKind = iota // scroll offset changed
	ViewportResize                          // viewport size changed
	ViewportLayout                          // document layout changed; offsets are stale
)

// ViewportEvent is delivered to ScrollSource subscribers.
type ViewportEvent struct {
	Kind   ViewportEventKind
	Offset Vec2
	Size   Vec2
}

// ScrollSource provides the scroll position and viewport size an Engine
// resolves scroll bindings against. The engine subscribes once in Init and
// re-queries on demand in Refresh.
type ScrollSource interface {
	ScrollOffset() Vec2
	ViewportSize() Vec2
	Subscribe(fn func(ViewportEvent)) Subscription
}

// Subscription releases a listener registered with a ScrollSource or Scene.
type Subscription struct {
	cancel func()
}

// NewSubscription wraps a cancel function. ScrollSource implementations
// outside this package use it to build their Subscribe results.
func NewSubscription(cancel func()) Subscription {
	return Subscription{cancel: cancel}
}

// Unsubscribe releases the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}
