package motion

import (
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultDragDeadZone = 4.0  // pixels
	defaultWheelScale   = 40.0 // pixels per wheel tick
	defaultCommandCap   = 256
)

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return Rect(r).Contains(x, y)
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.CenterX, y-c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates, in either
// winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) is on the same side of every edge.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := range n {
		a, b := p.Points[i], p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Pointer state ---

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	dragging  bool
	button    MouseButton // captured at press time
}

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

type handlerRegistry struct {
	pointerDown  []handler[PointerContext]
	pointerUp    []handler[PointerContext]
	pointerMove  []handler[PointerContext]
	pointerEnter []handler[PointerContext]
	pointerLeave []handler[PointerContext]
	click        []handler[ClickContext]
	dragStart    []handler[DragContext]
	drag         []handler[DragContext]
	dragEnd      []handler[DragContext]
	wheel        []handler[WheelContext]
	nextID       uint32
}

// CallbackHandle removes a scene-level callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback. Safe to call more than once.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

func addHandler[T any](reg *handlerRegistry, list *[]handler[T], fn func(T)) CallbackHandle {
	reg.nextID++
	id := reg.nextID
	*list = append(*list, handler[T]{id: id, fn: fn})
	return CallbackHandle{remove: func() {
		*list = slices.DeleteFunc(*list, func(h handler[T]) bool { return h.id == id })
	}}
}

func fire[T any](list []handler[T], ctx T) {
	for _, h := range list {
		h.fn(ctx)
	}
}

// OnPointerDown registers a scene-level callback for pointer presses.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.pointerDown, fn)
}

// OnPointerUp registers a scene-level callback for pointer releases.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.pointerUp, fn)
}

// OnPointerMove registers a scene-level callback for hover movement. It
// fires even when no node is under the pointer, which is what pointer
// followers need.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.pointerMove, fn)
}

// OnPointerEnter registers a scene-level callback for the pointer entering a node.
func (s *Scene) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.pointerEnter, fn)
}

// OnPointerLeave registers a scene-level callback for the pointer leaving a node.
func (s *Scene) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.pointerLeave, fn)
}

// OnClick registers a scene-level callback for clicks.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.click, fn)
}

// OnDragStart registers a scene-level callback for drag starts.
func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.dragStart, fn)
}

// OnDrag registers a scene-level callback for drag movement.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.drag, fn)
}

// OnDragEnd registers a scene-level callback for drag ends.
func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.dragEnd, fn)
}

// OnWheel registers a callback for wheel input. The viewport has already
// scrolled when it runs.
func (s *Scene) OnWheel(fn func(WheelContext)) CallbackHandle {
	return addHandler(&s.handlers, &s.handlers.wheel, fn)
}

// CapturePointer routes all pointer events to node until release.
func (s *Scene) CapturePointer(node *Node) {
	s.captured = node
}

// ReleasePointer ends a CapturePointer.
func (s *Scene) ReleasePointer() {
	s.captured = nil
}

// SetDragDeadZone sets the distance in pixels the pointer must move before
// a press becomes a drag.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

type hitEntry struct {
	node  *Node
	fixed bool
}

// nodeContainsLocal tests (lx, ly) against the HitShape, or else the node's
// own extent. Containers with no HitShape and no size are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Type == NodeTypeShape {
		return HitPolygon{Points: n.Points}.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable walks the tree in painter order, skipping hidden and
// non-interactable subtrees.
func (s *Scene) collectInteractable(n *Node, fixed bool, buf []hitEntry) []hitEntry {
	if !n.Visible || !n.Interactable {
		return buf
	}
	fixed = fixed || n.Fixed
	if n.HitShape != nil || n.Type != NodeTypeContainer || n.Width != 0 || n.Height != 0 {
		buf = append(buf, hitEntry{node: n, fixed: fixed})
	}
	for _, child := range paintOrder(n) {
		buf = s.collectInteractable(child, fixed, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at a screen point. Fixed
// nodes are tested in screen space, the rest in document space.
func (s *Scene) hitTest(sx, sy float64) *Node {
	dx, dy := s.viewport.ScreenToDocument(sx, sy)
	s.hitBuf = s.collectInteractable(s.root, false, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		e := s.hitBuf[i]
		px, py := dx, dy
		if e.fixed {
			px, py = sx, sy
		}
		lx, ly := e.node.worldTransform.invert().apply(px, py)
		if nodeContainsLocal(e.node, lx, ly) {
			return e.node
		}
	}
	return nil
}

// --- Input processing ---

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput consumes one injected event per frame if any are queued;
// otherwise it reads the mouse when running under Run.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.deviceInput {
		return
	}
	mods := readModifiers()
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		s.processWheel(wx, wy, mods)
	}

	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	s.processPointer(float64(mx), float64(my), pressed, button, mods)
}

// processWheel scrolls the viewport. Positive wheel y scrolls up, as ebiten
// reports it.
func (s *Scene) processWheel(wx, wy float64, mods KeyModifiers) {
	if mods&ModShift != 0 && wx == 0 {
		wx, wy = wy, 0
	}
	s.viewport.ScrollBy(-wx*s.WheelScale, -wy*s.WheelScale)
	ctx := WheelContext{DeltaX: wx, DeltaY: wy, Modifiers: mods}
	fire(s.handlers.wheel, ctx)
	if s.store != nil {
		s.store.EmitEvent(InteractionEvent{Type: EventWheel, WheelX: wx, WheelY: wy, Modifiers: mods})
	}
}

// processPointer runs the pointer state machine. Coordinates are in screen
// space; contexts carry document coordinates (screen coordinates for fixed
// nodes).
func (s *Scene) processPointer(sx, sy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointer
	target := s.captured
	if target == nil {
		target = s.hitTest(sx, sy)
	}
	wx, wy := s.viewport.ScreenToDocument(sx, sy)

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.emitPointer(EventPointerLeave, ps.hoverNode, sx, sy, button, mods)
		}
		if target != nil {
			s.emitPointer(EventPointerEnter, target, sx, sy, button, mods)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.hitNode = target
		ps.dragging = false
		s.emitPointer(EventPointerDown, target, sx, sy, button, mods)

	case !pressed && ps.down:
		if ps.dragging {
			s.emitDrag(EventDragEnd, ps.hitNode, sx, sy, wx-ps.lastX, wy-ps.lastY, mods)
		} else if ps.hitNode != nil && ps.hitNode == target {
			s.emitPointer(EventClick, target, sx, sy, ps.button, mods)
		}
		s.emitPointer(EventPointerUp, target, sx, sy, ps.button, mods)
		s.captured = nil
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false

	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			if !ps.dragging && math.Hypot(wx-ps.startX, wy-ps.startY) > s.dragDeadZone {
				ps.dragging = true
				s.emitDrag(EventDragStart, ps.hitNode, sx, sy, wx-ps.startX, wy-ps.startY, mods)
			}
			if ps.dragging {
				s.emitDrag(EventDrag, ps.hitNode, sx, sy, wx-ps.lastX, wy-ps.lastY, mods)
			}
		}
		ps.lastX, ps.lastY = wx, wy

	default:
		if wx != ps.lastX || wy != ps.lastY {
			s.emitPointer(EventPointerMove, target, sx, sy, button, mods)
			ps.lastX, ps.lastY = wx, wy
		}
	}
}

// pointerContext builds the context for node at screen point (sx, sy).
func (s *Scene) pointerContext(node *Node, sx, sy float64, button MouseButton, mods KeyModifiers) PointerContext {
	gx, gy := s.viewport.ScreenToDocument(sx, sy)
	ctx := PointerContext{Node: node, Button: button, Modifiers: mods}
	if node != nil {
		if isFixed(node) {
			gx, gy = sx, sy
		}
		ctx.EntityID = node.EntityID
		ctx.UserData = node.UserData
		ctx.LocalX, ctx.LocalY = node.worldTransform.invert().apply(gx, gy)
	}
	ctx.GlobalX, ctx.GlobalY = gx, gy
	return ctx
}

func (s *Scene) emitPointer(typ EventType, node *Node, sx, sy float64, button MouseButton, mods KeyModifiers) {
	ctx := s.pointerContext(node, sx, sy, button, mods)
	var cb func(PointerContext)
	switch typ {
	case EventPointerDown:
		fire(s.handlers.pointerDown, ctx)
		if node != nil {
			cb = node.OnPointerDown
		}
	case EventPointerUp:
		fire(s.handlers.pointerUp, ctx)
		if node != nil {
			cb = node.OnPointerUp
		}
	case EventPointerMove:
		fire(s.handlers.pointerMove, ctx)
		if node != nil {
			cb = node.OnPointerMove
		}
	case EventPointerEnter:
		fire(s.handlers.pointerEnter, ctx)
		if node != nil {
			cb = node.OnPointerEnter
		}
	case EventPointerLeave:
		fire(s.handlers.pointerLeave, ctx)
		if node != nil {
			cb = node.OnPointerLeave
		}
	case EventClick:
		fire(s.handlers.click, ctx)
		if node != nil {
			cb = node.OnClick
		}
	}
	if cb != nil {
		cb(ctx)
	}
	s.emitInteractionEvent(typ, node, ctx, DragContext{})
}

func (s *Scene) emitDrag(typ EventType, node *Node, sx, sy, dx, dy float64, mods KeyModifiers) {
	ps := &s.pointer
	ctx := DragContext{
		PointerContext: s.pointerContext(node, sx, sy, ps.button, mods),
		StartX:         ps.startX,
		StartY:         ps.startY,
		DeltaX:         dx,
		DeltaY:         dy,
	}
	var cb func(DragContext)
	switch typ {
	case EventDragStart:
		fire(s.handlers.dragStart, ctx)
		if node != nil {
			cb = node.OnDragStart
		}
	case EventDrag:
		fire(s.handlers.drag, ctx)
		if node != nil {
			cb = node.OnDrag
		}
	case EventDragEnd:
		fire(s.handlers.dragEnd, ctx)
		if node != nil {
			cb = node.OnDragEnd
		}
	}
	if cb != nil {
		cb(ctx)
	}
	s.emitInteractionEvent(typ, node, ctx.PointerContext, ctx)
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(typ EventType, node *Node, ctx PointerContext, drag DragContext) {
	if s.store == nil || node == nil || node.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      typ,
		EntityID:  node.EntityID,
		GlobalX:   ctx.GlobalX,
		GlobalY:   ctx.GlobalY,
		LocalX:    ctx.LocalX,
		LocalY:    ctx.LocalY,
		Button:    ctx.Button,
		Modifiers: ctx.Modifiers,
		StartX:    drag.StartX,
		StartY:    drag.StartY,
		DeltaX:    drag.DeltaX,
		DeltaY:    drag.DeltaY,
	})
}

func isFixed(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Fixed {
			return true
		}
	}
	return false
}
