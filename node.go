package motion

// NodeType selects how a Node draws.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeBox                       // solid rectangle of Width x Height
	NodeTypeShape                     // filled polygon through Points
	NodeTypeLabel                     // debug-font text
)

// HitShape is used for custom hit testing regions in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	EntityID  uint32
	UserData  any
	GlobalX   float64 // document space
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// ClickContext carries click event data.
type ClickContext = PointerContext

// DragContext carries drag event data.
type DragContext struct {
	PointerContext
	StartX float64
	StartY float64
	DeltaX float64 // movement since the previous drag event
	DeltaY float64
}

// WheelContext carries wheel event data.
type WheelContext struct {
	DeltaX, DeltaY float64
	Modifiers      KeyModifiers
}

// Node is a scene tree element and the reference animation Target. A single
// flat struct is used for every node type.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	Parent   *Node
	children []*Node

	// Local transform.
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Local extent of boxes and labels, and of containers that want a fixed
	// layout box instead of the union of their children.
	Width, Height float64

	worldTransform matrix
	worldAlpha     float64
	transformDirty bool

	Alpha        float64
	Color        Color
	Visible      bool
	Renderable   bool
	Interactable bool
	// Fixed nodes ignore viewport scrolling, like a pinned header.
	Fixed  bool
	ZIndex int

	UserData any
	EntityID uint32

	// Points outlines NodeTypeShape in local coordinates.
	Points []Vec2
	// Label is the text drawn by NodeTypeLabel.
	Label string
	// Props holds animatable values that are not built-in fields.
	Props map[string]any

	HitShape HitShape

	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerMove  func(PointerContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)
	OnClick        func(ClickContext)
	OnDragStart    func(DragContext)
	OnDrag         func(DragContext)
	OnDragEnd      func(DragContext)

	disposed bool
	// detached marks a node removed from its parent. It and its subtree have
	// left the document until re-added.
	detached  bool
	layoutRev uint64 // bumped on the tree root when layout changes
	idGen     *uint32
}

func newNode(name string, typ NodeType) *Node {
	return &Node{
		Name:           name,
		Type:           typ,
		ScaleX:         1,
		ScaleY:         1,
		Alpha:          1,
		Color:          ColorWhite,
		Visible:        true,
		Renderable:     true,
		transformDirty: true,
		worldTransform: identity,
		worldAlpha:     1,
	}
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	return newNode(name, NodeTypeContainer)
}

// NewBox creates a solid rectangle.
func NewBox(name string, width, height float64, c Color) *Node {
	n := newNode(name, NodeTypeBox)
	n.Width, n.Height = width, height
	n.Color = c
	return n
}

// NewShape creates a filled polygon. The points are copied.
func NewShape(name string, points []Vec2, c Color) *Node {
	n := newNode(name, NodeTypeShape)
	n.Points = append([]Vec2(nil), points...)
	n.Color = c
	return n
}

// NewLabel creates a text node drawn with the debug font.
func NewLabel(name, text string) *Node {
	n := newNode(name, NodeTypeLabel)
	n.Label = text
	n.Width, n.Height = labelSize(text)
	return n
}

func labelSize(text string) (float64, float64) {
	lines, longest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		longest = max(longest, cur)
	}
	return float64(longest * debugGlyphW), float64(lines * debugGlyphH)
}

// String returns the node's name, which is how logs refer to it.
func (n *Node) String() string {
	if n.Name == "" {
		return "<unnamed node>"
	}
	return n.Name
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, disposed, or an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("motion: cannot add nil child")
	}
	if n.disposed || child.disposed {
		panic("motion: AddChild on disposed node")
	}
	if isAncestor(child, n) {
		panic("motion: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
		child.Parent.top().layoutRev++
	}
	child.Parent = n
	child.detached = false
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	n.top().layoutRev++
	if n.top().idGen != nil {
		assignIDs(child, n.top().idGen)
	}
}

// RemoveChild detaches child from this node. The child's animations are
// killed on the next engine tick unless it is re-added first.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("motion: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	child.detached = true
	markSubtreeDirty(child)
	n.top().layoutRev++
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// FindByName returns the first node named name in n's subtree, depth first,
// including n itself.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// SetZIndex sets the node's draw order among its siblings.
func (n *Node) SetZIndex(z int) {
	n.ZIndex = z
}

// SetSize changes the node's layout extent. Scroll windows measured against
// it are recomputed on the next tick.
func (n *Node) SetSize(w, h float64) {
	if n.Width == w && n.Height == h {
		return
	}
	n.Width, n.Height = w, h
	n.top().layoutRev++
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it and all descendants
// as disposed, and releases their callbacks.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.Parent != nil {
		p := n.Parent
		p.removeChildByPtr(n)
		p.top().layoutRev++
	}
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.HitShape = nil
	n.UserData = nil
	n.Props = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnPointerMove = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
	n.OnClick = nil
	n.OnDragStart = nil
	n.OnDrag = nil
	n.OnDragEnd = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Alive reports whether the node is still part of a live tree: not disposed
// and not under a removed ancestor. Nodes that were never attached count as
// alive.
func (n *Node) Alive() bool {
	if n.disposed {
		return false
	}
	return !n.top().detached
}

// --- Target ---

// Property returns an animatable value. Numeric properties are float64;
// "color" is a Color, "points" a []Vec2 and "position" a Vec2. Unknown names
// are looked up in Props.
func (n *Node) Property(name string) (any, bool) {
	switch name {
	case "x":
		return n.X, true
	case "y":
		return n.Y, true
	case "width":
		return n.Width, true
	case "height":
		return n.Height, true
	case "scaleX", "scale":
		return n.ScaleX, true
	case "scaleY":
		return n.ScaleY, true
	case "rotation":
		return n.Rotation, true
	case "skewX":
		return n.SkewX, true
	case "skewY":
		return n.SkewY, true
	case "pivotX":
		return n.PivotX, true
	case "pivotY":
		return n.PivotY, true
	case "alpha", "opacity":
		return n.Alpha, true
	case "color":
		return n.Color, true
	case "position":
		return Vec2{n.X, n.Y}, true
	case "points":
		if n.Type != NodeTypeShape {
			return nil, false
		}
		return append([]Vec2(nil), n.Points...), true
	}
	v, ok := n.Props[name]
	return v, ok
}

var (
	alphaFields    = []string{"alpha"}
	scaleFields    = []string{"scaleX", "scaleY"}
	positionFields = []string{"x", "y"}
)

// CanonicalProperty reports the fields behind the shorthand names "opacity",
// "scale" and "position".
func (n *Node) CanonicalProperty(name string) []string {
	switch name {
	case "alpha", "opacity":
		return alphaFields
	case "scale":
		return scaleFields
	case "position":
		return positionFields
	}
	return nil
}

// SetProperty writes an animated value and marks the transform dirty.
// Values of the wrong type for a built-in property are ignored.
func (n *Node) SetProperty(name string, value any) {
	if n.disposed {
		return
	}
	if f, ok := toFloat(value); ok && n.setNumeric(name, f) {
		n.transformDirty = true
		return
	}
	switch name {
	case "color":
		if c, ok := value.(Color); ok {
			n.Color = c
		}
		return
	case "position":
		if v, ok := value.(Vec2); ok {
			n.X, n.Y = v.X, v.Y
			n.transformDirty = true
		}
		return
	case "points":
		if pts, ok := value.([]Vec2); ok {
			n.Points = pts
		}
		return
	}
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[name] = value
}

func (n *Node) setNumeric(name string, f float64) bool {
	switch name {
	case "x":
		n.X = f
	case "y":
		n.Y = f
	case "width":
		n.Width = f
	case "height":
		n.Height = f
	case "scaleX":
		n.ScaleX = f
	case "scaleY":
		n.ScaleY = f
	case "scale":
		n.ScaleX, n.ScaleY = f, f
	case "rotation":
		n.Rotation = f
	case "skewX":
		n.SkewX = f
	case "skewY":
		n.SkewY = f
	case "pivotX":
		n.PivotX = f
	case "pivotY":
		n.PivotY = f
	case "alpha", "opacity":
		n.Alpha = f
	default:
		return false
	}
	return true
}

// BoundingBox returns the node's axis-aligned box in document space. A
// container without its own size spans its children.
func (n *Node) BoundingBox() Rect {
	return n.boundsUnder(n.documentTransform())
}

func (n *Node) boundsUnder(m matrix) Rect {
	switch {
	case n.Type == NodeTypeShape && len(n.Points) > 0:
		return m.boundsOf(n.Points)
	case n.Width != 0 || n.Height != 0 || len(n.children) == 0:
		return m.boundsOf([]Vec2{{0, 0}, {n.Width, 0}, {n.Width, n.Height}, {0, n.Height}})
	}
	var out Rect
	for i, c := range n.children {
		r := c.boundsUnder(m.mul(c.localTransform()))
		if i == 0 {
			out = r
		} else {
			out = out.union(r)
		}
	}
	return out
}

// --- Helpers ---

func (n *Node) top() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// assignIDs numbers nodes as they join a scene tree.
func assignIDs(n *Node, gen *uint32) {
	if n.ID == 0 {
		*gen++
		n.ID = *gen
	}
	for _, c := range n.children {
		assignIDs(c, gen)
	}
}

func (r Rect) union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.Width, o.X+o.Width), max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
