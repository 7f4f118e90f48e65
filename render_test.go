package motion

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func commandNames(s *Scene) []string {
	var out []string
	for _, c := range s.commands {
		out = append(out, c.node.Name)
	}
	return out
}

// --- Command emission ---

func TestBuildCommandsSkipsContainers(t *testing.T) {
	s := newTestScene(t)
	group := NewContainer("group")
	group.AddChild(NewBox("a", 10, 10, ColorWhite))
	group.AddChild(NewLabel("b", "hi"))
	s.Root().AddChild(group)

	s.buildCommands()
	if diff := cmp.Diff([]string{"a", "b"}, commandNames(s)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestBuildCommandsVisibility(t *testing.T) {
	s := newTestScene(t)
	hidden := NewContainer("hidden")
	hidden.Visible = false
	hidden.AddChild(NewBox("under-hidden", 10, 10, ColorWhite))
	ghost := NewBox("ghost", 10, 10, ColorWhite)
	ghost.Renderable = false
	ghost.AddChild(NewBox("under-ghost", 10, 10, ColorWhite))
	clear := NewBox("clear", 10, 10, ColorWhite)
	clear.Alpha = 0
	s.Root().AddChild(hidden)
	s.Root().AddChild(ghost)
	s.Root().AddChild(clear)

	s.buildCommands()
	if diff := cmp.Diff([]string{"under-ghost"}, commandNames(s)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestWorldAlphaInCommand(t *testing.T) {
	s := newTestScene(t)
	parent := NewContainer("parent")
	parent.Alpha = 0.5
	child := NewBox("child", 10, 10, Color{1, 0, 0, 0.8})
	child.Alpha = 0.5
	parent.AddChild(child)
	s.Root().AddChild(parent)

	s.buildCommands()
	if len(s.commands) != 1 {
		t.Fatalf("commands = %d", len(s.commands))
	}
	assertNear(t, "alpha", s.commands[0].color.A, 0.2)
	if child.Color.A != 0.8 {
		t.Error("building commands must not change the node's color")
	}
}

// --- Viewport ---

func TestCullingFollowsScroll(t *testing.T) {
	s := newTestScene(t)
	far := NewBox("far", 100, 100, ColorWhite)
	far.Y = 2000
	s.Root().AddChild(far)

	s.buildCommands()
	if len(s.commands) != 0 {
		t.Fatal("an off-screen box should be culled")
	}

	s.Viewport().SetScroll(0, 1800)
	s.buildCommands()
	if len(s.commands) != 1 {
		t.Fatal("the box should be drawn once scrolled into view")
	}
	assertMatrix(t, "screen", s.commands[0].transform, matrix{1, 0, 0, 1, 0, 200})

	s.Viewport().SetScroll(0, 0)
	s.Viewport().CullEnabled = false
	s.buildCommands()
	if len(s.commands) != 1 {
		t.Error("disabling culling should draw everything")
	}
}

func TestFixedNodesIgnoreScroll(t *testing.T) {
	s := newTestScene(t)
	header := NewContainer("header")
	header.Fixed = true
	bar := NewBox("bar", 800, 40, ColorWhite)
	bar.Y = 10
	header.AddChild(bar)
	s.Root().AddChild(header)

	s.Viewport().SetScroll(0, 5000)
	s.buildCommands()
	if len(s.commands) != 1 {
		t.Fatalf("commands = %d, want the fixed bar", len(s.commands))
	}
	assertMatrix(t, "fixed", s.commands[0].transform, matrix{1, 0, 0, 1, 0, 10})
}

// --- Ordering ---

func TestPaintOrder(t *testing.T) {
	parent := NewContainer("p")
	a, b, c := NewBox("a", 1, 1, ColorWhite), NewBox("b", 1, 1, ColorWhite), NewBox("c", 1, 1, ColorWhite)
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	if got := paintOrder(parent); &got[0] != &parent.children[0] {
		t.Error("ordered children should be returned without copying")
	}

	a.SetZIndex(1)
	var names []string
	for _, n := range paintOrder(parent) {
		names = append(names, n.Name)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, names); diff != "" {
		t.Errorf("paint order (-want +got):\n%s", diff)
	}
	if parent.children[0] != a {
		t.Error("paintOrder must not reorder the child slice")
	}
}

func TestZIndexInCommands(t *testing.T) {
	s := newTestScene(t)
	back := NewBox("back", 10, 10, ColorWhite)
	front := NewBox("front", 10, 10, ColorWhite)
	front.SetZIndex(5)
	s.Root().AddChild(front)
	s.Root().AddChild(back)

	s.buildCommands()
	if diff := cmp.Diff([]string{"back", "front"}, commandNames(s)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

// --- Conversions ---

func TestColorToRGBA(t *testing.T) {
	got := Color{1, 0.5, 0, 0.5}.toRGBA()
	want := color.RGBA{R: 127, G: 63, B: 0, A: 127}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
	if (Color{2, -1, 0, 1}).toRGBA() != (color.RGBA{R: 255, A: 255}) {
		t.Error("toRGBA should clamp channels")
	}
}

func TestGeoMMatchesMatrix(t *testing.T) {
	n := NewContainer("n")
	n.X, n.Y = 12, -3
	n.Rotation = 0.4
	n.ScaleX = 1.5
	m := n.localTransform()
	g := m.geoM()
	gx, gy := g.Apply(7, 9)
	mx, my := m.apply(7, 9)
	assertNear(t, "x", gx, mx)
	assertNear(t, "y", gy, my)
}
