package motion

import (
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Debug font cell size used by ebitenutil.DebugPrintAt.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// drawCommand is one draw instruction emitted during traversal, in screen
// space.
type drawCommand struct {
	node      *Node
	transform matrix
	color     Color // straight alpha, world alpha applied
}

// paintOrder returns n's children sorted by ZIndex, stable in insertion
// order. The child slice is returned as-is when already ordered.
func paintOrder(n *Node) []*Node {
	sorted := slices.IsSortedFunc(n.children, func(a, b *Node) int { return a.ZIndex - b.ZIndex })
	if sorted {
		return n.children
	}
	out := slices.Clone(n.children)
	slices.SortStableFunc(out, func(a, b *Node) int { return a.ZIndex - b.ZIndex })
	return out
}

// buildCommands refreshes world transforms and collects draw commands for
// visible nodes, culling those outside the viewport.
func (s *Scene) buildCommands() {
	s.commands = s.commands[:0]
	updateWorldTransform(s.root, identity, 1, false)
	s.traverse(s.root, false)
}

func (s *Scene) traverse(n *Node, fixed bool) {
	if !n.Visible {
		return
	}
	fixed = fixed || n.Fixed
	if n.Renderable && n.Type != NodeTypeContainer && n.worldAlpha > 0 {
		view := identity
		if !fixed {
			view = s.viewport.viewMatrix()
		}
		m := view.mul(n.worldTransform)
		if !s.culled(n, m, fixed) {
			c := n.Color
			c.A *= n.worldAlpha
			s.commands = append(s.commands, drawCommand{node: n, transform: m, color: c})
		}
	}
	for _, child := range paintOrder(n) {
		s.traverse(child, fixed)
	}
}

// culled reports whether n's screen box misses the screen. Fixed nodes are
// always drawn.
func (s *Scene) culled(n *Node, m matrix, fixed bool) bool {
	if fixed || !s.viewport.CullEnabled {
		return false
	}
	screen := Rect{Width: s.viewport.width, Height: s.viewport.height}
	return !n.boundsUnder(m).Intersects(screen)
}

// Draw renders the scene to screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if s.ClearColor != (Color{}) {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.buildCommands()
	for i := range s.commands {
		s.submit(screen, &s.commands[i])
	}
	s.frame++
	s.flushScreenshots(screen)
	if s.debug {
		s.debugLogDraw(time.Since(t0), len(s.commands))
	}
}

func (s *Scene) whitePixel() *ebiten.Image {
	if s.pixel == nil {
		s.pixel = ebiten.NewImage(1, 1)
		s.pixel.Fill(color.White)
	}
	return s.pixel
}

func (s *Scene) submit(screen *ebiten.Image, cmd *drawCommand) {
	n := cmd.node
	switch n.Type {
	case NodeTypeBox:
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(n.Width, n.Height)
		op.GeoM.Concat(cmd.transform.geoM())
		c := cmd.color
		op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
		screen.DrawImage(s.whitePixel(), &op)

	case NodeTypeShape:
		if len(n.Points) < 3 {
			return
		}
		verts := make([]ebiten.Vertex, len(n.Points))
		c := cmd.color
		for i, p := range n.Points {
			x, y := cmd.transform.apply(p.X, p.Y)
			verts[i] = ebiten.Vertex{
				DstX: float32(x), DstY: float32(y),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
			}
		}
		indices := make([]uint16, 0, 3*(len(n.Points)-2))
		for i := 1; i+1 < len(n.Points); i++ {
			indices = append(indices, 0, uint16(i), uint16(i+1))
		}
		screen.DrawTriangles(verts, indices, s.whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})

	case NodeTypeLabel:
		x, y := cmd.transform.apply(0, 0)
		ebitenutil.DebugPrintAt(screen, n.Label, int(x), int(y))
	}
}

func (m matrix) geoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func drawFPS(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
