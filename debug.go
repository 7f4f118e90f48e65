package motion

import "time"

// Tree shape thresholds that debug mode warns about.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugLogUpdate logs update timing and engine load. Only called in debug
// mode.
func (s *Scene) debugLogUpdate(elapsed time.Duration) {
	off := s.viewport.ScrollOffset()
	s.log.Debug("update",
		"elapsed", elapsed,
		"animations", s.engine.Len(),
		"scrollX", off.X,
		"scrollY", off.Y,
	)
}

// debugLogDraw logs draw timing and tree warnings. Only called in debug
// mode.
func (s *Scene) debugLogDraw(elapsed time.Duration, commands int) {
	s.log.Debug("draw", "elapsed", elapsed, "commands", commands, "frame", s.frame)
	s.debugCheckTree(s.root, 1)
}

func (s *Scene) debugCheckTree(n *Node, depth int) {
	if depth > debugMaxTreeDepth {
		s.log.Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
		return
	}
	if len(n.children) > debugMaxChildCount {
		s.log.Warn("node has too many children", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
	for _, c := range n.children {
		s.debugCheckTree(c, depth+1)
	}
}
