package motion

import "math"

// matrix is a 2D affine transform [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// localTransform composes the node's transform properties in the order
// Translate(-Pivot) -> Scale -> Skew -> Rotate -> Translate(X, Y).
func (n *Node) localTransform() matrix {
	sin, cos := math.Sincos(n.Rotation)

	var kx, ky float64
	if n.SkewX != 0 {
		kx = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		ky = math.Tan(n.SkewY)
	}

	// Scale and skew about the pivot.
	a, b := n.ScaleX, ky*n.ScaleX
	c, d := kx*n.ScaleY, n.ScaleY
	tx := -n.PivotX*a - n.PivotY*c
	ty := -n.PivotX*b - n.PivotY*d

	return matrix{
		cos*a - sin*b, sin*a + cos*b,
		cos*c - sin*d, sin*c + cos*d,
		cos*tx - sin*ty + n.X, sin*tx + cos*ty + n.Y,
	}
}

// mul returns m * o, applying o first.
func (m matrix) mul(o matrix) matrix {
	return matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// invert returns the inverse transform, or identity if m is singular.
func (m matrix) invert() matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if math.Abs(det) < 1e-12 {
		return identity
	}
	inv := 1 / det
	a, b := m[3]*inv, -m[1]*inv
	c, d := -m[2]*inv, m[0]*inv
	return matrix{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// boundsOf returns the axis-aligned box around pts after transforming them.
func (m matrix) boundsOf(pts []Vec2) Rect {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		x, y := m.apply(p.X, p.Y)
		x0, y0 = min(x0, x), min(y0, y)
		x1, y1 = max(x1, x), max(y1, y)
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// documentTransform walks the ancestor chain, so it is correct even before
// the scene has run a frame.
func (n *Node) documentTransform() matrix {
	m := n.localTransform()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.localTransform().mul(m)
	}
	return m
}

// updateWorldTransform refreshes cached world transforms and alphas for the
// subtree. A recomputed parent forces its children to recompute.
func updateWorldTransform(n *Node, parent matrix, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = parent.mul(n.localTransform())
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetRotation sets the node's rotation in radians and marks it dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetPivot sets the point, in local coordinates, that scaling and rotation
// happen around.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty forces the world transform to be recomputed on the next frame.
// Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// DocumentToLocal converts a document-space point to this node's local
// coordinates.
func (n *Node) DocumentToLocal(x, y float64) (float64, float64) {
	return n.documentTransform().invert().apply(x, y)
}

// LocalToDocument converts a local point to document space.
func (n *Node) LocalToDocument(x, y float64) (float64, float64) {
	return n.documentTransform().apply(x, y)
}
