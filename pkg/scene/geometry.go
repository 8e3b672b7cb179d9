package scene

import (
	"slices"

	"github.com/matzehuels/yardbook/pkg/geom"
)

// Chain returns the local transforms from the top of n's tree down to n,
// n's own transform last.
func (n *Node) Chain() []geom.Matrix {
	var chain []geom.Matrix
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur.Transform)
	}
	slices.Reverse(chain)
	return chain
}

// CumulativeTransform returns the composition of every transform from the top
// of n's tree down to n, n's own included. For an attached node it maps local
// coordinates into canonical space.
func (n *Node) CumulativeTransform() geom.Matrix {
	m := n.Transform
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Mul(m)
	}
	return m
}

// ParentTransform returns the cumulative transform of n's parent, the
// identity for roots and detached nodes.
func (n *Node) ParentTransform() geom.Matrix {
	if n.parent == nil {
		return geom.Identity()
	}
	return n.parent.CumulativeTransform()
}

type frame struct {
	node *Node
	m    geom.Matrix
}

// collect walks the subtree of n, mapping points of every drawable node
// through space∘(transforms from n down to the node) and handing them to fn.
func collect(n *Node, space geom.Matrix, points func(Shape) []geom.Point, fn func(geom.Point)) {
	stack := []frame{{n, space.Mul(n.Transform)}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node.shape != nil {
			for _, p := range points(f.node.shape) {
				fn(f.m.Apply(p))
			}
		}
		for i := len(f.node.children) - 1; i >= 0; i-- {
			c := f.node.children[i]
			stack = append(stack, frame{c, f.m.Mul(c.Transform)})
		}
	}
}

// Vertices returns the flattened vertex sequence of n's subtree in document
// order, mapped through space and every transform from n down. Pass
// n.ParentTransform() to obtain canonical coordinates.
func Vertices(n *Node, space geom.Matrix) []geom.Point {
	var pts []geom.Point
	collect(n, space, func(s Shape) []geom.Point {
		return s.Vertices()
	}, func(p geom.Point) {
		pts = append(pts, p)
	})
	return pts
}

// VerticesOf concatenates the canonical vertices of several subtrees.
func VerticesOf(nodes ...*Node) []geom.Point {
	var pts []geom.Point
	for _, n := range nodes {
		pts = append(pts, Vertices(n, n.ParentTransform())...)
	}
	return pts
}

// Polygons returns the canonical vertices of every drawable node below
// nodes, one slice per node, in document order. Nodes without vertex data are
// skipped.
func Polygons(nodes ...*Node) [][]geom.Point {
	var out [][]geom.Point
	for _, n := range nodes {
		Walk(n, func(c *Node) bool {
			if !c.Caps().VertexData || c.shape == nil {
				return true
			}
			m := c.CumulativeTransform()
			vs := c.shape.Vertices()
			pts := make([]geom.Point, len(vs))
			for i, p := range vs {
				pts[i] = m.Apply(p)
			}
			out = append(out, pts)
			return true
		})
	}
	return out
}

// LocalBounds returns the bounds of n's rendered geometry in its parent's
// coordinate space, n's own transform included. The result is canonical only
// when n is a direct child of the document root. The second result is false
// when the subtree has no drawable geometry.
func LocalBounds(n *Node) (geom.Rect, bool) {
	var b geom.Bounds
	collect(n, geom.Identity(), func(s Shape) []geom.Point {
		return s.Outline()
	}, b.Add)
	return b.Rect()
}

// StrokeNodes returns every node in n's subtree, n included, that carries a
// stroke width.
func StrokeNodes(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.HasStroke() {
			out = append(out, c)
		}
		return true
	})
	return out
}
