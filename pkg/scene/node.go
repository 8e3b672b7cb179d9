package scene

import (
	"slices"

	"github.com/matzehuels/yardbook/pkg/geom"
)

// Kind identifies the variant of a node.
type Kind int

const (
	KindGroup Kind = iota
	KindPath
	KindRect
	KindEllipse
	KindText
)

var kindNames = [...]string{
	KindGroup:   "group",
	KindPath:    "path",
	KindRect:    "rect",
	KindEllipse: "ellipse",
	KindText:    "text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Capabilities describes what a node kind supports.
type Capabilities struct {
	VertexData bool // contributes outline vertices
	Children   bool // may contain child nodes
	Stroke     bool // may carry a stroke width
}

// Capabilities returns the capability set of k.
func (k Kind) Capabilities() Capabilities {
	switch k {
	case KindGroup:
		return Capabilities{Children: true}
	case KindPath, KindRect, KindEllipse:
		return Capabilities{VertexData: true, Stroke: true}
	case KindText:
		return Capabilities{Stroke: true}
	}
	return Capabilities{}
}

// Style holds the paint attributes the engine reads and rewrites.
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
}

// Node is one element of a document tree.
type Node struct {
	// Label is a free-form name, matched case-insensitively by lookups.
	Label string
	// Transform maps the node's local coordinates into its parent's space.
	// Use Document.SetTransform for attached nodes.
	Transform geom.Matrix
	Style     Style

	id       string
	kind     Kind
	shape    Shape
	parent   *Node
	children []*Node
	doc      *Document
}

func newNode(id string, kind Kind, shape Shape) *Node {
	return &Node{id: id, kind: kind, shape: shape, Transform: geom.Identity()}
}

// NewGroup returns a detached group holding children.
// Children that already have a parent are skipped.
func NewGroup(id string, children ...*Node) *Node {
	n := newNode(id, KindGroup, nil)
	for _, c := range children {
		if c == nil || c.parent != nil || c.doc != nil {
			continue
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// NewPath returns a detached path node.
func NewPath(id string, segs ...Segment) *Node {
	return newNode(id, KindPath, &Path{Segments: segs})
}

// NewPolygon returns a detached closed path through pts.
func NewPolygon(id string, pts ...geom.Point) *Node {
	return NewPath(id, Polygon(pts...)...)
}

// NewRect returns a detached rectangle node.
func NewRect(id string, r geom.Rect) *Node {
	return newNode(id, KindRect, &Box{Rect: r})
}

// NewEllipse returns a detached ellipse node.
func NewEllipse(id string, center geom.Point, rx, ry float64) *Node {
	return newNode(id, KindEllipse, &Ellipse{Center: center, RX: rx, RY: ry})
}

// NewText returns a detached text node anchored at its baseline start.
func NewText(id string, anchor geom.Point, content string, fontSize float64) *Node {
	return newNode(id, KindText, &Text{Anchor: anchor, Content: content, FontSize: fontSize})
}

// WithLabel sets the label and returns n.
func (n *Node) WithLabel(label string) *Node { n.Label = label; return n }

// WithTransform sets the local transform and returns n.
// It is meant for building detached trees.
func (n *Node) WithTransform(m geom.Matrix) *Node { n.Transform = m; return n }

// WithStroke sets the stroke paint and width and returns n.
func (n *Node) WithStroke(paint string, width float64) *Node {
	n.Style.Stroke = paint
	n.Style.StrokeWidth = width
	return n
}

// WithFill sets the fill paint and returns n.
func (n *Node) WithFill(paint string) *Node { n.Style.Fill = paint; return n }

// ID returns the node id, empty for anonymous nodes.
func (n *Node) ID() string { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Caps returns the capability set of the node's kind.
func (n *Node) Caps() Capabilities { return n.kind.Capabilities() }

// Shape returns the geometry payload, nil for groups.
func (n *Node) Shape() Shape { return n.shape }

// Parent returns the parent node, nil for roots and detached subtrees.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// Index returns the position of n among its siblings, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// HasStroke reports whether the node can carry a stroke and has a positive width.
func (n *Node) HasStroke() bool {
	return n.Caps().Stroke && n.Style.StrokeWidth > 0
}

// Attached reports whether the node belongs to a document.
func (n *Node) Attached() bool { return n.doc != nil }

// Document returns the owning document, nil for detached nodes.
func (n *Node) Document() *Document { return n.doc }
