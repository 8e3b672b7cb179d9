package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

type documentJSON struct {
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Root   *nodeJSON `json:"root"`
}

type nodeJSON struct {
	ID        string       `json:"id,omitempty"`
	Label     string       `json:"label,omitempty"`
	Kind      string       `json:"kind"`
	Transform *geom.Matrix `json:"transform,omitempty"`
	Style     *Style       `json:"style,omitempty"`
	Path      []Segment    `json:"path,omitempty"`
	Rect      *geom.Rect   `json:"rect,omitempty"`
	Ellipse   *ellipseJSON `json:"ellipse,omitempty"`
	Text      *textJSON    `json:"text,omitempty"`
	Children  []*nodeJSON  `json:"children,omitempty"`
}

type ellipseJSON struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

type textJSON struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"font_size"`
}

// Decode reads a JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	var wire documentJSON
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if wire.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no root")
	}
	if wire.Root.Kind != "" && wire.Root.Kind != KindGroup.String() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "root must be a group, got %q", wire.Root.Kind)
	}
	if wire.Root.Transform != nil && !wire.Root.Transform.IsIdentity() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "root transform must be the identity")
	}

	d := New(wire.Width, wire.Height)
	d.root.Label = wire.Root.Label
	if wire.Root.Style != nil {
		d.root.Style = *wire.Root.Style
	}

	type item struct {
		wire   *nodeJSON
		parent *Node
	}
	var stack []item
	for i := len(wire.Root.Children) - 1; i >= 0; i-- {
		stack = append(stack, item{wire.Root.Children[i], d.root})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, err := fromJSON(it.wire)
		if err != nil {
			return nil, err
		}
		if err := d.Append(it.parent, n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "node %q", it.wire.ID)
		}
		for i := len(it.wire.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.wire.Children[i], n})
		}
	}
	return d, nil
}

func fromJSON(w *nodeJSON) (*Node, error) {
	if w == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "null node")
	}
	kind, ok := ParseKind(w.Kind)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: unknown kind %q", w.ID, w.Kind)
	}
	if w.ID != "" {
		if err := errors.ValidateID(w.ID); err != nil {
			return nil, err
		}
	}
	if len(w.Children) > 0 && !kind.Capabilities().Children {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: %s cannot have children", w.ID, kind)
	}

	var n *Node
	switch kind {
	case KindGroup:
		n = NewGroup(w.ID)
	case KindPath:
		for i, s := range w.Path {
			if !s.Valid() {
				return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: segment %d: %q takes %d points, got %d", w.ID, i, s.Op, s.Op.arity(), len(s.Pts))
			}
		}
		n = NewPath(w.ID, w.Path...)
	case KindRect:
		if w.Rect == nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: rect without geometry", w.ID)
		}
		n = NewRect(w.ID, *w.Rect)
	case KindEllipse:
		if w.Ellipse == nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: ellipse without geometry", w.ID)
		}
		e := w.Ellipse
		n = NewEllipse(w.ID, geom.Pt(e.CX, e.CY), e.RX, e.RY)
	case KindText:
		if w.Text == nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: text without content", w.ID)
		}
		t := w.Text
		n = NewText(w.ID, geom.Pt(t.X, t.Y), t.Content, t.FontSize)
	}

	n.Label = w.Label
	if w.Transform != nil {
		if !w.Transform.IsFinite() {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node %q: non-finite transform", w.ID)
		}
		n.Transform = *w.Transform
	}
	if w.Style != nil {
		n.Style = *w.Style
	}
	return n, nil
}

// Encode writes d to w as indented JSON.
func Encode(w io.Writer, d *Document) error {
	wire := documentJSON{Width: d.Width, Height: d.Height, Root: toJSON(d.root)}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}

// Marshal returns the JSON encoding of d.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

func toJSON(n *Node) *nodeJSON {
	type item struct {
		src *Node
		dst *nodeJSON
	}
	top := wireNode(n)
	stack := []item{{n, top}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range it.src.children {
			cw := wireNode(c)
			it.dst.Children = append(it.dst.Children, cw)
			stack = append(stack, item{c, cw})
		}
	}
	return top
}

func wireNode(n *Node) *nodeJSON {
	w := &nodeJSON{ID: n.id, Label: n.Label, Kind: n.kind.String()}
	if !n.Transform.IsIdentity() {
		m := n.Transform
		w.Transform = &m
	}
	if n.Style != (Style{}) {
		s := n.Style
		w.Style = &s
	}
	switch s := n.shape.(type) {
	case *Path:
		w.Path = s.Segments
	case *Box:
		r := s.Rect
		w.Rect = &r
	case *Ellipse:
		w.Ellipse = &ellipseJSON{CX: s.Center.X, CY: s.Center.Y, RX: s.RX, RY: s.RY}
	case *Text:
		w.Text = &textJSON{X: s.Anchor.X, Y: s.Anchor.Y, Content: s.Content, FontSize: s.FontSize}
	}
	return w
}

// ReadFile decodes the document stored at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile encodes d to path.
func WriteFile(path string, d *Document) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
