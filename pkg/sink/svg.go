package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/yardbook/pkg/scene"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	frames     []Frame
	background string
}

// WithFrames overlays dashed outlines of the given rectangles.
func WithFrames(frames ...Frame) SVGOption {
	return func(r *svgRenderer) { r.frames = append(r.frames, frames...) }
}

// WithBackground fills the canvas with paint before drawing.
func WithBackground(paint string) SVGOption {
	return func(r *svgRenderer) { r.background = paint }
}

// RenderSVG writes doc as a standalone SVG document.
func RenderSVG(doc *scene.Document, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(doc.Width), num(doc.Height), num(doc.Width), num(doc.Height))

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	renderTree(&buf, doc.Root())
	renderFrames(&buf, r.frames)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type svgItem struct {
	node  *scene.Node
	depth int
	close bool
}

// renderTree writes the children of root. The walk uses an explicit stack so
// deeply nested documents do not grow the goroutine stack.
func renderTree(buf *bytes.Buffer, root *scene.Node) {
	var stack []svgItem
	pushChildren := func(n *scene.Node, depth int) {
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, svgItem{node: children[i], depth: depth})
		}
	}
	pushChildren(root, 1)

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		indent := strings.Repeat("  ", it.depth)

		if it.close {
			buf.WriteString(indent + "</g>\n")
			continue
		}
		n := it.node
		if n.Kind() == scene.KindGroup {
			fmt.Fprintf(buf, "%s<g%s>\n", indent, attrs(n))
			stack = append(stack, svgItem{node: n, depth: it.depth, close: true})
			pushChildren(n, it.depth+1)
			continue
		}
		renderShape(buf, indent, n)
	}
}

func renderShape(buf *bytes.Buffer, indent string, n *scene.Node) {
	a := attrs(n) + paintAttrs(n.Style)
	switch s := n.Shape().(type) {
	case *scene.Path:
		fmt.Fprintf(buf, `%s<path%s d="%s"/>`+"\n", indent, a, pathData(s.Segments))
	case *scene.Box:
		fmt.Fprintf(buf, `%s<rect%s x="%s" y="%s" width="%s" height="%s"/>`+"\n",
			indent, a, num(s.Rect.X), num(s.Rect.Y), num(s.Rect.Width), num(s.Rect.Height))
	case *scene.Ellipse:
		fmt.Fprintf(buf, `%s<ellipse%s cx="%s" cy="%s" rx="%s" ry="%s"/>`+"\n",
			indent, a, num(s.Center.X), num(s.Center.Y), num(s.RX), num(s.RY))
	case *scene.Text:
		fmt.Fprintf(buf, `%s<text%s x="%s" y="%s" font-size="%s">%s</text>`+"\n",
			indent, a, num(s.Anchor.X), num(s.Anchor.Y), num(s.FontSize), escapeXML(s.Content))
	}
}

func attrs(n *scene.Node) string {
	var sb strings.Builder
	if n.ID() != "" {
		fmt.Fprintf(&sb, ` id="%s"`, escapeXML(n.ID()))
	}
	if n.Label != "" {
		fmt.Fprintf(&sb, ` data-label="%s"`, escapeXML(n.Label))
	}
	if !n.Transform.IsIdentity() {
		fmt.Fprintf(&sb, ` transform="%s"`, matrixAttr(n.Transform))
	}
	return sb.String()
}

func paintAttrs(s scene.Style) string {
	var sb strings.Builder
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(&sb, ` fill="%s"`, escapeXML(fill))
	if s.Stroke != "" {
		fmt.Fprintf(&sb, ` stroke="%s"`, escapeXML(s.Stroke))
	}
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&sb, ` stroke-width="%s"`, num(s.StrokeWidth))
	}
	return sb.String()
}

func pathData(segs []scene.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if !s.Valid() {
			continue
		}
		p := []string{string(s.Op)}
		for _, pt := range s.Pts {
			p = append(p, num(pt.X), num(pt.Y))
		}
		parts = append(parts, strings.Join(p, " "))
	}
	return strings.Join(parts, " ")
}

func renderFrames(buf *bytes.Buffer, frames []Frame) {
	for _, f := range frames {
		fmt.Fprintf(buf, `  <rect class="frame" data-frame="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#e4572e" stroke-width="1" stroke-dasharray="4 2"/>`+"\n",
			escapeXML(f.Name), num(f.Rect.X), num(f.Rect.Y), num(f.Rect.Width), num(f.Rect.Height))
	}
}
