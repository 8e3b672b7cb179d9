package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/yardbook/pkg/scene"
)

// DOTOptions configures hierarchy diagrams.
type DOTOptions struct {
	// Detailed adds label, kind and transform to every node box.
	Detailed bool
	// MaxDepth limits the tree depth shown. Zero shows everything.
	MaxDepth int
}

// ToDOT describes the node hierarchy of doc as a Graphviz digraph. Anonymous
// nodes are named by their path in the tree.
func ToDOT(doc *scene.Document, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	depth := map[*scene.Node]int{doc.Root(): 0}
	var edges [][2]string
	scene.Walk(doc.Root(), func(n *scene.Node) bool {
		d := depth[n]
		name := dotName(n)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(dotAttrs(n, opts.Detailed), ", "))
		if p := n.Parent(); p != nil {
			edges = append(edges, [2]string{dotName(p), name})
		}
		if opts.MaxDepth > 0 && d >= opts.MaxDepth {
			return false
		}
		for _, c := range n.Children() {
			depth[c] = d + 1
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotName(n *scene.Node) string {
	if n.ID() != "" {
		return n.ID()
	}
	return n.Path()
}

func dotAttrs(n *scene.Node, detailed bool) []string {
	label := dotName(n)
	if detailed {
		parts := []string{label, "kind: " + n.Kind().String()}
		if n.Label != "" {
			parts = append(parts, "label: "+n.Label)
		}
		if !n.Transform.IsIdentity() {
			parts = append(parts, "transform: "+n.Transform.String())
		}
		if n.HasStroke() {
			parts = append(parts, "stroke: "+num(n.Style.StrokeWidth))
		}
		label = strings.Join(parts, "\n")
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Kind() == scene.KindGroup:
		attrs = append(attrs, "fillcolor=\"#eef3e2\"")
	case n.Kind() == scene.KindText:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderTreeSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's root element so the output scales
// with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
