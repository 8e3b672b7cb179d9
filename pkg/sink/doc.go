// Package sink renders a placed [scene.Document] into output formats.
//
// # Overview
//
// A "sink" turns the in-memory node tree into bytes:
//
//   - SVG: the document itself, with every group transform preserved
//   - PDF: a vector preview with geometry flattened into page space
//   - DOT: the node hierarchy, for inspecting how a document is grouped
//
// # SVG Output
//
// [RenderSVG] writes one element per node. Groups become <g> elements
// carrying their local transform, so an editor that opens the output sees
// the same structure the engine worked on:
//
//	svg := sink.RenderSVG(doc,
//	    sink.WithFrames(sink.Frame{Name: "placement", Rect: box}),
//	    sink.WithBackground("#ffffff"),
//	)
//
// [WithFrames] overlays dashed outlines, useful when checking a run against
// its target boxes.
//
// # PDF Output
//
// [RenderPDF] draws with fpdf. Page size follows the document canvas
// (96 user units per inch). Each shape is transformed into page space before
// drawing, so the PDF has no nested transforms. Stroke widths are scaled by
// the mean cumulative scale of their node.
//
// # Tree Output
//
// [ToDOT] describes the hierarchy as a Graphviz digraph and [RenderTreeSVG]
// lays it out through go-graphviz.
package sink
