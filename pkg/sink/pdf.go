package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// pointsPerUnit converts 96-per-inch user units into PDF points.
const pointsPerUnit = 72.0 / 96.0

type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	frames []Frame
	title  string
}

// WithPDFFrames overlays dashed outlines of the given rectangles.
func WithPDFFrames(frames ...Frame) PDFOption {
	return func(r *pdfRenderer) { r.frames = append(r.frames, frames...) }
}

// WithTitle sets the PDF document title.
func WithTitle(title string) PDFOption {
	return func(r *pdfRenderer) { r.title = title }
}

// RenderPDF draws doc on a single page sized to its canvas.
func RenderPDF(doc *scene.Document, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := doc.Width, doc.Height
	if w <= 0 || h <= 0 {
		b, ok := scene.LocalBounds(doc.Root())
		if !ok || b.Right() <= 0 || b.Bottom() <= 0 {
			return nil, fmt.Errorf("render pdf: document has no canvas size and no geometry")
		}
		w, h = b.Right(), b.Bottom()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w * pointsPerUnit, Ht: h * pointsPerUnit},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	pdf.SetCreator("yardbook", true)
	pdf.AddPage()

	page := geom.Scale(pointsPerUnit, pointsPerUnit)
	scene.Walk(doc.Root(), func(n *scene.Node) bool {
		if n.Kind() != scene.KindGroup {
			drawNode(pdf, page.Mul(n.CumulativeTransform()), n)
		}
		return true
	})
	drawFrames(pdf, page, r.frames)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawNode draws one shape with m mapping its local space onto the page.
func drawNode(pdf *fpdf.Fpdf, m geom.Matrix, n *scene.Node) {
	scale := math.Sqrt(math.Abs(m.Det()))

	if t, ok := n.Shape().(*scene.Text); ok {
		drawText(pdf, m, scale, n.Style, t)
		return
	}

	style := applyPaint(pdf, n.Style, scale)
	if style == "" {
		return
	}

	switch s := n.Shape().(type) {
	case *scene.Path:
		drawPath(pdf, m, s.Segments, style)
	case *scene.Box, *scene.Ellipse:
		pts := s.Outline()
		poly := make([]fpdf.PointType, len(pts))
		for i, p := range pts {
			q := m.Apply(p)
			poly[i] = fpdf.PointType{X: q.X, Y: q.Y}
		}
		pdf.Polygon(poly, style)
	}
}

// applyPaint sets colors and line width and returns the fpdf style string,
// or "" when the node paints nothing.
func applyPaint(pdf *fpdf.Fpdf, s scene.Style, scale float64) string {
	style := ""
	if c, ok := parseColor(s.Fill); ok {
		pdf.SetFillColor(c.R, c.G, c.B)
		style += "F"
	}
	if c, ok := parseColor(s.Stroke); ok {
		width := s.StrokeWidth
		if width <= 0 {
			width = 1
		}
		pdf.SetDrawColor(c.R, c.G, c.B)
		pdf.SetLineWidth(width * scale)
		style = "D" + style
	}
	return style
}

// drawPath replays segments in page space. Affine maps keep Bezier control
// points valid, so curves are transformed point by point.
func drawPath(pdf *fpdf.Fpdf, m geom.Matrix, segs []scene.Segment, style string) {
	drawn := false
	for _, s := range segs {
		if !s.Valid() {
			continue
		}
		pts := make([]geom.Point, len(s.Pts))
		for i, p := range s.Pts {
			pts[i] = m.Apply(p)
		}
		switch s.Op {
		case scene.MoveTo:
			pdf.MoveTo(pts[0].X, pts[0].Y)
		case scene.LineTo:
			pdf.LineTo(pts[0].X, pts[0].Y)
		case scene.QuadTo:
			pdf.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case scene.CubicTo:
			pdf.CurveBezierCubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case scene.Close:
			pdf.ClosePath()
		}
		drawn = true
	}
	if drawn {
		pdf.DrawPath(style)
	}
}

func drawText(pdf *fpdf.Fpdf, m geom.Matrix, scale float64, s scene.Style, t *scene.Text) {
	if t.Content == "" || t.FontSize <= 0 {
		return
	}
	c, ok := parseColor(s.Fill)
	if !ok {
		c = rgb{}
	}
	at := m.Apply(t.Anchor)
	angle := math.Atan2(m[1], m[0]) * 180 / math.Pi

	pdf.SetTextColor(c.R, c.G, c.B)
	pdf.SetFont("Helvetica", "", t.FontSize*scale)
	pdf.TransformBegin()
	if angle != 0 {
		pdf.TransformRotate(-angle, at.X, at.Y)
	}
	pdf.Text(at.X, at.Y, pdf.UnicodeTranslatorFromDescriptor("")(t.Content))
	pdf.TransformEnd()
}

func drawFrames(pdf *fpdf.Fpdf, page geom.Matrix, frames []Frame) {
	if len(frames) == 0 {
		return
	}
	pdf.SetDrawColor(228, 87, 46)
	pdf.SetLineWidth(0.75)
	pdf.SetDashPattern([]float64{3, 1.5}, 0)
	for _, f := range frames {
		r := page.ApplyRect(f.Rect)
		pdf.Rect(r.X, r.Y, r.Width, r.Height, "D")
	}
	pdf.SetDashPattern(nil, 0)
}
