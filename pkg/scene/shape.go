package scene

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/yardbook/pkg/geom"
)

const (
	// curveSteps is the number of samples taken along each curve segment
	// when computing bounds.
	curveSteps = 16
	// ellipseSteps is the number of samples around an ellipse outline.
	ellipseSteps = 64
	// glyphAdvance and glyphAscent approximate text metrics as fractions of
	// the font size.
	glyphAdvance = 0.6
	glyphAscent  = 0.8
)

// Shape is the geometry payload of a drawable node. The set of shapes is
// closed: Path, Box, Ellipse and Text.
type Shape interface {
	// Vertices returns the vertices that describe the outline, in local
	// coordinates, for centroid computation.
	Vertices() []geom.Point
	// Outline returns the points whose bounds enclose the rendered shape,
	// in local coordinates.
	Outline() []geom.Point

	clone() Shape
}

// Op is a path command.
type Op string

const (
	MoveTo  Op = "M"
	LineTo  Op = "L"
	QuadTo  Op = "Q"
	CubicTo Op = "C"
	Close   Op = "Z"
)

// arity returns the number of points an op takes.
func (o Op) arity() int {
	switch o {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	}
	return 0
}

// Segment is one path command with absolute coordinates. The last point is
// the segment's end point; any points before it are curve controls.
type Segment struct {
	Op  Op           `json:"op"`
	Pts []geom.Point `json:"pts,omitempty"`
}

// Valid reports whether the segment has the right number of points for its op.
func (s Segment) Valid() bool {
	switch s.Op {
	case MoveTo, LineTo, QuadTo, CubicTo, Close:
		return len(s.Pts) == s.Op.arity()
	}
	return false
}

// Polygon returns the segments of a closed polygon through pts.
func Polygon(pts ...geom.Point) []Segment {
	if len(pts) == 0 {
		return nil
	}
	segs := make([]Segment, 0, len(pts)+1)
	segs = append(segs, Segment{Op: MoveTo, Pts: []geom.Point{pts[0]}})
	for _, p := range pts[1:] {
		segs = append(segs, Segment{Op: LineTo, Pts: []geom.Point{p}})
	}
	return append(segs, Segment{Op: Close})
}

// Path is a sequence of absolute path segments.
type Path struct {
	Segments []Segment
}

// Vertices returns the end point of every segment.
func (p *Path) Vertices() []geom.Point {
	pts := make([]geom.Point, 0, len(p.Segments))
	for _, s := range p.Segments {
		if n := len(s.Pts); n > 0 {
			pts = append(pts, s.Pts[n-1])
		}
	}
	return pts
}

// Outline returns segment end points plus samples along curves.
func (p *Path) Outline() []geom.Point {
	var (
		pts     []geom.Point
		current geom.Point
		start   geom.Point
	)
	for _, s := range p.Segments {
		if !s.Valid() {
			continue
		}
		switch s.Op {
		case MoveTo:
			current, start = s.Pts[0], s.Pts[0]
			pts = append(pts, current)
		case LineTo:
			current = s.Pts[0]
			pts = append(pts, current)
		case QuadTo:
			c, end := s.Pts[0], s.Pts[1]
			for i := 1; i <= curveSteps; i++ {
				pts = append(pts, quad(current, c, end, float64(i)/curveSteps))
			}
			current = end
		case CubicTo:
			c1, c2, end := s.Pts[0], s.Pts[1], s.Pts[2]
			for i := 1; i <= curveSteps; i++ {
				pts = append(pts, cubic(current, c1, c2, end, float64(i)/curveSteps))
			}
			current = end
		case Close:
			current = start
		}
	}
	return pts
}

func (p *Path) clone() Shape {
	segs := make([]Segment, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = Segment{Op: s.Op, Pts: append([]geom.Point(nil), s.Pts...)}
	}
	return &Path{Segments: segs}
}

func quad(p0, p1, p2 geom.Point, t float64) geom.Point {
	u := 1 - t
	return geom.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubic(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geom.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Box is an axis-aligned rectangle in local coordinates.
type Box struct {
	Rect geom.Rect
}

func (b *Box) Vertices() []geom.Point {
	r := b.Rect
	return []geom.Point{{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y}, {X: r.Right(), Y: r.Bottom()}, {X: r.X, Y: r.Bottom()}}
}

func (b *Box) Outline() []geom.Point { return b.Vertices() }

func (b *Box) clone() Shape { c := *b; return &c }

// Ellipse is an axis-aligned ellipse in local coordinates.
type Ellipse struct {
	Center geom.Point
	RX, RY float64
}

func (e *Ellipse) Vertices() []geom.Point { return e.sample(ellipseSteps / 2) }

func (e *Ellipse) Outline() []geom.Point { return e.sample(ellipseSteps) }

func (e *Ellipse) sample(n int) []geom.Point {
	pts := make([]geom.Point, n)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = geom.Point{X: e.Center.X + e.RX*cos, Y: e.Center.Y + e.RY*sin}
	}
	return pts
}

func (e *Ellipse) clone() Shape { c := *e; return &c }

// Text is a single line of text anchored at the start of its baseline.
type Text struct {
	Anchor   geom.Point
	Content  string
	FontSize float64
}

// Vertices returns nil: text has no vertex data.
func (t *Text) Vertices() []geom.Point { return nil }

// Outline returns the corners of an estimated text box. Glyph widths are
// approximated as a fixed fraction of the font size.
func (t *Text) Outline() []geom.Point {
	n := utf8.RuneCountInString(t.Content)
	if n == 0 || t.FontSize <= 0 {
		return nil
	}
	w := float64(n) * t.FontSize * glyphAdvance
	top := t.Anchor.Y - t.FontSize*glyphAscent
	bottom := top + t.FontSize
	return []geom.Point{
		{X: t.Anchor.X, Y: top}, {X: t.Anchor.X + w, Y: top},
		{X: t.Anchor.X + w, Y: bottom}, {X: t.Anchor.X, Y: bottom},
	}
}

func (t *Text) clone() Shape { c := *t; return &c }
