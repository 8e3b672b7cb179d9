package geom

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool { return finite(p.X) && finite(p.Y) }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Rect is an axis-aligned rectangle. The coordinate space it lives in is
// always a property of whoever produced it; see the callers.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the maximum x coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// IsFinite reports whether every field is finite.
func (r Rect) IsFinite() bool {
	return finite(r.X) && finite(r.Y) && finite(r.Width) && finite(r.Height)
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.Right(), o.Right())
	maxY := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether o lies inside r, allowing eps of slack per edge.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g %g %g×%g]", r.X, r.Y, r.Width, r.Height)
}

// Bounds accumulates points into a bounding rectangle.
// The zero value is empty and ready to use.
type Bounds struct {
	minX, minY, maxX, maxY float64
	n                      int
}

// Add extends the bounds to include p. Non-finite points are ignored.
func (b *Bounds) Add(p Point) {
	if !p.IsFinite() {
		return
	}
	if b.n == 0 {
		b.minX, b.maxX = p.X, p.X
		b.minY, b.maxY = p.Y, p.Y
	} else {
		b.minX = math.Min(b.minX, p.X)
		b.maxX = math.Max(b.maxX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	b.n++
}

// AddRect extends the bounds to include all four corners of r.
func (b *Bounds) AddRect(r Rect) {
	b.Add(Point{r.X, r.Y})
	b.Add(Point{r.Right(), r.Bottom()})
}

// Empty reports whether no finite point has been added.
func (b *Bounds) Empty() bool { return b.n == 0 }

// Rect returns the accumulated rectangle and false when the bounds are empty.
func (b *Bounds) Rect() (Rect, bool) {
	if b.n == 0 {
		return Rect{}, false
	}
	return Rect{X: b.minX, Y: b.minY, Width: b.maxX - b.minX, Height: b.maxY - b.minY}, true
}

// BoundsOf returns the bounding rectangle of pts.
func BoundsOf(pts []Point) (Rect, bool) {
	var b Bounds
	for _, p := range pts {
		b.Add(p)
	}
	return b.Rect()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
