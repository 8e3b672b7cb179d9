package geom

import (
	"fmt"
	"math"
)

// Matrix is a 2D affine transform in SVG order [a b c d e f].
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns an axis-aligned scale about the origin.
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rotate returns a rotation by deg degrees about the origin.
func Rotate(deg float64) Matrix {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout returns a rotation by deg degrees about pivot.
func RotateAbout(deg float64, pivot Point) Matrix {
	return Translate(pivot.X, pivot.Y).Mul(Rotate(deg)).Mul(Translate(-pivot.X, -pivot.Y))
}

// Mul returns m∘o: the transform that applies o first, then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Apply maps p through m.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyRect returns the axis-aligned bounds of r after mapping its corners.
func (m Matrix) ApplyRect(r Rect) Rect {
	var b Bounds
	b.Add(m.Apply(Point{r.X, r.Y}))
	b.Add(m.Apply(Point{r.Right(), r.Y}))
	b.Add(m.Apply(Point{r.X, r.Bottom()}))
	b.Add(m.Apply(Point{r.Right(), r.Bottom()}))
	out, _ := b.Rect()
	return out
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 { return m[0]*m[3] - m[1]*m[2] }

// Linear returns m with its translation removed.
func (m Matrix) Linear() Matrix { return Matrix{m[0], m[1], m[2], m[3], 0, 0} }

// Invert returns the inverse of m, or false if m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 || !finite(det) {
		return Matrix{}, false
	}
	inv := 1 / det
	a := m[3] * inv
	b := -m[1] * inv
	c := -m[2] * inv
	d := m[0] * inv
	return Matrix{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool { return m == Identity() }

// IsFinite reports whether every coefficient is finite.
func (m Matrix) IsFinite() bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

// String formats m as an SVG transform attribute value.
func (m Matrix) String() string {
	return fmt.Sprintf("matrix(%g,%g,%g,%g,%g,%g)", m[0], m[1], m[2], m[3], m[4], m[5])
}
