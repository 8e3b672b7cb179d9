package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

// tolerance is the relative slack used when classifying a linear map.
const tolerance = 1e-9

// ScaleFactors are the scale factors implied by a transform chain.
type ScaleFactors struct {
	X, Y float64
	// Uniform is the geometric mean of the singular values, the scale that
	// preserves area.
	Uniform float64
	// Rotated is set when the composite has off-diagonal terms.
	Rotated bool
	// Approximate is set when X and Y do not describe the composite exactly
	// along canonical axes.
	Approximate bool
	// Skewed is set when the transformed basis vectors are not orthogonal.
	Skewed bool
}

// Mean returns the average of the axis factors.
func (s ScaleFactors) Mean() float64 { return (s.X + s.Y) / 2 }

// Linear composes the linear parts of chain, outermost first, dropping every
// translation.
func Linear(chain []geom.Matrix) geom.Matrix {
	m := geom.Identity()
	for _, t := range chain {
		m = m.Mul(t.Linear())
	}
	return m
}

// CumulativeScale returns the scale factors of the composed chain. The chain
// is ordered from the outermost transform down, as returned by Node.Chain.
//
// The factors are always usable. The returned error is non-nil only for a
// skewed chain and carries UNSUPPORTED_TRANSFORM; callers record it as a
// warning.
func CumulativeScale(chain []geom.Matrix) (ScaleFactors, error) {
	return Decompose(Linear(chain))
}

// Decompose splits the linear part of m into scale factors.
func Decompose(m geom.Matrix) (ScaleFactors, error) {
	a, b, c, d := m[0], m[1], m[2], m[3]
	if !m.Linear().IsFinite() {
		return ScaleFactors{}, errors.UnsupportedTransform("non-finite linear part %v", m.Linear())
	}

	sx, sy := math.Hypot(a, b), math.Hypot(c, d)
	out := ScaleFactors{X: sx, Y: sy, Uniform: math.Sqrt(math.Abs(a*d - b*c))}
	scale := math.Max(sx, sy)
	if scale == 0 {
		return out, nil
	}

	if math.Abs(b) <= tolerance*scale && math.Abs(c) <= tolerance*scale {
		out.X, out.Y = math.Abs(a), math.Abs(d)
		return out, nil
	}
	out.Rotated = true

	sigma := singularValues(a, b, c, d)
	if sigma[0]-sigma[1] <= tolerance*sigma[0] {
		out.X, out.Y = sigma[0], sigma[0]
		return out, nil
	}

	// Rotation then non-uniform scale (S·R) keeps the rows orthogonal and
	// scales the canonical axes; scale then rotation (R·S) keeps the columns
	// orthogonal and scales the local axes.
	out.Approximate = true
	if rx, ry := math.Hypot(a, c), math.Hypot(b, d); math.Abs(a*b+c*d) <= tolerance*rx*ry {
		out.X, out.Y = rx, ry
		return out, nil
	}
	if math.Abs(a*c+b*d) <= tolerance*sx*sy {
		return out, nil
	}
	out.Skewed = true
	return out, errors.UnsupportedTransform(
		"skewed transform [%g %g %g %g]: approximating scale as %g×%g", a, b, c, d, sx, sy)
}

// singularValues returns the singular values of [[a c] [b d]], largest first.
func singularValues(a, b, c, d float64) [2]float64 {
	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(2, 2, []float64{a, c, b, d}), mat.SVDNone) {
		h := math.Hypot(a, b)
		v := math.Hypot(c, d)
		return [2]float64{math.Max(h, v), math.Min(h, v)}
	}
	vals := svd.Values(nil)
	return [2]float64{vals[0], vals[1]}
}
