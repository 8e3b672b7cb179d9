package geom

import "math"

// AreaEpsilon is the smallest absolute signed area treated as a real polygon.
// Anything smaller falls through to the next rung of the centroid ladder.
const AreaEpsilon = 1e-4

// CentroidMethod identifies which rung of the fallback ladder produced a centroid.
type CentroidMethod int

const (
	// MethodShoelace is the signed-area centroid of the closed polygon.
	MethodShoelace CentroidMethod = iota
	// MethodBoundsCenter is the center of the vertices' bounding box.
	MethodBoundsCenter
	// MethodVertexMean is the arithmetic mean of the finite vertices.
	MethodVertexMean
	// MethodEmpty means no finite vertex was supplied; the point is the origin.
	MethodEmpty
)

func (m CentroidMethod) String() string {
	switch m {
	case MethodShoelace:
		return "shoelace"
	case MethodBoundsCenter:
		return "bounds-center"
	case MethodVertexMean:
		return "vertex-mean"
	case MethodEmpty:
		return "empty"
	}
	return "unknown"
}

// Degraded reports whether the method is anything other than the shoelace centroid.
func (m CentroidMethod) Degraded() bool { return m != MethodShoelace }

// CentroidResult is a centroid together with the method that produced it.
type CentroidResult struct {
	Point  Point
	Method CentroidMethod
	// Area is the signed polygon area computed on the first rung, zero when
	// fewer than three vertices were supplied.
	Area float64
}

// Centroid returns the centroid of the closed polygon pts.
//
// The last vertex connects back to the first. If the polygon has fewer than
// three vertices, an area with |area| <= AreaEpsilon, or a non-finite result,
// the bounding-box center is used instead; if that is not finite either, the
// mean of the finite vertices is returned. Centroid never fails.
func Centroid(pts []Point) CentroidResult {
	var res CentroidResult
	if len(pts) >= 3 {
		p, area, ok := shoelace(pts)
		res.Area = area
		if ok {
			res.Point = p
			res.Method = MethodShoelace
			return res
		}
	}

	if r, ok := BoundsOf(pts); ok {
		if c := r.Center(); c.IsFinite() {
			res.Point = c
			res.Method = MethodBoundsCenter
			return res
		}
	}

	if p, ok := vertexMean(pts); ok {
		res.Point = p
		res.Method = MethodVertexMean
		return res
	}

	res.Method = MethodEmpty
	return res
}

// CompositeCentroid returns the centroid of a region made of several closed
// polygons. Each polygon is reduced with Centroid; polygons with a shoelace
// centroid are weighted by their absolute area. When no polygon has area the
// centroids of the non-empty ones are averaged and the most degraded method
// among them is reported.
func CompositeCentroid(polys ...[]Point) CentroidResult {
	var (
		sx, sy, total float64
		mx, my        float64
		n             int
		worst         = MethodShoelace
	)
	for _, pts := range polys {
		c := Centroid(pts)
		if c.Method == MethodEmpty {
			continue
		}
		if c.Method == MethodShoelace {
			a := math.Abs(c.Area)
			sx += a * c.Point.X
			sy += a * c.Point.Y
			total += a
		}
		mx += c.Point.X
		my += c.Point.Y
		n++
		worst = max(worst, c.Method)
	}

	if total > AreaEpsilon {
		p := Point{sx / total, sy / total}
		if p.IsFinite() {
			return CentroidResult{Point: p, Method: MethodShoelace, Area: total}
		}
	}
	if n == 0 {
		return CentroidResult{Method: MethodEmpty}
	}
	return CentroidResult{Point: Point{mx / float64(n), my / float64(n)}, Method: max(worst, MethodBoundsCenter)}
}

func shoelace(pts []Point) (Point, float64, bool) {
	var area, cx, cy float64
	n := len(pts)
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		area += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	area /= 2
	if !finite(area) || math.Abs(area) <= AreaEpsilon {
		return Point{}, area, false
	}
	c := Point{cx / (6 * area), cy / (6 * area)}
	return c, area, c.IsFinite()
}

func vertexMean(pts []Point) (Point, bool) {
	var sx, sy float64
	n := 0
	for _, p := range pts {
		if !p.IsFinite() {
			continue
		}
		sx += p.X
		sy += p.Y
		n++
	}
	if n == 0 {
		return Point{}, false
	}
	p := Point{sx / float64(n), sy / float64(n)}
	return p, p.IsFinite()
}
