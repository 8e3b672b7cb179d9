package transform

import (
	"math"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// DefaultStrokePaint is used by NormalizeStroke for nodes without a stroke paint.
const DefaultStrokePaint = "#000000"

// CompensateStroke divides the stroke width of every stroke-bearing node in
// n's subtree by s, the scale just baked into the subtree, and returns the
// number of nodes changed.
func CompensateStroke(n *scene.Node, s float64) (int, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 0, errors.DegenerateGeometry("stroke compensation needs a positive scale, got %g", s)
	}
	nodes := scene.StrokeNodes(n)
	for _, c := range nodes {
		c.Style.StrokeWidth /= s
	}
	return len(nodes), nil
}

// NormalizeStroke gives every node in n's subtree that can carry a stroke a
// width that renders as target, dividing by the node's own cumulative scale.
// It returns the number of nodes changed and the first UNSUPPORTED_TRANSFORM
// warning met, if any.
func NormalizeStroke(n *scene.Node, target float64) (int, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "target stroke width must be positive, got %g", target)
	}
	var (
		count int
		warn  error
	)
	scene.Walk(n, func(c *scene.Node) bool {
		if !c.Caps().Stroke {
			return true
		}
		sf, err := CumulativeScale(c.Chain())
		if err != nil && warn == nil {
			warn = err
		}
		scale := sf.Mean()
		if scale <= 0 || math.IsNaN(scale) {
			scale = 1
		}
		c.Style.StrokeWidth = target / scale
		if c.Style.Stroke == "" {
			c.Style.Stroke = DefaultStrokePaint
		}
		count++
		return true
	})
	return count, warn
}
