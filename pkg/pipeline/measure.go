package pipeline

import (
	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/scene"
	"github.com/matzehuels/yardbook/pkg/transform"
)

// Measurement is the canonical extent and cumulative scale of one node.
type Measurement struct {
	ID     string                 `json:"id"`
	Path   string                 `json:"path"`
	Bounds geom.Rect              `json:"bounds"`
	Scale  transform.ScaleFactors `json:"scale"`
	// Warning is set when the scale is only an approximation.
	Warning string `json:"warning,omitempty"`
}

// Measure reports the nodes named by keys (id or label). With no keys every
// top-level node is measured; top-level nodes without geometry are skipped.
// The document is left unchanged.
func Measure(doc *scene.Document, keys ...string) ([]Measurement, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}

	var nodes []*scene.Node
	all := len(keys) == 0
	if all {
		nodes = doc.Root().Children()
	}
	for _, k := range keys {
		n, ok := doc.Lookup(k)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", k)
		}
		if n == doc.Root() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "the root cannot be measured; name one of its children")
		}
		nodes = append(nodes, n)
	}

	out := make([]Measurement, 0, len(nodes))
	for _, n := range nodes {
		bounds, err := transform.Measure(doc, n)
		if err != nil {
			if all && errors.Is(err, errors.ErrCodeMeasurement) {
				continue
			}
			return nil, errors.Wrap(errors.GetCode(err), err, "measure %s", n.Path())
		}
		m := Measurement{ID: n.ID(), Path: n.Path(), Bounds: bounds}
		m.Scale, err = transform.CumulativeScale(n.Chain())
		if err != nil {
			m.Warning = errors.UserMessage(err)
		}
		out = append(out, m)
	}
	return out, nil
}
