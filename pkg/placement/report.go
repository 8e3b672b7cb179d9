package placement

import (
	"fmt"
	"time"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

// Issue is a warning or error recorded against one step of one unit.
type Issue struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	// Step is the state the unit was leaving when the issue arose.
	Step State `json:"step"`
}

func newIssue(step State, err error) Issue {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return Issue{Code: code, Message: errors.UserMessage(err), Step: step}
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Step, i.Message)
}

// UnitReport describes what a run did to one unit.
type UnitReport struct {
	Unit int    `json:"unit"`
	ID   string `json:"id,omitempty"`
	// State is StateDone or StateFailed after a run.
	State State `json:"state"`

	// Rotation is the applied rotation in degrees.
	Rotation float64 `json:"rotation"`
	// TerrainCentroid and GreenCentroid name the centroid method used for
	// each role, empty when no centroid was computed.
	TerrainCentroid string `json:"terrain_centroid,omitempty"`
	GreenCentroid   string `json:"green_centroid,omitempty"`

	// Measured is the canonical extent of the rotated terrain; Placed is
	// where the fit put it.
	Measured geom.Rect `json:"measured"`
	Placed   geom.Rect `json:"placed"`
	Scale    float64   `json:"scale"`

	// GreenClone is the id of the green's detail copy.
	GreenClone  string    `json:"green_clone,omitempty"`
	GreenPlaced geom.Rect `json:"green_placed"`
	GreenScale  float64   `json:"green_scale,omitempty"`

	// Strokes counts the stroke widths changed.
	Strokes int `json:"strokes"`

	Warnings []Issue `json:"warnings,omitempty"`
	Error    *Issue  `json:"error,omitempty"`

	Duration time.Duration `json:"duration"`
}

// Failed reports whether the unit ended in StateFailed.
func (u UnitReport) Failed() bool { return u.State == StateFailed }

// Report aggregates every unit of a run in index order.
type Report struct {
	Units    []UnitReport  `json:"units"`
	Placed   int           `json:"placed"`
	Failed   int           `json:"failed"`
	Warnings int           `json:"warnings"`
	Duration time.Duration `json:"duration"`
	// Canceled is set when the run stopped early; units after the last
	// report were not attempted.
	Canceled bool `json:"canceled,omitempty"`
}

func (r *Report) add(u UnitReport) {
	r.Units = append(r.Units, u)
	r.Warnings += len(u.Warnings)
	if u.Failed() {
		r.Failed++
	} else {
		r.Placed++
	}
}

// Unit returns the report of unit i.
func (r *Report) Unit(i int) (UnitReport, bool) {
	for _, u := range r.Units {
		if u.Unit == i {
			return u, true
		}
	}
	return UnitReport{}, false
}

// FailedUnits returns the indices of every failed unit.
func (r *Report) FailedUnits() []int {
	var out []int
	for _, u := range r.Units {
		if u.Failed() {
			out = append(out, u.Unit)
		}
	}
	return out
}

// Succeeded reports whether every attempted unit was placed.
func (r *Report) Succeeded() bool { return r.Failed == 0 && !r.Canceled }
