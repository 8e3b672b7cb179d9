package placement

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/observability"
	"github.com/matzehuels/yardbook/pkg/scene"
	"github.com/matzehuels/yardbook/pkg/transform"
)

// Engine places the units of a document.
type Engine struct {
	opts Options
}

// New validates opts, fills in defaults and returns an Engine.
func New(opts Options) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Options returns the validated options of the engine.
func (e *Engine) Options() Options { return e.opts }

// Run places units FirstUnit..LastUnit of doc in increasing index order,
// mutating doc in place. A failed unit never stops the run; it is rolled back
// and recorded in the report.
//
// ctx is checked between units. When it is done the report covers the units
// attempted so far and Run returns ctx.Err(). The report is never nil.
func (e *Engine) Run(ctx context.Context, doc *scene.Document) (*Report, error) {
	report := &Report{}
	if doc == nil {
		return report, errors.New(errors.ErrCodeInvalidInput, "placement: nil document")
	}

	start := time.Now()
	hooks := observability.Placement()
	hooks.OnRunStart(ctx, e.opts.LastUnit-e.opts.FirstUnit+1)
	finish := func() {
		report.Duration = time.Since(start)
		hooks.OnRunComplete(ctx, report.Placed, report.Failed, report.Duration)
	}

	for i := e.opts.FirstUnit; i <= e.opts.LastUnit; i++ {
		if err := ctx.Err(); err != nil {
			report.Canceled = true
			finish()
			e.opts.Logger.Warn("placement canceled", "next_unit", i)
			return report, err
		}
		u, err := e.place(doc, i)
		hooks.OnUnitComplete(ctx, i, u.State.String(), len(u.Warnings), u.Duration, err)
		report.add(u)
	}

	finish()
	e.opts.Logger.Info("placement complete",
		"placed", report.Placed, "failed", report.Failed, "warnings", report.Warnings,
		"took", report.Duration.Round(time.Millisecond))
	return report, nil
}

// place runs the state machine of unit i and returns its report together
// with the error that failed it, if any.
func (e *Engine) place(doc *scene.Document, i int) (UnitReport, error) {
	start := time.Now()
	r := &unitRun{
		opts: &e.opts,
		doc:  doc,
		log:  e.opts.Logger.With("unit", i),
		rep:  UnitReport{Unit: i, State: StatePending},
	}

	err := r.run()
	r.rep.Duration = time.Since(start)
	if err != nil {
		issue := newIssue(r.state, err)
		r.rep.Error = &issue
		r.rep.State = StateFailed
		r.log.Error("unit failed", "step", r.state, "code", issue.Code, "err", issue.Message)
		return r.rep, err
	}
	r.rep.State = StateDone
	r.log.Debug("unit state", "state", StateDone)
	return r.rep, nil
}

// unitRun carries the progress of one unit.
type unitRun struct {
	opts  *Options
	doc   *scene.Document
	log   *log.Logger
	rep   UnitReport
	state State
}

func (r *unitRun) advance(s State) {
	r.state = s
	r.log.Debug("unit state", "state", s)
}

// warn records err against the current step, once per distinct message.
func (r *unitRun) warn(err error) {
	issue := newIssue(r.state, err)
	for _, w := range r.rep.Warnings {
		if w.Code == issue.Code && w.Message == issue.Message {
			return
		}
	}
	r.rep.Warnings = append(r.rep.Warnings, issue)
	r.log.Warn(issue.Message, "step", r.state, "code", issue.Code)
}

func (r *unitRun) run() (err error) {
	u, err := r.opts.Resolver.Resolve(r.doc, r.rep.Unit)
	if err != nil {
		return err
	}
	r.rep.ID = u.Root.ID()

	cp := r.doc.Checkpoint(u.Root)
	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		if rerr := cp.Restore(); rerr != nil {
			r.log.Error("rollback failed", "err", rerr)
		}
	}()

	before := r.meanScale(u.Root)
	if r.opts.ResetTransforms {
		if err := r.doc.SetTransform(u.Root, geom.Identity()); err != nil {
			return err
		}
	}

	if err := r.rotate(u); err != nil {
		return err
	}
	r.advance(StateRotated)

	measured, err := transform.Measure(r.doc, u.Terrain...)
	if err != nil {
		return err
	}
	r.rep.Measured = measured
	r.advance(StateMeasured)

	if err := r.fit(u, measured, before); err != nil {
		return err
	}
	r.advance(StateFitted)

	if u.Green == nil {
		return nil
	}
	clone, restore, err := r.extract(u.Green)
	undo = append(undo, restore)
	if err != nil {
		return err
	}
	r.advance(StateGreenExtracted)

	gm, err := transform.Measure(r.doc, clone)
	if err != nil {
		return err
	}
	r.advance(StateGreenMeasured)

	if err := r.fitGreen(clone, gm); err != nil {
		return err
	}
	r.advance(StateGreenFitted)
	return nil
}

// rotate turns the unit about its terrain bounding-box center so the vector
// from the terrain centroid to the green centroid points along the
// configured direction.
func (r *unitRun) rotate(u Unit) error {
	if u.Green == nil {
		r.warn(errors.MissingSubtree("unit %q has no green; orientation and detail are skipped", u.Root.ID()))
		return nil
	}

	terrain := geom.CompositeCentroid(scene.Polygons(u.Terrain...)...)
	green := geom.Centroid(scene.VerticesOf(u.Green))
	r.rep.TerrainCentroid, r.rep.GreenCentroid = terrain.Method.String(), green.Method.String()
	if terrain.Method.Degraded() {
		r.log.Warn("centroid fallback", "role", "terrain", "method", terrain.Method)
	}
	if green.Method.Degraded() {
		r.log.Warn("centroid fallback", "role", "green", "method", green.Method)
	}

	angle, ok := geom.RotationAngle(terrain.Point, green.Point, r.opts.Direction)
	if !ok {
		r.warn(errors.DegenerateGeometry("green centroid %v coincides with terrain centroid; orientation kept", green.Point))
		return nil
	}
	if angle == 0 {
		return nil
	}

	bounds, err := transform.Measure(r.doc, u.Terrain...)
	if err != nil {
		return err
	}
	if err := applyCanonical(r.doc, u.Root, geom.RotateAbout(angle, bounds.Center())); err != nil {
		return err
	}
	r.rep.Rotation = angle
	return nil
}

// fit scales and moves the unit into the placement box, relocates it and
// adjusts its strokes. before is the unit's mean cumulative scale before the
// run touched it.
func (r *unitRun) fit(u Unit, measured geom.Rect, before float64) error {
	box := r.opts.Placement
	f, err := Fit(measured, box)
	if err != nil {
		return err
	}

	m := f.Matrix(measured)
	placed := f.Placed(measured)
	if r.opts.LeftInset > 0 {
		left := math.Min(box.X+r.opts.LeftInset, box.Rect().Right()-placed.Width)
		m = geom.Translate(left-placed.X, 0).Mul(m)
		placed.X = left
	}
	if err := applyCanonical(r.doc, u.Root, m); err != nil {
		return err
	}
	r.rep.Scale, r.rep.Placed = f.Scale, placed

	if err := r.relocate(u.Root); err != nil {
		return err
	}

	s := f.Scale
	if after := r.meanScale(u.Root); before > 0 && after > 0 {
		s = after / before
	}
	return r.strokes(u.Root, s)
}

// relocate moves the placed unit under the placement parent, keeping its
// canonical transform.
func (r *unitRun) relocate(n *scene.Node) error {
	if r.opts.PlacementParent == "" {
		return nil
	}
	parent, ok := r.doc.Lookup(r.opts.PlacementParent)
	if !ok || !parent.Caps().Children || parent == n.Parent() || parent == n {
		return nil
	}
	for p := parent; p != nil; p = p.Parent() {
		if p == n {
			return nil
		}
	}

	inv, ok := parent.CumulativeTransform().Invert()
	if !ok {
		return errors.DegenerateGeometry("placement parent %q has a singular transform", parent.ID())
	}
	canonical := n.CumulativeTransform()
	if err := r.doc.Move(n, parent, parent.NumChildren()); err != nil {
		return err
	}
	r.log.Debug("relocated", "parent", parent.Path())
	return r.doc.SetTransform(n, inv.Mul(canonical))
}

// extract inserts a copy of green into the detail parent, rendering where
// green does. The returned function undoes the insertion and is never nil.
func (r *unitRun) extract(green *scene.Node) (*scene.Node, func(), error) {
	undo := func() {}
	clone := scene.Clone(green, scene.Suffix(r.opts.CloneSuffix))
	parent, index := r.detailTarget()

	if prev, ok := r.doc.Find(clone.ID()); ok {
		cp := r.doc.Checkpoint(prev)
		prevParent, prevIndex := prev.Parent(), prev.Index()
		if err := r.doc.Detach(prev); err != nil {
			return nil, undo, err
		}
		if prevParent == parent {
			index = prevIndex
		} else {
			parent, index = r.detailTarget()
		}
		undo = func() {
			if err := cp.Restore(); err != nil {
				r.log.Error("restore previous clone failed", "id", prev.ID(), "err", err)
			}
		}
		r.log.Debug("replacing previous green clone", "id", prev.ID())
	}

	inv, ok := parent.CumulativeTransform().Invert()
	if !ok {
		return nil, undo, errors.DegenerateGeometry("detail parent %q has a singular transform", parent.ID())
	}
	clone.Transform = inv.Mul(green.CumulativeTransform())
	if err := r.doc.Insert(parent, index, clone); err != nil {
		return nil, undo, err
	}

	restorePrev := undo
	undo = func() {
		if clone.Attached() {
			_ = r.doc.Detach(clone)
		}
		restorePrev()
	}
	r.rep.GreenClone = clone.ID()
	return clone, undo, nil
}

// detailTarget returns the parent and position for the next green clone.
func (r *unitRun) detailTarget() (*scene.Node, int) {
	if r.opts.DetailParent != "" {
		if p, ok := r.doc.Lookup(r.opts.DetailParent); ok && p.Caps().Children {
			if r.opts.DetailAnchor != "" {
				for i, c := range p.Children() {
					if c.ID() == r.opts.DetailAnchor || strings.EqualFold(c.Label, r.opts.DetailAnchor) {
						return p, i
					}
				}
			}
			return p, p.NumChildren()
		}
	}
	root := r.doc.Root()
	return root, root.NumChildren()
}

func (r *unitRun) fitGreen(clone *scene.Node, measured geom.Rect) error {
	f, err := Fit(measured, r.opts.Detail)
	if err != nil {
		return err
	}
	if err := applyCanonical(r.doc, clone, f.Matrix(measured)); err != nil {
		return err
	}
	r.rep.GreenScale, r.rep.GreenPlaced = f.Scale, f.Placed(measured)
	return r.strokes(clone, f.Scale)
}

// strokes adjusts the stroke widths below n after its rendering scale grew
// by s.
func (r *unitRun) strokes(n *scene.Node, s float64) error {
	var (
		count int
		err   error
	)
	switch r.opts.StrokeMode {
	case StrokeCompensate:
		count, err = transform.CompensateStroke(n, s)
	case StrokeTarget:
		count, err = transform.NormalizeStroke(n, r.opts.TargetStroke)
	}
	r.rep.Strokes += count
	if err != nil && errors.IsWarning(err) {
		r.warn(err)
		return nil
	}
	return err
}

// meanScale returns the mean cumulative scale of n, recording a warning when
// it could only be approximated.
func (r *unitRun) meanScale(n *scene.Node) float64 {
	sf, err := transform.CumulativeScale(n.Chain())
	if err != nil {
		r.warn(err)
	} else if sf.Approximate {
		r.log.Warn("approximate cumulative scale", "node", n.Path(), "x", sf.X, "y", sf.Y)
	}
	return sf.Mean()
}

// applyCanonical composes m, expressed in canonical space, onto n's local
// transform.
func applyCanonical(doc *scene.Document, n *scene.Node, m geom.Matrix) error {
	p := n.ParentTransform()
	inv, ok := p.Invert()
	if !ok {
		return errors.DegenerateGeometry("parent transform of %q is singular", n.ID())
	}
	return doc.SetTransform(n, inv.Mul(m).Mul(p).Mul(n.Transform))
}
