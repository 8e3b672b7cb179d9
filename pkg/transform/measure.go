package transform

import (
	"github.com/google/uuid"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// ScratchPrefix starts the id of every scratch group.
const ScratchPrefix = "_measure-"

// Scratch is a temporary group attached directly under a document root.
// It must be released; Release is safe to call more than once.
type Scratch struct {
	doc      *scene.Document
	group    *scene.Node
	released bool
}

// Acquire attaches a new, empty scratch group to the root of doc.
func Acquire(doc *scene.Document) (*Scratch, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "acquire scratch: nil document")
	}
	g := scene.NewGroup(ScratchPrefix + uuid.NewString())
	if err := doc.Append(doc.Root(), g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "acquire scratch")
	}
	return &Scratch{doc: doc, group: g}, nil
}

// Add places an anonymous clone of n into the scratch group. The clone's
// transform is n's cumulative transform, so it renders exactly where n does.
func (s *Scratch) Add(n *scene.Node) error {
	if s.released {
		return errors.New(errors.ErrCodeInternal, "scratch already released")
	}
	if n == nil || n.Document() != s.doc {
		return errors.MissingSubtree("measure: node is not part of the document")
	}
	c := scene.Clone(n, nil)
	c.Transform = n.CumulativeTransform()
	return s.doc.Append(s.group, c)
}

// Bounds returns the canonical bounds of everything added so far.
func (s *Scratch) Bounds() (geom.Rect, error) {
	r, ok := scene.LocalBounds(s.group)
	if !ok {
		return geom.Rect{}, errors.Measurement("no drawable geometry")
	}
	if !r.IsFinite() {
		return geom.Rect{}, errors.Measurement("non-finite bounds %v", r)
	}
	return r, nil
}

// Release detaches the scratch group and everything in it.
func (s *Scratch) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	return s.doc.Detach(s.group)
}

// Measure returns the union of the canonical bounds of nodes, leaving doc
// unchanged whether or not it succeeds.
func Measure(doc *scene.Document, nodes ...*scene.Node) (r geom.Rect, err error) {
	if len(nodes) == 0 {
		return geom.Rect{}, errors.Measurement("nothing to measure")
	}
	s, err := Acquire(doc)
	if err != nil {
		return geom.Rect{}, err
	}
	defer func() {
		if rerr := s.Release(); rerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeInternal, rerr, "release scratch")
		}
	}()

	for _, n := range nodes {
		if err := s.Add(n); err != nil {
			return geom.Rect{}, err
		}
	}
	return s.Bounds()
}
