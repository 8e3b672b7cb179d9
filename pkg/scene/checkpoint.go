package scene

import (
	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

// Checkpoint records the transforms, styles and position of a subtree so a
// multi-step edit can be undone.
type Checkpoint struct {
	doc    *Document
	node   *Node
	parent *Node
	index  int
	saved  map[*Node]nodeState
}

type nodeState struct {
	transform geom.Matrix
	style     Style
}

// Checkpoint captures the current state of n's subtree.
func (d *Document) Checkpoint(n *Node) *Checkpoint {
	cp := &Checkpoint{
		doc:    d,
		node:   n,
		parent: n.parent,
		index:  n.Index(),
		saved:  make(map[*Node]nodeState),
	}
	Walk(n, func(c *Node) bool {
		cp.saved[c] = nodeState{transform: c.Transform, style: c.Style}
		return true
	})
	return cp
}

// Restore puts the subtree back where it was and resets every recorded
// transform and style. Nodes added to the subtree after the checkpoint are
// left in place.
func (cp *Checkpoint) Restore() error {
	n := cp.node
	if n.parent != cp.parent && cp.parent != nil {
		if n.doc == cp.doc {
			if err := cp.doc.Detach(n); err != nil {
				return err
			}
		}
		i := min(cp.index, cp.parent.NumChildren())
		if err := cp.doc.Insert(cp.parent, i, n); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "restore %q", n.id)
		}
	}
	for c, st := range cp.saved {
		c.Transform = st.transform
		c.Style = st.style
	}
	return nil
}
