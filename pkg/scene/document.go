package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

// RootID is the id of every document's root group.
const RootID = "root"

// Document is a tree of nodes with an id index.
//
// A Document is not safe for concurrent use.
type Document struct {
	// Width and Height describe the canvas in user units. They are carried
	// through serialization and used by sinks; the engine ignores them.
	Width  float64
	Height float64

	root *Node
	byID map[string]*Node
}

// New returns an empty document of the given canvas size.
func New(width, height float64) *Document {
	d := &Document{Width: width, Height: height, byID: make(map[string]*Node)}
	d.root = newNode(RootID, KindGroup, nil)
	d.root.doc = d
	d.byID[RootID] = d.root
	return d
}

// Root returns the root group. Its transform is always the identity, so its
// local space is canonical space.
func (d *Document) Root() *Node { return d.root }

// Find returns the node with the given id.
func (d *Document) Find(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// FindLabel returns the first node in document order whose label equals
// label, ignoring case.
func (d *Document) FindLabel(label string) (*Node, bool) {
	var found *Node
	Walk(d.root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Label != "" && strings.EqualFold(n.Label, label) {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Lookup resolves key as an id first and a label second.
func (d *Document) Lookup(key string) (*Node, bool) {
	if n, ok := d.Find(key); ok {
		return n, true
	}
	return d.FindLabel(key)
}

// Len returns the number of nodes in the tree, the root included.
func (d *Document) Len() int {
	count := 0
	Walk(d.root, func(*Node) bool { count++; return true })
	return count
}

// Append attaches the detached subtree child as the last child of parent.
func (d *Document) Append(parent, child *Node) error {
	if parent == nil {
		return errors.New(errors.ErrCodeInvalidInput, "append: nil parent")
	}
	return d.Insert(parent, len(parent.children), child)
}

// Insert attaches the detached subtree child under parent at position i.
// Ids in the subtree must not collide with ids already in the document; on
// collision nothing is attached.
func (d *Document) Insert(parent *Node, i int, child *Node) error {
	switch {
	case parent == nil || child == nil:
		return errors.New(errors.ErrCodeInvalidInput, "insert: nil node")
	case parent.doc != d:
		return errors.New(errors.ErrCodeInvalidInput, "insert: parent %q is not in this document", parent.id)
	case !parent.Caps().Children:
		return errors.New(errors.ErrCodeInvalidInput, "insert: %s %q cannot have children", parent.kind, parent.id)
	case child.parent != nil || child.doc != nil:
		return errors.New(errors.ErrCodeInvalidInput, "insert: node %q is already attached", child.id)
	case i < 0 || i > len(parent.children):
		return errors.New(errors.ErrCodeInvalidInput, "insert: index %d out of range [0,%d]", i, len(parent.children))
	}

	var ids []string
	var dup string
	Walk(child, func(n *Node) bool {
		if n.id == "" {
			return true
		}
		if _, taken := d.byID[n.id]; taken || slices.Contains(ids, n.id) {
			dup = n.id
			return false
		}
		ids = append(ids, n.id)
		return true
	})
	if dup != "" {
		return errors.New(errors.ErrCodeInvalidInput, "insert: duplicate id %q", dup)
	}

	Walk(child, func(n *Node) bool {
		n.doc = d
		if n.id != "" {
			d.byID[n.id] = n
		}
		return true
	})
	child.parent = parent
	parent.children = slices.Insert(parent.children, i, child)
	return nil
}

// Detach removes n and its subtree from the document. The subtree stays
// intact and may be attached again.
func (d *Document) Detach(n *Node) error {
	switch {
	case n == nil:
		return errors.New(errors.ErrCodeInvalidInput, "detach: nil node")
	case n == d.root:
		return errors.New(errors.ErrCodeInvalidInput, "detach: cannot detach the root")
	case n.doc != d:
		return errors.New(errors.ErrCodeInvalidInput, "detach: node %q is not in this document", n.id)
	}

	if p := n.parent; p != nil {
		if i := slices.Index(p.children, n); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	n.parent = nil
	Walk(n, func(c *Node) bool {
		if c.id != "" && d.byID[c.id] == c {
			delete(d.byID, c.id)
		}
		c.doc = nil
		return true
	})
	return nil
}

// Move detaches n and attaches it under parent at position i, keeping its
// local transform.
func (d *Document) Move(n, parent *Node, i int) error {
	if n == nil || parent == nil {
		return errors.New(errors.ErrCodeInvalidInput, "move: nil node")
	}
	for p := parent; p != nil; p = p.parent {
		if p == n {
			return errors.New(errors.ErrCodeInvalidInput, "move: %q cannot be moved under its own descendant", n.id)
		}
	}
	oldParent, oldIndex := n.parent, n.Index()
	if err := d.Detach(n); err != nil {
		return err
	}
	if oldParent == parent && oldIndex < i {
		i--
	}
	if err := d.Insert(parent, i, n); err != nil {
		if oldParent != nil {
			_ = d.Insert(oldParent, oldIndex, n)
		}
		return err
	}
	return nil
}

// SetTransform replaces the local transform of n.
func (d *Document) SetTransform(n *Node, m geom.Matrix) error {
	switch {
	case n == nil:
		return errors.New(errors.ErrCodeInvalidInput, "set transform: nil node")
	case n.doc != d:
		return errors.New(errors.ErrCodeInvalidInput, "set transform: node %q is not in this document", n.id)
	case n == d.root && !m.IsIdentity():
		return errors.New(errors.ErrCodeUnsupported, "set transform: the root transform is fixed to identity")
	case !m.IsFinite():
		return errors.New(errors.ErrCodeInvalidInput, "set transform: non-finite matrix %v for %q", m, n.id)
	}
	n.Transform = m
	return nil
}

// Clone returns a detached deep copy of n. Each non-empty id is passed through
// rename; a nil rename makes every copied node anonymous.
func Clone(n *Node, rename func(id string) string) *Node {
	copyOf := func(src *Node) *Node {
		dst := &Node{
			Label:     src.Label,
			Transform: src.Transform,
			Style:     src.Style,
			kind:      src.kind,
		}
		if src.shape != nil {
			dst.shape = src.shape.clone()
		}
		if src.id != "" && rename != nil {
			dst.id = rename(src.id)
		}
		return dst
	}

	type pair struct{ src, dst *Node }
	top := copyOf(n)
	stack := []pair{{n, top}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range p.src.children {
			cc := copyOf(c)
			cc.parent = p.dst
			p.dst.children = append(p.dst.children, cc)
			stack = append(stack, pair{c, cc})
		}
	}
	return top
}

// Suffix returns a rename function for Clone that appends suffix to every id.
func Suffix(suffix string) func(string) string {
	return func(id string) string { return id + suffix }
}

// Walk visits n and its descendants in document order. If fn returns false
// the children of the visited node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// Path returns a human-readable location of n such as "root/hole_01/green_01".
// Anonymous nodes are shown by kind and sibling index.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		name := cur.id
		if name == "" {
			name = fmt.Sprintf("%s[%d]", cur.kind, cur.Index())
		}
		parts = append(parts, name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}
