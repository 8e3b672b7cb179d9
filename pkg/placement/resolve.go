package placement

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// Unit is one placeable item resolved from a document.
type Unit struct {
	Index int
	// Root is the group whose local transform the engine rewrites.
	Root *scene.Node
	// Terrain holds the subtrees whose combined extent is fitted. When Green
	// is set it is one of them.
	Terrain []*scene.Node
	// Green is nil when the unit has none.
	Green *scene.Node
}

// Resolver finds unit i in a document. A unit that does not exist is a
// MISSING_SUBTREE error; a unit without a green is not an error.
type Resolver interface {
	Resolve(doc *scene.Document, i int) (Unit, error)
}

// Default naming of course documents.
const (
	DefaultUnitPattern  = "hole_%02d"
	DefaultGreenPattern = "green_%02d"
)

// DefaultTerrainLabels are the labels of unit children that count as terrain.
var DefaultTerrainLabels = []string{"fairways", "bunkers"}

// LabelResolver resolves units by formatted id or label.
//
// Unit i is the group whose id equals fmt.Sprintf(UnitPattern, i), or failing
// that the first group whose label matches it ignoring case. Its green is the
// first direct child whose id equals or starts with
// fmt.Sprintf(GreenPattern, i). Its terrain is the green plus every direct
// child whose label or id is one of TerrainLabels; if no child carries such a
// label, every direct child is terrain.
type LabelResolver struct {
	UnitPattern   string
	GreenPattern  string
	TerrainLabels []string
}

// NewLabelResolver returns a LabelResolver with the default course naming.
func NewLabelResolver() *LabelResolver {
	return &LabelResolver{
		UnitPattern:   DefaultUnitPattern,
		GreenPattern:  DefaultGreenPattern,
		TerrainLabels: slices.Clone(DefaultTerrainLabels),
	}
}

// Validate checks both patterns.
func (r *LabelResolver) Validate() error {
	if err := errors.ValidatePattern("unit", r.UnitPattern); err != nil {
		return err
	}
	return errors.ValidatePattern("green", r.GreenPattern)
}

// UnitID returns the id of unit i.
func (r *LabelResolver) UnitID(i int) string { return fmt.Sprintf(r.UnitPattern, i) }

// GreenID returns the id of the green of unit i.
func (r *LabelResolver) GreenID(i int) string { return fmt.Sprintf(r.GreenPattern, i) }

// Resolve implements Resolver.
func (r *LabelResolver) Resolve(doc *scene.Document, i int) (Unit, error) {
	id := r.UnitID(i)
	root, ok := doc.Lookup(id)
	if !ok {
		return Unit{}, errors.MissingSubtree("unit %q not found", id)
	}
	if !root.Caps().Children || root == doc.Root() {
		return Unit{}, errors.MissingSubtree("unit %q is a %s, not a group", id, root.Kind())
	}

	u := Unit{Index: i, Root: root}
	gid := r.GreenID(i)
	children := root.Children()
	for _, c := range children {
		if c.ID() == gid || strings.HasPrefix(c.ID(), gid) {
			u.Green = c
			break
		}
	}

	for _, c := range children {
		if c != u.Green && r.isTerrain(c) {
			u.Terrain = append(u.Terrain, c)
		}
	}
	switch {
	case len(u.Terrain) == 0:
		u.Terrain = children
	case u.Green != nil:
		u.Terrain = append([]*scene.Node{u.Green}, u.Terrain...)
	}
	if len(u.Terrain) == 0 {
		return Unit{}, errors.MissingSubtree("unit %q is empty", id)
	}
	return u, nil
}

func (r *LabelResolver) isTerrain(n *scene.Node) bool {
	for _, l := range r.TerrainLabels {
		if strings.EqualFold(n.Label, l) || strings.EqualFold(n.ID(), l) {
			return true
		}
	}
	return false
}
