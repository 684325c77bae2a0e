package classify

import (
	"fmt"

	"schema-evolver/internal/model"
)

// Entry is the classification of one node.
type Entry struct {
	Category Category
	// State overrides the placement derived from the tree when non-zero.
	State State
	// GroupState overrides the placement reported for a content group.
	GroupState State

	AttributesInvalidated            bool
	ContentInvalidated               bool
	RepresentedAttributesInvalidated bool
	RepresentedContentInvalidated    bool
	ContinueInGroup                  bool
}

// Table is a Classifier backed by explicit entries. Placement, multiplicity
// changes, group membership and new representatives are derived from the
// tree unless an entry says otherwise.
type Table struct {
	tree    *model.Tree
	entries map[model.NodeID]Entry
	newReps map[model.NodeID]bool
}

var _ Classifier = (*Table)(nil)

// NewTable creates an empty table over tree.
func NewTable(tree *model.Tree) *Table {
	return &Table{
		tree:    tree,
		entries: make(map[model.NodeID]Entry),
		newReps: make(map[model.NodeID]bool),
	}
}

// Set classifies node id.
func (t *Table) Set(id model.NodeID, e Entry) error {
	if _, ok := t.tree.Node(id); !ok {
		return fmt.Errorf("classify: unknown node %s", id)
	}

	switch e.Category {
	case Unchanged, CopyThrough, MustRegenerate:
	default:
		return fmt.Errorf("classify: node %s: invalid category %d", id, e.Category)
	}

	t.entries[id] = e

	return nil
}

// MarkNewRepresentative records id as a structural representative that
// gained its alias in the new version, in addition to the derived ones.
func (t *Table) MarkNewRepresentative(id model.NodeID) {
	t.newReps[id] = true
}

func (t *Table) OldVersion() model.Version { return model.Old }
func (t *Table) NewVersion() model.Version { return model.New }

func (t *Table) State(id model.NodeID) State {
	if e, ok := t.entries[id]; ok && e.State != 0 {
		return e.State
	}

	return t.derivedState(id)
}

func (t *Table) GroupState(id model.NodeID) State {
	if e, ok := t.entries[id]; ok && e.GroupState != 0 {
		return e.GroupState
	}

	return t.State(id)
}

// derivedState compares the nearest element-bearing ancestor of both versions.
func (t *Table) derivedState(id model.NodeID) State {
	n, ok := t.tree.Node(id)
	if !ok || !n.Exists(model.Old) {
		return Added
	}

	if !n.Exists(model.New) {
		return AsItWas
	}

	if t.anchor(model.Old, id) != t.anchor(model.New, id) {
		return Moved
	}

	return AsItWas
}

func (t *Table) anchor(v model.Version, id model.NodeID) model.NodeID {
	for _, a := range t.tree.Ancestors(v, id) {
		if a.Kind.IsElementBearing() {
			return a.ID
		}
	}

	return ""
}

func (t *Table) MultiplicityChanged(id model.NodeID) bool {
	_, ok := t.MultiplicityChange(id)
	return ok
}

func (t *Table) MultiplicityChange(id model.NodeID) (MultiplicityChange, bool) {
	n, ok := t.tree.Node(id)
	if !ok || !n.Exists(model.Old) || !n.Exists(model.New) {
		return MultiplicityChange{}, false
	}

	old, cur := n.Multiplicity(model.Old), n.Multiplicity(model.New)
	if old == cur {
		return MultiplicityChange{}, false
	}

	return NewMultiplicityChange(old, cur), true
}

func (t *Table) Category(id model.NodeID) (Category, bool) {
	e, ok := t.entries[id]
	if !ok {
		return 0, false
	}

	return e.Category, true
}

func (t *Table) MustRegenerate() []model.NodeID { return t.members(MustRegenerate) }
func (t *Table) CopyThrough() []model.NodeID    { return t.members(CopyThrough) }
func (t *Table) Unchanged() []model.NodeID      { return t.members(Unchanged) }

// members lists the nodes of a category in tree declaration order.
func (t *Table) members(c Category) []model.NodeID {
	var out []model.NodeID

	for _, n := range t.tree.Nodes() {
		if e, ok := t.entries[n.ID]; ok && e.Category == c {
			out = append(out, n.ID)
		}
	}

	return out
}

func (t *Table) IsContentGroupNode(id model.NodeID) bool {
	n, ok := t.tree.Node(id)
	return ok && n.Kind == model.KindContentGroup
}

// IsUnderContentGroup reports whether a content group lies between id and its
// nearest element-bearing ancestor in the new version.
func (t *Table) IsUnderContentGroup(id model.NodeID) bool {
	for _, a := range t.tree.Ancestors(model.New, id) {
		if a.Kind == model.KindContentGroup {
			return true
		}

		if a.Kind.IsElementBearing() {
			return false
		}
	}

	return false
}

func (t *Table) ContinueInGroup(id model.NodeID) bool {
	return t.entries[id].ContinueInGroup
}

// FindNewStructuralRepresentatives lists representatives whose alias is new
// or different in the new version, plus explicitly marked ones.
func (t *Table) FindNewStructuralRepresentatives() []model.NodeID {
	var out []model.NodeID

	for _, n := range t.tree.Nodes() {
		if n.Kind != model.KindRepresentative || !n.Exists(model.New) {
			continue
		}

		cur, _ := n.Alias(model.New)
		old, _ := n.Alias(model.Old)

		if t.newReps[n.ID] || cur != old {
			out = append(out, n.ID)
		}
	}

	return out
}

func (t *Table) AttributesInvalidated(id model.NodeID) bool {
	return t.entries[id].AttributesInvalidated
}

func (t *Table) ContentInvalidated(id model.NodeID) bool {
	return t.entries[id].ContentInvalidated
}

func (t *Table) RepresentedAttributesInvalidated(id model.NodeID) bool {
	return t.entries[id].RepresentedAttributesInvalidated
}

func (t *Table) RepresentedContentInvalidated(id model.NodeID) bool {
	return t.entries[id].RepresentedContentInvalidated
}
