package classify

import (
	"schema-evolver/internal/common"
	"schema-evolver/internal/model"
)

// Category is the coarse change impact of a node.
type Category int

const (
	_ Category = iota
	// Unchanged nodes are deep-copied verbatim.
	Unchanged
	// CopyThrough nodes are copied shallowly while their content is dispatched.
	CopyThrough
	// MustRegenerate nodes need a freshly synthesized subroutine.
	MustRegenerate
)

var categoryNames = map[string]Category{
	"unchanged":       Unchanged,
	"copy-through":    CopyThrough,
	"must-regenerate": MustRegenerate,
}

// ParseCategory converts "unchanged", "copy-through" or "must-regenerate".
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryNames[s]
	return c, ok
}

// String returns the document form of the category.
func (c Category) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case CopyThrough:
		return "copy-through"
	case MustRegenerate:
		return "must-regenerate"
	default:
		return common.UnknownStr
	}
}

// State is the placement of a node relative to the old version.
type State int

const (
	_ State = iota
	// AsItWas nodes sit where they were.
	AsItWas
	// Moved nodes existed under a different parent.
	Moved
	// Added nodes have no old counterpart.
	Added
)

var stateNames = map[string]State{
	"as-it-was": AsItWas,
	"moved":     Moved,
	"added":     Added,
}

// ParseState converts "as-it-was", "moved" or "added".
func ParseState(s string) (State, bool) {
	st, ok := stateNames[s]
	return st, ok
}

// String returns the document form of the state.
func (s State) String() string {
	switch s {
	case AsItWas:
		return "as-it-was"
	case Moved:
		return "moved"
	case Added:
		return "added"
	default:
		return common.UnknownStr
	}
}

// Existed reports whether a node in this state has an old counterpart.
func (s State) Existed() bool {
	return s == AsItWas || s == Moved
}

// MultiplicityChange is the bounds delta of a node present in both versions.
type MultiplicityChange struct {
	OldLower int
	OldUpper int
	NewLower int
	NewUpper int
}

// NewMultiplicityChange builds a change from old and new bounds.
func NewMultiplicityChange(old, new model.Multiplicity) MultiplicityChange {
	return MultiplicityChange{
		OldLower: old.Lower,
		OldUpper: old.Upper,
		NewLower: new.Lower,
		NewUpper: new.Upper,
	}
}

// CanRequireDeleting reports whether documents valid under the old bounds may
// hold more occurrences than the new bounds allow.
func (c MultiplicityChange) CanRequireDeleting() bool {
	if c.NewUpper == model.Unbounded {
		return false
	}

	return c.OldUpper == model.Unbounded || c.NewUpper < c.OldUpper
}

// CanRequireGenerating reports whether documents valid under the old bounds
// may hold fewer occurrences than the new bounds require.
func (c MultiplicityChange) CanRequireGenerating() bool {
	return c.NewLower > c.OldLower
}

// FilterBound returns the number of existing occurrences passed through
// unchanged: the smaller finite upper bound of both versions.
func (c MultiplicityChange) FilterBound() (int, bool) {
	switch {
	case c.OldUpper == model.Unbounded && c.NewUpper == model.Unbounded:
		return 0, false
	case c.OldUpper == model.Unbounded:
		return c.NewUpper, true
	case c.NewUpper == model.Unbounded:
		return c.OldUpper, true
	default:
		return min(c.OldUpper, c.NewUpper), true
	}
}

// Classifier is the contract of the external change classifier.
type Classifier interface {
	// OldVersion and NewVersion are the two version tokens of the run.
	OldVersion() model.Version
	NewVersion() model.Version

	// State returns the placement of a node; GroupState that of a content group.
	State(id model.NodeID) State
	GroupState(id model.NodeID) State

	MultiplicityChanged(id model.NodeID) bool
	MultiplicityChange(id model.NodeID) (MultiplicityChange, bool)

	// Category returns the node's set membership, if classified.
	Category(id model.NodeID) (Category, bool)
	MustRegenerate() []model.NodeID
	CopyThrough() []model.NodeID
	Unchanged() []model.NodeID

	IsContentGroupNode(id model.NodeID) bool
	IsUnderContentGroup(id model.NodeID) bool
	ContinueInGroup(id model.NodeID) bool

	FindNewStructuralRepresentatives() []model.NodeID

	AttributesInvalidated(id model.NodeID) bool
	ContentInvalidated(id model.NodeID) bool
	RepresentedAttributesInvalidated(id model.NodeID) bool
	RepresentedContentInvalidated(id model.NodeID) bool
}
