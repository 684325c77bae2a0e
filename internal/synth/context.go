package synth

import (
	"fmt"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// Focus is the construct a body is currently generated for. The concrete
// type selects which classifier queries apply to it.
type Focus interface {
	// FocusNode returns the focused node.
	FocusNode() model.NodeID
	// focus keeps implementations inside this package.
	focus()
}

// NodeFocus focuses an element-bearing node.
type NodeFocus struct{ ID model.NodeID }

// GroupFocus focuses a content group.
type GroupFocus struct{ ID model.NodeID }

// AttributeFocus focuses a single attribute.
type AttributeFocus struct{ ID model.NodeID }

// ChoiceFocus focuses a content choice.
type ChoiceFocus struct{ ID model.NodeID }

// UnionFocus focuses a class union.
type UnionFocus struct{ ID model.NodeID }

// FocusNode returns the focused element.
func (f NodeFocus) FocusNode() model.NodeID { return f.ID }

// FocusNode returns the focused group.
func (f GroupFocus) FocusNode() model.NodeID { return f.ID }

// FocusNode returns the focused attribute.
func (f AttributeFocus) FocusNode() model.NodeID { return f.ID }

// FocusNode returns the focused choice.
func (f ChoiceFocus) FocusNode() model.NodeID { return f.ID }

// FocusNode returns the focused union.
func (f UnionFocus) FocusNode() model.NodeID { return f.ID }

func (NodeFocus) focus()      {}
func (GroupFocus) focus()     {}
func (AttributeFocus) focus() {}
func (ChoiceFocus) focus()    {}
func (UnionFocus) focus()     {}

// Context is the generation state passed down the recursion. It is a value:
// every With method returns a modified copy and leaves the receiver intact.
type Context struct {
	s *Synthesizer

	// position is the node whose subroutine body is being generated; paths
	// are projected from its processed path.
	position model.NodeID
	cursor   *ir.Block
	flags    Flags
	focus    Focus
	group    model.NodeID
}

var _ xpath.Scope = Context{}

// CreateCopy returns an independent copy of c.
func (c Context) CreateCopy() Context {
	return c
}

// WithPosition moves the projection origin to id.
func (c Context) WithPosition(id model.NodeID) Context {
	c.position = id
	return c
}

// WithCursor redirects output to b.
func (c Context) WithCursor(b *ir.Block) Context {
	c.cursor = b
	return c
}

// WithFlags adds flags.
func (c Context) WithFlags(f Flags) Context {
	c.flags = c.flags.With(f)
	return c
}

// WithFocus changes the focused construct.
func (c Context) WithFocus(f Focus) Context {
	c.focus = f
	return c
}

// WithGroup activates a content group. An empty id leaves the group scope.
func (c Context) WithGroup(id model.NodeID) Context {
	c.group = id
	return c
}

func (c Context) Position() model.NodeID { return c.position }
func (c Context) Cursor() *ir.Block      { return c.cursor }
func (c Context) Flags() Flags           { return c.flags }
func (c Context) Focus() Focus           { return c.focus }

// ForceCallable reports whether content is generated rather than matched.
func (c Context) ForceCallable() bool {
	return c.flags.Has(FlagForceCallable)
}

// ActiveGroup returns the group whose items are reachable through the group
// marker. Under FlagForceGroupAware the position itself acts as the group.
func (c Context) ActiveGroup() (model.NodeID, bool) {
	if c.group != "" {
		return c.group, true
	}

	if c.flags.Has(FlagForceGroupAware) {
		return c.position, true
	}

	return "", false
}

// InGroup reports whether a group scope is active.
func (c Context) InGroup() bool {
	_, ok := c.ActiveGroup()
	return ok
}

// ProcessedPath returns the path of the current position.
func (c Context) ProcessedPath() (xpath.Path, error) {
	return c.NodeToProcessedPath(c.position)
}

// NodeToProcessedPath returns the old-version path of id as seen from this
// context. Inside a group the path of the group anchor is followed by the
// group marker; a path that leaves the group is an invariant violation.
func (c Context) NodeToProcessedPath(id model.NodeID) (xpath.Path, error) {
	p := c.s.projector.PathForNode(id, model.Old)

	group, ok := c.ActiveGroup()
	if !ok {
		return p, nil
	}

	anchor := c.s.projector.PathForNode(group, model.Old)

	marked, ok := p.ReplacePrefix(anchor, xpath.GroupMarker)
	if !ok {
		return xpath.Path{}, fmt.Errorf("%w: path %s of %s is outside group %s (%s)",
			ErrInvariant, p, id, group, anchor)
	}

	return marked, nil
}

// Project returns the path selecting the old occurrences of id from the
// current position.
func (c Context) Project(id model.NodeID) (xpath.Path, error) {
	return c.s.projector.GroupAwareProject(c, id)
}

// FocusState returns the placement of the focused construct. Content groups
// report their group state.
func (c Context) FocusState() classify.State {
	switch f := c.focus.(type) {
	case GroupFocus:
		return c.s.classifier.GroupState(f.ID)
	case nil:
		return c.s.classifier.State(c.position)
	default:
		return c.s.classifier.State(f.FocusNode())
	}
}
