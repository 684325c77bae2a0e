package xpath

import (
	"schema-evolver/internal/model"
)

// Project turns target into a path relative to current.
//
// The longest common leading prefix of both paths is dropped; the result
// ascends from current to that prefix and descends the remaining target
// steps. When inGroup is set and the prefix ends at a group marker, the
// result starts at the group reference and filters its items. A target that
// is an ancestor of current yields an "ascend then redescend" path. An empty
// current is the root case and returns target unchanged.
func Project(current, target Path, inGroup bool) Path {
	if current.IsEmpty() || current.absolute != target.absolute {
		return target
	}

	cs, ts := current.steps, target.steps

	n := 0
	for n < len(cs) && n < len(ts) && cs[n].sameTarget(ts[n]) {
		n++
	}

	rest := ts[n:]
	ups := len(cs) - n

	if len(rest) == 0 {
		if ups == 0 {
			return Path{}
		}

		if n == 0 {
			return target
		}

		last := ts[n-1]
		if last.IsMarker() {
			return Relative(last)
		}

		steps := make([]Step, 0, ups+2)
		for range ups + 1 {
			steps = append(steps, Up())
		}

		return Relative(append(steps, last)...)
	}

	if inGroup && ups == 0 && n > 0 && cs[n-1].IsMarker() {
		steps := make([]Step, 0, len(rest)+1)
		steps = append(steps, cs[n-1], rest[0].toSelf())
		steps = append(steps, rest[1:]...)

		return Relative(steps...)
	}

	steps := make([]Step, 0, ups+len(rest))
	for range ups {
		steps = append(steps, Up())
	}

	return Relative(append(steps, rest...)...)
}

// AlwaysReferenceFirstChild restricts every element step, optionally except
// the last one, to its first match.
func AlwaysReferenceFirstChild(p Path, leaveLastStep bool) Path {
	out := p.Steps()

	for i, s := range out {
		if leaveLastStep && i == len(out)-1 {
			break
		}

		if s.Axis == AxisChild || s.Axis == AxisSelf {
			out[i] = s.withPredicate("1")
		}
	}

	return Path{absolute: p.absolute, steps: out}
}

// Scope is the generation position a GroupAwareProject call projects from.
type Scope interface {
	// ProcessedPath is the path of the current position, ending in the
	// group marker when inside a group.
	ProcessedPath() (Path, error)
	// ActiveGroup is the content group (or group-aware position) whose items
	// are reachable through the group marker.
	ActiveGroup() (model.NodeID, bool)
}

// Projector resolves tree nodes to paths.
type Projector struct {
	tree *model.Tree
}

// NewProjector creates a Projector over tree.
func NewProjector(tree *model.Tree) *Projector {
	return &Projector{tree: tree}
}

// PathForNode returns the absolute path of id in version v. Nodes absent from
// v resolve to the path of their nearest ancestor (in the other version) that
// is present in v. Unknown nodes yield the empty path.
func (p *Projector) PathForNode(id model.NodeID, v model.Version) Path {
	n, ok := p.tree.Node(id)
	if !ok {
		return Path{}
	}

	if n.Exists(v) {
		return p.pathIn(v, id)
	}

	for _, a := range p.tree.Ancestors(v.Other(), id) {
		if a.Kind.IsContentBearing() && a.Exists(v) {
			return p.pathIn(v, a.ID)
		}
	}

	return Path{}
}

// pathIn builds the absolute path of a node present in v.
func (p *Projector) pathIn(v model.Version, id model.NodeID) Path {
	n, _ := p.tree.Node(id)

	chain := append([]*model.Node{n}, p.tree.Ancestors(v, id)...)

	var steps []Step

	for i := len(chain) - 1; i >= 0; i-- {
		if s, ok := stepFor(chain[i], v); ok {
			steps = append(steps, s)
		}
	}

	return Absolute(steps...)
}

func stepFor(n *model.Node, v model.Version) (Step, bool) {
	switch {
	case n.Kind == model.KindAttribute:
		return Attr(n.Label(v)), true
	case n.Kind.IsElementBearing():
		return Child(n.Label(v)), true
	default:
		return Step{}, false
	}
}

// PathsWhereElementAppears returns every old-version path under which the
// element of id can appear, following structural-representative aliases:
// the content of an aliased node also appears under each of its
// representatives. Nodes that are not element-bearing or did not exist in
// the old version yield no paths.
func (p *Projector) PathsWhereElementAppears(id model.NodeID) Alternatives {
	n, ok := p.tree.Node(id)
	if !ok || !n.Kind.IsElementBearing() || !n.Exists(model.Old) {
		return nil
	}

	return Union(p.appearances(id, map[model.NodeID]bool{})...)
}

func (p *Projector) appearances(id model.NodeID, active map[model.NodeID]bool) []Path {
	n, _ := p.tree.Node(id)

	var base []Path
	if parent, ok := p.tree.Parent(model.Old, id); ok {
		base = p.contentAppearances(parent.ID, active)
	} else {
		base = []Path{Absolute()}
	}

	step, labeled := stepFor(n, model.Old)

	out := make([]Path, 0, len(base))
	for _, b := range base {
		if labeled {
			b = b.Append(step)
		}

		out = append(out, b)
	}

	return out
}

// contentAppearances returns the paths under which children of id appear.
func (p *Projector) contentAppearances(id model.NodeID, active map[model.NodeID]bool) []Path {
	if active[id] {
		return nil
	}

	active[id] = true
	defer delete(active, id)

	out := p.appearances(id, active)
	for _, rep := range p.tree.Representatives(model.Old, id) {
		out = append(out, p.contentAppearances(rep.ID, active)...)
	}

	return out
}

// GroupAwareProject projects the old-version path of id relative to scope.
//
// Inside a group the path is rewritten so that the group's anchor is
// followed by the group marker; if id is one of the attributes promoted
// from the active group, the group reference becomes an attributes
// reference. Empty results are returned as-is for the caller to check.
func (p *Projector) GroupAwareProject(scope Scope, id model.NodeID) (Path, error) {
	target := p.PathForNode(id, model.Old)
	if target.IsEmpty() {
		return Path{}, nil
	}

	current, err := scope.ProcessedPath()
	if err != nil {
		return Path{}, err
	}

	group, inGroup := scope.ActiveGroup()
	if !inGroup {
		return Project(current, target, false), nil
	}

	anchor := p.PathForNode(group, model.Old)

	marked, ok := target.ReplacePrefix(anchor, GroupMarker)
	if !ok {
		// Outside the group: the context node is the anchor itself.
		return Project(current.Parent(), target, false), nil
	}

	rel := Project(current, marked, true)

	if first, ok := rel.First(); ok && first.IsMarker() && p.isPromotedAttribute(id, group) {
		rel = rel.ReplaceFirst(Var(AttributesVar))
	}

	return rel, nil
}

// isPromotedAttribute reports whether id is an attribute owned by group
// without an element in between.
func (p *Projector) isPromotedAttribute(id, group model.NodeID) bool {
	n, ok := p.tree.Node(id)
	if !ok || n.Kind != model.KindAttribute {
		return false
	}

	for _, a := range p.tree.Ancestors(model.New, id) {
		if a.ID == group {
			return true
		}

		if a.Kind.IsElementBearing() {
			return false
		}
	}

	return false
}
