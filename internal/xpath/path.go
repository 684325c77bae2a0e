package xpath

import (
	"slices"
	"strings"
)

// Axis is the kind of a location step.
type Axis int

const (
	AxisChild Axis = iota
	AxisAttribute
	AxisSelf
	AxisSelfAttribute
	AxisParent
	AxisVariable
)

// Step is one location step with optional predicates.
type Step struct {
	Axis Axis
	Name string
	// Predicates are rendered in brackets after the step, in order.
	Predicates []string
}

// Child returns a child-axis step.
func Child(name string) Step { return Step{Axis: AxisChild, Name: name} }

// Attr returns an attribute-axis step.
func Attr(name string) Step { return Step{Axis: AxisAttribute, Name: name} }

// Self returns a self-axis step, filtering a sequence by element name.
func Self(name string) Step { return Step{Axis: AxisSelf, Name: name} }

// Up returns a parent step.
func Up() Step { return Step{Axis: AxisParent} }

// Var returns a variable reference step.
func Var(name string) Step { return Step{Axis: AxisVariable, Name: name} }

// Variable names used by content-group subroutines.
const (
	GroupVar      = "cg"
	AttributesVar = "attributes"
)

// GroupMarker is the step spliced into a path at a content-group boundary.
var GroupMarker = Var(GroupVar)

// IsMarker reports whether s is a variable reference.
func (s Step) IsMarker() bool { return s.Axis == AxisVariable }

// sameTarget compares axis and name, ignoring predicates.
func (s Step) sameTarget(o Step) bool {
	return s.Axis == o.Axis && s.Name == o.Name
}

// String renders the step.
func (s Step) String() string {
	var sb strings.Builder

	switch s.Axis {
	case AxisChild:
		sb.WriteString(s.Name)
	case AxisAttribute:
		sb.WriteString("@" + s.Name)
	case AxisSelf:
		sb.WriteString("self::" + s.Name)
	case AxisSelfAttribute:
		sb.WriteString("self::attribute(" + s.Name + ")")
	case AxisParent:
		sb.WriteString("..")
	case AxisVariable:
		sb.WriteString("$" + s.Name)
	}

	for _, p := range s.Predicates {
		sb.WriteString("[" + p + "]")
	}

	return sb.String()
}

func (s Step) withPredicate(p string) Step {
	s.Predicates = append(slices.Clip(s.Predicates), p)
	return s
}

// toSelf turns the first step after a variable into a filter on the
// variable's items.
func (s Step) toSelf() Step {
	switch s.Axis {
	case AxisChild:
		s.Axis = AxisSelf
	case AxisAttribute:
		s.Axis = AxisSelfAttribute
	}

	return s
}

// Path is an immutable location path.
type Path struct {
	absolute bool
	steps    []Step
}

// Absolute returns a path anchored at the document root.
func Absolute(steps ...Step) Path {
	return Path{absolute: true, steps: slices.Clone(steps)}
}

// Relative returns a path evaluated against the context node.
func Relative(steps ...Step) Path {
	return Path{steps: slices.Clone(steps)}
}

// IsEmpty reports whether the path is the "not applicable" sentinel.
// The absolute root path "/" is not empty.
func (p Path) IsEmpty() bool {
	return !p.absolute && len(p.steps) == 0
}

// IsAbsolute reports whether the path starts at the document root.
func (p Path) IsAbsolute() bool { return p.absolute }

// Len returns the number of steps.
func (p Path) Len() int { return len(p.steps) }

// Steps returns a copy of the steps.
func (p Path) Steps() []Step { return slices.Clone(p.steps) }

// Last returns the final step.
func (p Path) Last() (Step, bool) {
	if len(p.steps) == 0 {
		return Step{}, false
	}

	return p.steps[len(p.steps)-1], true
}

// First returns the leading step.
func (p Path) First() (Step, bool) {
	if len(p.steps) == 0 {
		return Step{}, false
	}

	return p.steps[0], true
}

// Append returns p extended by steps.
func (p Path) Append(steps ...Step) Path {
	out := make([]Step, 0, len(p.steps)+len(steps))
	out = append(out, p.steps...)
	out = append(out, steps...)

	return Path{absolute: p.absolute, steps: out}
}

// Parent returns p without its last step.
func (p Path) Parent() Path {
	if len(p.steps) == 0 {
		return p
	}

	return Path{absolute: p.absolute, steps: slices.Clone(p.steps[:len(p.steps)-1])}
}

// HasPrefix reports whether q is a leading part of p. Predicates are ignored.
func (p Path) HasPrefix(q Path) bool {
	if p.absolute != q.absolute || len(q.steps) > len(p.steps) {
		return false
	}

	for i, s := range q.steps {
		if !p.steps[i].sameTarget(s) {
			return false
		}
	}

	return true
}

// ReplacePrefix splices marker in after the prefix q. It reports false and
// returns p unchanged when q is not a prefix of p.
func (p Path) ReplacePrefix(q Path, marker Step) (Path, bool) {
	if !p.HasPrefix(q) {
		return p, false
	}

	out := make([]Step, 0, len(p.steps)+1)
	out = append(out, p.steps[:len(q.steps)]...)
	out = append(out, marker)
	out = append(out, p.steps[len(q.steps):]...)

	return Path{absolute: p.absolute, steps: out}, true
}

// WithPredicate appends a predicate to the last step. Empty paths are
// returned unchanged.
func (p Path) WithPredicate(pred string) Path {
	if len(p.steps) == 0 {
		return p
	}

	out := slices.Clone(p.steps)
	out[len(out)-1] = out[len(out)-1].withPredicate(pred)

	return Path{absolute: p.absolute, steps: out}
}

// ReplaceFirst returns p with its first step replaced.
func (p Path) ReplaceFirst(s Step) Path {
	if len(p.steps) == 0 {
		return p
	}

	out := slices.Clone(p.steps)
	out[0] = s

	return Path{absolute: p.absolute, steps: out}
}

// Equal compares paths including predicates.
func (p Path) Equal(q Path) bool {
	return p.String() == q.String()
}

// String renders the path.
func (p Path) String() string {
	parts := make([]string, len(p.steps))
	for i, s := range p.steps {
		parts[i] = s.String()
	}

	joined := strings.Join(parts, "/")
	if p.absolute {
		return "/" + joined
	}

	return joined
}

// Alternatives is a union of paths.
type Alternatives []Path

// Union builds alternatives from paths, dropping empty paths and duplicates.
func Union(paths ...Path) Alternatives {
	return Alternatives(nil).Or(paths...)
}

// Or returns a extended by paths, dropping empty paths and duplicates.
func (a Alternatives) Or(paths ...Path) Alternatives {
	out := slices.Clone(a)

	for _, p := range paths {
		if p.IsEmpty() || slices.ContainsFunc(out, p.Equal) {
			continue
		}

		out = append(out, p)
	}

	return out
}

// IsEmpty reports whether no alternative is present.
func (a Alternatives) IsEmpty() bool { return len(a) == 0 }

// String renders the union joined by " | ".
func (a Alternatives) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}

	return strings.Join(parts, " | ")
}

// ExpandMarker replaces the first variable step of p and everything before
// it by binding, undoing ReplacePrefix and the self filter Project puts
// after a group reference. Paths without a marker are returned unchanged.
func (p Path) ExpandMarker(binding Path) Path {
	i := slices.IndexFunc(p.steps, Step.IsMarker)
	if i < 0 {
		return p
	}

	rest := slices.Clone(p.steps[i+1:])
	if len(rest) > 0 {
		switch rest[0].Axis {
		case AxisSelf:
			rest[0].Axis = AxisChild
		case AxisSelfAttribute:
			rest[0].Axis = AxisAttribute
		}
	}

	return binding.Append(rest...)
}
