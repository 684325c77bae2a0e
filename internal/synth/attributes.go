package synth

import (
	"fmt"

	"schema-evolver/internal/common"
	"schema-evolver/internal/helpers"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// emitAttributePart generates the attributes of element n.
func (s *Synthesizer) emitAttributePart(ctx Context, n *model.Node) error {
	if !ctx.ForceCallable() && s.existedHere(n) && !s.attributesNeedRegeneration(n) {
		exclude := s.attributeExclusions(n)
		repCall := s.representedAttributesNeedCall(n)

		if repCall {
			exclude = s.withRepresentedAttributeNames(exclude, n)
		}

		ctx.Cursor().Add(helperCall(helpers.CopyAttributes, exclude))

		if repCall {
			return s.callRepresented(ctx, n, VariantRepresentedAttributes)
		}

		return nil
	}

	if err := s.emitAttributes(ctx, n.ID); err != nil {
		return err
	}

	return s.callRepresented(ctx, n, VariantRepresentedAttributes)
}

// emitAttributes generates the attributes owned by id one by one. Aliased
// content groups contribute their represented attributes.
func (s *Synthesizer) emitAttributes(ctx Context, id model.NodeID) error {
	for _, c := range s.tree.Children(model.New, id) {
		switch c.Kind {
		case model.KindAttribute:
			if err := s.emitAttribute(ctx.WithFocus(AttributeFocus{ID: c.ID}), c); err != nil {
				return err
			}
		case model.KindContentGroup:
			if err := s.emitAttributes(ctx, c.ID); err != nil {
				return err
			}

			if err := s.callRepresented(ctx, c, VariantRepresentedAttributes); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Synthesizer) emitAttribute(ctx Context, a *model.Node) error {
	label := a.Label(model.New)
	mult := a.Multiplicity(model.New)

	if ctx.ForceCallable() || !s.existedHere(a) {
		if mult.IsOptional() {
			return nil
		}

		ctx.Cursor().Add(&ir.Attribute{Name: label, Value: s.config.Placeholder})

		return nil
	}

	rel, err := s.referencePath(ctx, a.ID)
	if err != nil {
		return err
	}

	sel := rel.String()

	var existing ir.Op = &ir.CopyOf{Select: sel}
	if renamed := a.Label(model.Old) != label; renamed {
		existing = &ir.Attribute{Name: label, Select: sel}
	}

	topUp := ctx.Flags().Has(FlagForceGroupAware) && !mult.IsOptional()

	switch {
	case s.mustGenerate(a.ID) || topUp:
		ctx.Cursor().Add(&ir.Choose{
			Branches:  []ir.Branch{{Test: sel, Body: ir.Block{Ops: []ir.Op{existing}}}},
			Otherwise: &ir.Block{Ops: []ir.Op{&ir.Attribute{Name: label, Value: s.config.Placeholder}}},
		})
	case existing.Kind() == ir.OpAttribute && mult.IsOptional():
		ctx.Cursor().Add(&ir.If{Test: sel, Body: ir.Block{Ops: []ir.Op{existing}}})
	default:
		ctx.Cursor().Add(existing)
	}

	return nil
}

// attributesNeedRegeneration reports whether copying the old attributes of
// n, minus exclusions, would not produce its new attributes.
func (s *Synthesizer) attributesNeedRegeneration(n *model.Node) bool {
	if s.classifier.AttributesInvalidated(n.ID) {
		return true
	}

	for _, a := range s.ownedAttributes(model.New, n.ID) {
		if !s.existedHere(a) {
			if !a.Multiplicity(model.New).IsOptional() {
				return true
			}

			continue
		}

		if a.Label(model.Old) != a.Label(model.New) ||
			s.elementOwner(model.Old, a.ID) != n.ID ||
			s.mustGenerate(a.ID) {
			return true
		}
	}

	return false
}

// attributeExclusions lists old attributes of n that are deleted or moved
// to another element.
func (s *Synthesizer) attributeExclusions(n *model.Node) []string {
	var names []string

	for _, a := range s.ownedAttributes(model.Old, n.ID) {
		if !a.Exists(model.New) || s.elementOwner(model.New, a.ID) != n.ID {
			names = append(names, a.Label(model.Old))
		}
	}

	return common.Dedup(names)
}

func (s *Synthesizer) withRepresentedAttributeNames(names []string, n *model.Node) []string {
	alias, ok := n.Alias(model.New)
	if !ok {
		return names
	}

	for _, a := range s.ownedAttributes(model.Old, alias) {
		names = append(names, a.Label(model.Old))
	}

	return common.Dedup(names)
}

func (s *Synthesizer) representedAttributesNeedCall(n *model.Node) bool {
	if _, ok := n.Alias(model.New); !ok {
		return false
	}

	return s.newReps[n.ID] || s.classifier.RepresentedAttributesInvalidated(n.ID)
}

// requiredPath projects id from ctx and fails if the result is empty.
func (s *Synthesizer) requiredPath(ctx Context, id model.NodeID) (xpath.Path, error) {
	rel, err := ctx.Project(id)
	if err != nil {
		return rel, err
	}

	if rel.IsEmpty() {
		return rel, fmt.Errorf("%w: path of %s resolves empty from %s", ErrInvariant, id, ctx.Position())
	}

	return rel, nil
}

// referencePath is requiredPath restricted to the first occurrence of every
// repeated old element it descends through. Content moved out of a repeated
// element is taken from its first occurrence only.
func (s *Synthesizer) referencePath(ctx Context, id model.NodeID) (xpath.Path, error) {
	rel, err := s.requiredPath(ctx, id)
	if err != nil || !s.descendsThroughRepeated(ctx.Position(), id) {
		return rel, err
	}

	return xpath.AlwaysReferenceFirstChild(rel, true), nil
}

// descendsThroughRepeated reports whether an old element between origin and
// id may occur more than once.
func (s *Synthesizer) descendsThroughRepeated(origin, id model.NodeID) bool {
	for _, a := range s.tree.Ancestors(model.Old, id) {
		if a.ID == origin || s.tree.IsDescendant(model.Old, origin, a.ID) {
			return false
		}

		if a.Kind.IsElementBearing() && a.Multiplicity(model.Old).IsRepeated() {
			return true
		}
	}

	return false
}
