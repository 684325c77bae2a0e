package synth

import (
	"fmt"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// emitGroupReference hands the items of content group g to its subroutine.
func (s *Synthesizer) emitGroupReference(ctx Context, g *model.Node) error {
	ctx = ctx.WithFocus(GroupFocus{ID: g.ID})
	lower := g.Multiplicity(model.New).Lower

	if ctx.ForceCallable() {
		return s.generate(ctx, g, lower)
	}

	if ctx.InGroup() && s.classifier.ContinueInGroup(g.ID) {
		return s.emitGroupContent(ctx, g)
	}

	if ctx.FocusState() == classify.Added && !s.hasExistingDescendants(g.ID) {
		return s.generate(ctx, g, lower)
	}

	items, err := s.groupItems(ctx, g)
	if err != nil {
		return err
	}

	if cat, _ := s.classifier.Category(g.ID); cat == classify.Unchanged {
		if !items.IsEmpty() {
			ctx.Cursor().Add(&ir.Apply{Select: items.String()})
		}

		return nil
	}

	attrs, err := s.groupAttributes(ctx, g)
	if err != nil {
		return err
	}

	name, err := s.request(TemplateKey{Node: g.ID, Variant: VariantContentGroup})
	if err != nil {
		return err
	}

	ctx.Cursor().Add(&ir.Call{
		Name: name,
		Params: []ir.WithParam{
			{Name: xpath.GroupVar, Select: selectOrEmpty(items)},
			{Name: xpath.AttributesVar, Select: selectOrEmpty(attrs)},
		},
	})

	return nil
}

// emitGroup emits the subroutine of a content group. It runs with the
// element holding the group as context node and reaches the group's items
// through its parameters.
func (s *Synthesizer) emitGroup(key TemplateKey, g *model.Node) error {
	if g.Kind != model.KindContentGroup {
		return fmt.Errorf("%w: %s is not a content group", ErrInvariant, g)
	}

	tpl := s.newTemplate(key, g)
	ctx := s.templateContext(key, tpl, g.ID).WithFocus(GroupFocus{ID: g.ID})

	if !key.ForceCallable() {
		tpl.Params = []ir.Param{
			{Name: xpath.GroupVar, Select: "()"},
			{Name: xpath.AttributesVar, Select: "()"},
		}
		ctx = ctx.WithGroup(g.ID)
	}

	if err := s.emitGroupContent(ctx, g); err != nil {
		return err
	}

	s.program.Templates = append(s.program.Templates, tpl)

	return nil
}

func (s *Synthesizer) emitGroupContent(ctx Context, g *model.Node) error {
	if err := s.callRepresented(ctx, g, VariantRepresentedElements); err != nil {
		return err
	}

	return s.emitChildren(ctx, g.ID)
}

// groupItems selects the old occurrences of the items of g, including the
// items represented through its alias.
func (s *Synthesizer) groupItems(ctx Context, g *model.Node) (xpath.Alternatives, error) {
	var items xpath.Alternatives

	for _, c := range s.contentItems(model.New, g.ID) {
		if !s.existedHere(c) {
			continue
		}

		rel, err := s.requiredPath(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		items = items.Or(rel)
	}

	alias, ok := g.Alias(model.New)
	if !ok {
		return items, nil
	}

	for _, c := range s.contentItems(model.Old, alias) {
		label := c.Label(model.Old)
		if ctx.InGroup() {
			items = items.Or(xpath.Relative(xpath.GroupMarker, xpath.Self(label)))
		} else {
			items = items.Or(xpath.Relative(xpath.Child(label)))
		}
	}

	return items, nil
}

// groupAttributes selects the old occurrences of the attributes of g.
func (s *Synthesizer) groupAttributes(ctx Context, g *model.Node) (xpath.Alternatives, error) {
	var attrs xpath.Alternatives

	for _, a := range s.ownedAttributes(model.New, g.ID) {
		if !s.existedHere(a) {
			continue
		}

		rel, err := s.requiredPath(ctx, a.ID)
		if err != nil {
			return nil, err
		}

		attrs = attrs.Or(rel)
	}

	return attrs, nil
}
