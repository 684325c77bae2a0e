package synth

import (
	"fmt"

	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// callRepresented calls the subroutine generating the represented content
// or attributes of owner, if owner aliases another node. Inside a group the
// caller's selection is forwarded.
func (s *Synthesizer) callRepresented(ctx Context, owner *model.Node, variant Variant) error {
	alias, ok := owner.Alias(model.New)
	if !ok {
		return nil
	}

	if _, ok := s.tree.Node(alias); !ok {
		return fmt.Errorf("%w: %s aliases unknown node %s", ErrInvariant, owner, alias)
	}

	if ctx.ForceCallable() {
		variant = variant.With(VariantForceCallable)
	}

	name, err := s.request(TemplateKey{Node: alias, Variant: variant})
	if err != nil {
		return err
	}

	call := &ir.Call{Name: name}
	if !ctx.ForceCallable() && ctx.InGroup() {
		call.Params = passGroup()
	}

	ctx.Cursor().Add(call)

	return nil
}

// emitRepresented emits the represented-elements or represented-attributes
// subroutine of alias target a. The body addresses a's content through the
// group parameters, which default to the context element's children and
// attributes.
func (s *Synthesizer) emitRepresented(key TemplateKey, a *model.Node) error {
	if !a.Kind.IsContentBearing() {
		return fmt.Errorf("%w: %s cannot be represented", ErrInvariant, a)
	}

	tpl := s.newTemplate(key, a)
	ctx := s.templateContext(key, tpl, a.ID).WithFlags(FlagForceGroupAware)

	if !key.ForceCallable() {
		tpl.Params = []ir.Param{
			{Name: xpath.GroupVar, Select: "*"},
			{Name: xpath.AttributesVar, Select: "@*"},
		}
	}

	var err error
	if key.Variant.Has(VariantRepresentedAttributes) {
		if err = s.emitAttributes(ctx, a.ID); err == nil {
			err = s.callRepresented(ctx, a, VariantRepresentedAttributes)
		}
	} else {
		if err = s.callRepresented(ctx, a, VariantRepresentedElements); err == nil {
			err = s.emitChildren(ctx, a.ID)
		}
	}

	if err != nil {
		return err
	}

	s.program.Templates = append(s.program.Templates, tpl)

	return nil
}
