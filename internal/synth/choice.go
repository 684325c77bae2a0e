package synth

import (
	"fmt"
	"log/slog"

	"schema-evolver/internal/diagnostic"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// falseTest disables a branch whose alternative cannot be recognized.
const falseTest = "false()"

// emitChoice generates a content choice inline.
func (s *Synthesizer) emitChoice(ctx Context, ch *model.Node) error {
	ctx = ctx.WithFocus(ChoiceFocus{ID: ch.ID})

	if ctx.ForceCallable() {
		return s.generate(ctx, ch, ch.Multiplicity(model.New).Lower)
	}

	return s.emitAlternatives(ctx, ch)
}

// emitUnionReference calls the subroutine of a class union.
func (s *Synthesizer) emitUnionReference(ctx Context, u *model.Node) error {
	ctx = ctx.WithFocus(UnionFocus{ID: u.ID})

	if ctx.ForceCallable() {
		return s.generate(ctx, u, u.Multiplicity(model.New).Lower)
	}

	name, err := s.request(TemplateKey{Node: u.ID, Variant: VariantUnion})
	if err != nil {
		return err
	}

	call := &ir.Call{Name: name}
	if ctx.InGroup() {
		call.Params = passGroup()
	}

	ctx.Cursor().Add(call)

	return nil
}

// emitUnion emits the subroutine of a class union. The alternatives are
// addressed through the group parameters, which default to the context
// element's children and attributes, so callers inside a group forward
// their selection and the others pass nothing.
func (s *Synthesizer) emitUnion(key TemplateKey, u *model.Node) error {
	if u.Kind != model.KindUnion {
		return fmt.Errorf("%w: %s is not a union", ErrInvariant, u)
	}

	tpl := s.newTemplate(key, u)
	ctx := s.templateContext(key, tpl, u.ID).WithFocus(UnionFocus{ID: u.ID})

	if key.ForceCallable() {
		if err := s.generateAlternative(ctx, u); err != nil {
			return err
		}
	} else {
		tpl.Params = []ir.Param{
			{Name: xpath.GroupVar, Select: "*"},
			{Name: xpath.AttributesVar, Select: "@*"},
		}

		if err := s.emitAlternatives(ctx.WithGroup(u.ID), u); err != nil {
			return err
		}
	}

	s.program.Templates = append(s.program.Templates, tpl)

	return nil
}

// emitAlternatives emits one branch per alternative of a choice or union,
// plus a generating fallback when the new bounds require an alternative.
func (s *Synthesizer) emitAlternatives(ctx Context, owner *model.Node) error {
	alts := s.contentChildren(owner.ID)
	if len(alts) == 0 {
		return nil
	}

	choose := &ir.Choose{}

	for _, alt := range alts {
		test, err := s.distinguishingTest(ctx, owner, alt)
		if err != nil {
			return err
		}

		var body ir.Block
		if err := s.emitChild(ctx.WithCursor(&body), alt); err != nil {
			return err
		}

		choose.Branches = append(choose.Branches, ir.Branch{Test: test, Body: body})
	}

	if owner.Multiplicity(model.New).Lower > 0 {
		otherwise := &ir.Block{}
		if err := s.generateAlternative(ctx.WithCursor(otherwise), owner); err != nil {
			return err
		}

		choose.Otherwise = otherwise
	}

	ctx.Cursor().Add(choose)

	return nil
}

// distinguishingTest returns the relative path whose presence identifies alt
// in old documents. Without one the branch is disabled and reported.
func (s *Synthesizer) distinguishingTest(ctx Context, owner, alt *model.Node) (string, error) {
	if d := s.distinguishingNode(alt); d != nil {
		rel, err := ctx.Project(d.ID)
		if err != nil {
			return "", err
		}

		if !rel.IsEmpty() {
			return rel.String(), nil
		}
	}

	s.diags.AddWarning(diagnostic.CodeNoDistinguishingTest,
		fmt.Sprintf("alternative %s of %s has no distinguishing test, branch disabled", alt, owner),
		string(alt.ID), s.projector.PathForNode(alt.ID, model.Old).String())
	s.logger.Debug("no distinguishing test",
		slog.String("alternative", string(alt.ID)), slog.String("owner", string(owner.ID)))

	return falseTest, nil
}

// distinguishingNode returns alt itself when it is labeled, otherwise its
// first descendant that is labeled, required in both versions and present
// in old documents.
func (s *Synthesizer) distinguishingNode(alt *model.Node) *model.Node {
	if alt.Kind.IsLabeled() {
		if s.existedHere(alt) {
			return alt
		}

		return nil
	}

	for _, c := range s.tree.Children(model.New, alt.ID) {
		if c.Multiplicity(model.New).IsOptional() {
			continue
		}

		if !c.Kind.IsLabeled() {
			if d := s.distinguishingNode(c); d != nil {
				return d
			}

			continue
		}

		if s.existedHere(c) && !c.Multiplicity(model.Old).IsOptional() {
			return c
		}
	}

	return nil
}
