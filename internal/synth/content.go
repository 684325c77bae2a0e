package synth

import (
	"fmt"
	"strconv"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/common"
	"schema-evolver/internal/helpers"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// emitContentPart generates the content of element n.
func (s *Synthesizer) emitContentPart(ctx Context, n *model.Node) error {
	if !ctx.ForceCallable() && s.existedHere(n) && !s.contentNeedsRegeneration(n) {
		exclude := s.contentExclusions(n)

		if len(exclude) == 0 && s.contentUnchanged(n.ID) {
			ctx.Cursor().Add(helperCall(helpers.CopyContent, nil))
		} else {
			ctx.Cursor().Add(helperCall(helpers.DispatchContent, exclude))
		}

		return nil
	}

	if err := s.callRepresented(ctx, n, VariantRepresentedElements); err != nil {
		return err
	}

	return s.emitChildren(ctx, n.ID)
}

func (s *Synthesizer) emitChildren(ctx Context, id model.NodeID) error {
	for _, c := range s.contentChildren(id) {
		if err := s.emitChild(ctx, c); err != nil {
			return err
		}
	}

	return nil
}

func (s *Synthesizer) emitChild(ctx Context, c *model.Node) error {
	switch {
	case c.Kind == model.KindAttribute:
		return nil
	case c.Kind.IsElementBearing():
		return s.emitReference(ctx, c)
	case c.Kind == model.KindContentGroup:
		return s.emitGroupReference(ctx, c)
	case c.Kind == model.KindChoice:
		return s.emitChoice(ctx, c)
	case c.Kind == model.KindUnion:
		return s.emitUnionReference(ctx, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, c)
	}
}

// emitReference passes the existing occurrences of element c to their
// templates and generates the ones its new lower bound still requires.
func (s *Synthesizer) emitReference(ctx Context, c *model.Node) error {
	ctx = ctx.WithFocus(NodeFocus{ID: c.ID})
	lower := c.Multiplicity(model.New).Lower

	if ctx.ForceCallable() {
		return s.generate(ctx, c, lower)
	}

	if !s.existedHere(c) {
		if !s.hasExistingDescendants(c.ID) {
			return s.generate(ctx, c, lower)
		}

		name, err := s.request(TemplateKey{Node: c.ID})
		if err != nil {
			return err
		}

		ctx.Cursor().Add(&ir.Call{Name: name})

		return s.generate(ctx, c, lower-1)
	}

	rel, err := s.referencePath(ctx, c.ID)
	if err != nil {
		return err
	}

	sel := rel.String()

	mc, changed := s.classifier.MultiplicityChange(c.ID)
	if changed {
		if bound, ok := mc.FilterBound(); ok {
			sel = limit(rel, bound)
		}
	}

	ctx.Cursor().Add(&ir.Apply{Select: sel})

	// A representative may never have held the represented content, so
	// represented subroutines top up every required item.
	topUp := ctx.Flags().Has(FlagForceGroupAware) && lower > 0
	if !topUp && (!changed || !mc.CanRequireGenerating()) {
		return nil
	}

	fc, err := s.request(TemplateKey{Node: c.ID, Variant: VariantForceCallable})
	if err != nil {
		return err
	}

	ctx.Cursor().Add(&ir.Loop{
		Count: fmt.Sprintf("%d - count(%s)", lower, sel),
		Body:  ir.Block{Ops: []ir.Op{&ir.Call{Name: fc}}},
	})

	return nil
}

// limit restricts the selection to its first bound items. Selections
// starting at a variable are filtered as a whole sequence.
func limit(rel xpath.Path, bound int) string {
	pred := fmt.Sprintf("position() <= %d", bound)

	if first, ok := rel.First(); ok && first.IsMarker() {
		return "(" + rel.String() + ")[" + pred + "]"
	}

	return rel.WithPredicate(pred).String()
}

// generate emits count fresh instances of c through force-callable
// subroutines.
func (s *Synthesizer) generate(ctx Context, c *model.Node, count int) error {
	if count <= 0 {
		return nil
	}

	var variant Variant

	switch {
	case c.Kind == model.KindAttribute:
		return nil
	case c.Kind.IsElementBearing():
		variant = VariantForceCallable
	case c.Kind == model.KindContentGroup:
		variant = VariantContentGroup | VariantForceCallable
	case c.Kind == model.KindUnion:
		variant = VariantUnion | VariantForceCallable
	case c.Kind == model.KindChoice:
		return s.repeat(ctx, count, func(ctx Context) error {
			return s.generateAlternative(ctx, c)
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, c)
	}

	name, err := s.request(TemplateKey{Node: c.ID, Variant: variant})
	if err != nil {
		return err
	}

	return s.repeat(ctx, count, func(ctx Context) error {
		ctx.Cursor().Add(&ir.Call{Name: name})
		return nil
	})
}

// generateAlternative generates the first alternative of a choice or union.
func (s *Synthesizer) generateAlternative(ctx Context, owner *model.Node) error {
	first, ok := common.First(s.contentChildren(owner.ID))
	if !ok {
		return fmt.Errorf("%w: %s has no alternatives", ErrInvariant, owner)
	}

	return s.generate(ctx.WithFlags(FlagForceCallable), first, max(1, first.Multiplicity(model.New).Lower))
}

func (s *Synthesizer) repeat(ctx Context, count int, body func(Context) error) error {
	if count == 1 {
		return body(ctx)
	}

	loop := &ir.Loop{Count: strconv.Itoa(count)}
	ctx.Cursor().Add(loop)

	return body(ctx.WithCursor(&loop.Body))
}

// contentNeedsRegeneration reports whether dispatching the old content of n,
// minus exclusions, would not produce its new content.
func (s *Synthesizer) contentNeedsRegeneration(n *model.Node) bool {
	if s.classifier.ContentInvalidated(n.ID) {
		return true
	}

	if _, ok := n.Alias(model.New); ok && (s.newReps[n.ID] || s.classifier.RepresentedContentInvalidated(n.ID)) {
		return true
	}

	return s.hasIncomingContent(n.ID, n.ID)
}

// hasIncomingContent reports content below id that old documents of owner
// cannot supply by dispatch: required additions, items moved in, and
// changed bounds.
func (s *Synthesizer) hasIncomingContent(owner, id model.NodeID) bool {
	for _, c := range s.contentChildren(id) {
		if _, changed := s.classifier.MultiplicityChange(c.ID); changed {
			return true
		}

		if !c.Kind.IsElementBearing() {
			if s.hasIncomingContent(owner, c.ID) {
				return true
			}

			continue
		}

		if !s.existedHere(c) {
			if !c.Multiplicity(model.New).IsOptional() {
				return true
			}

			continue
		}

		if s.elementOwner(model.Old, c.ID) != owner {
			return true
		}
	}

	return false
}

// contentExclusions lists old content items of n that are deleted or moved
// to another element.
func (s *Synthesizer) contentExclusions(n *model.Node) []string {
	var names []string

	for _, c := range s.contentItems(model.Old, n.ID) {
		if !c.Exists(model.New) || s.elementOwner(model.New, c.ID) != n.ID {
			names = append(names, c.Label(model.Old))
		}
	}

	return common.Dedup(names)
}

// contentUnchanged reports whether every content item below id is Unchanged,
// so the old content can be deep-copied.
func (s *Synthesizer) contentUnchanged(id model.NodeID) bool {
	for _, c := range s.contentChildren(id) {
		if c.Kind.IsContentBearing() {
			if cat, _ := s.classifier.Category(c.ID); cat != classify.Unchanged {
				return false
			}

			continue
		}

		if !s.contentUnchanged(c.ID) {
			return false
		}
	}

	return true
}
