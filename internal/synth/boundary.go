package synth

import (
	"fmt"
	"slices"

	"schema-evolver/internal/helpers"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// catchAllPriority ranks the catch-all below every synthesized pattern.
const catchAllPriority = "-1"

// emitBoundaries closes the program with the copy-through, unchanged and
// catch-all templates.
func (s *Synthesizer) emitBoundaries() error {
	copyThrough, err := s.appearances(s.classifier.CopyThrough())
	if err != nil {
		return err
	}

	if !copyThrough.IsEmpty() {
		s.program.Templates = append(s.program.Templates, &ir.Template{
			Kind:    ir.TemplateBoundary,
			Match:   copyThrough.String(),
			Comment: "copy-through elements",
			Body: ir.Block{Ops: []ir.Op{&ir.Copy{Body: ir.Block{Ops: []ir.Op{
				helperCall(helpers.CopyAttributes, nil),
				helperCall(helpers.DispatchContent, nil),
			}}}}},
		})
	}

	unchanged, err := s.appearances(s.classifier.Unchanged())
	if err != nil {
		return err
	}

	unchanged = outermost(unchanged)

	if !unchanged.IsEmpty() {
		s.program.Templates = append(s.program.Templates, &ir.Template{
			Kind:    ir.TemplateBoundary,
			Match:   unchanged.String(),
			Comment: "unchanged elements",
			Body:    ir.Block{Ops: []ir.Op{&ir.CopyOf{Select: "."}}},
		})
	}

	s.program.Templates = append(s.program.Templates, &ir.Template{
		Kind:     ir.TemplateBoundary,
		Match:    "*",
		Priority: catchAllPriority,
		Comment:  "elements no template handles",
		Body: ir.Block{Ops: []ir.Op{&ir.Message{
			Text:      "no transformation for element ",
			Select:    "name()",
			Terminate: s.config.TerminateOnUnmatched,
		}}},
	})

	return nil
}

// appearances unions the old appearance paths of the element-bearing nodes
// in ids.
func (s *Synthesizer) appearances(ids []model.NodeID) (xpath.Alternatives, error) {
	var out xpath.Alternatives

	for _, id := range ids {
		n, ok := s.tree.Node(id)
		if !ok {
			return nil, fmt.Errorf("%w: classified node %s is not in the tree", ErrInvariant, id)
		}

		if !n.Kind.IsElementBearing() || !n.Exists(model.Old) {
			continue
		}

		out = out.Or(s.projector.PathsWhereElementAppears(id)...)
	}

	return out, nil
}

// outermost drops the paths lying below another path of a. The deep copy of
// the shorter path already carries them; the same node reached through a
// representative keeps its own path.
func outermost(a xpath.Alternatives) xpath.Alternatives {
	var out xpath.Alternatives

	for _, p := range a {
		covered := slices.ContainsFunc(a, func(q xpath.Path) bool {
			return q.Len() < p.Len() && p.HasPrefix(q)
		})

		if !covered {
			out = append(out, p)
		}
	}

	return out
}
