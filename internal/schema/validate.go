package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"schema-evolver/internal/diagnostic"
	"schema-evolver/internal/match"
	"schema-evolver/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the document. Field-level problems come from the struct
// tags; the rest are cross-node checks that Build relies on.
func Validate(doc *Document) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	if err := validate.Struct(doc); err != nil {
		var valErr validator.ValidationErrors
		if !errors.As(err, &valErr) {
			diags.AddError(diagnostic.CodeInvalidField, err.Error(), "", "")
			return diags
		}

		for _, fe := range valErr {
			diags.AddError(diagnostic.CodeInvalidField,
				fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()), "", "")
		}
	}

	byID := validateNodes(doc, diags)
	validateReferences(doc, byID, diags)
	validateClassification(doc, byID, diags)

	return diags
}

func validateNodes(doc *Document, diags *diagnostic.Diagnostics) map[string]*NodeSpec {
	byID := make(map[string]*NodeSpec, len(doc.Nodes))

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if n.ID == "" {
			continue
		}

		if _, dup := byID[n.ID]; dup {
			diags.AddError(diagnostic.CodeDuplicateID, "node declared more than once", n.ID, "")
			continue
		}

		byID[n.ID] = n

		if n.Old == nil && n.New == nil {
			diags.AddError(diagnostic.CodeMissingSnapshot, "node has neither an old nor a new snapshot", n.ID, "")
		}

		for _, v := range []model.Version{model.Old, model.New} {
			snap := n.snapshot(v)
			if snap == nil {
				continue
			}

			m := snap.Multiplicity()
			if !m.IsUnbounded() && m.Upper < m.Lower {
				diags.AddError(diagnostic.CodeInvalidBounds,
					fmt.Sprintf("%s upper bound %d is below lower bound %d", v, m.Upper, m.Lower), n.ID, "")
			}
		}
	}

	return byID
}

func validateReferences(doc *Document, byID map[string]*NodeSpec, diags *diagnostic.Diagnostics) {
	ids := declaredIDs(doc)

	for i := range doc.Nodes {
		n := &doc.Nodes[i]

		for _, v := range []model.Version{model.Old, model.New} {
			snap := n.snapshot(v)
			if snap == nil {
				continue
			}

			if snap.Parent != "" {
				parent, ok := byID[snap.Parent]
				switch {
				case !ok:
					diags.AddError(diagnostic.CodeUnknownReference,
						fmt.Sprintf("%s parent %s is not declared%s", v, snap.Parent, hint(snap.Parent, ids)), n.ID, "")
				case parent.snapshot(v) == nil:
					diags.AddError(diagnostic.CodeUnknownReference,
						fmt.Sprintf("%s parent %s does not exist in the %s version", v, snap.Parent, v), n.ID, "")
				}
			}

			if snap.Alias != "" {
				if _, ok := byID[snap.Alias]; !ok {
					diags.AddError(diagnostic.CodeUnknownReference,
						fmt.Sprintf("%s alias %s is not declared%s", v, snap.Alias, hint(snap.Alias, ids)), n.ID, "")
				}
			}
		}
	}

	for _, id := range doc.NewRepresentatives {
		if n, ok := byID[id]; !ok || n.Kind != "representative" {
			diags.AddError(diagnostic.CodeUnknownReference,
				"new representative is not a declared representative", id, "")
		}
	}
}

func validateClassification(doc *Document, byID map[string]*NodeSpec, diags *diagnostic.Diagnostics) {
	seen := make(map[string]bool, len(doc.Classification))

	for _, c := range doc.Classification {
		if c.Node == "" {
			continue
		}

		if _, ok := byID[c.Node]; !ok {
			diags.AddError(diagnostic.CodeUnknownReference,
				"classification names an undeclared node"+hint(c.Node, declaredIDs(doc)), c.Node, "")
			continue
		}

		if seen[c.Node] {
			diags.AddError(diagnostic.CodeDuplicateID, "node classified more than once", c.Node, "")
		}

		seen[c.Node] = true
	}
}

func declaredIDs(doc *Document) []string {
	ids := make([]string, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		ids = append(ids, n.ID)
	}

	return ids
}

// hint suggests a declared id close to a misspelled one.
func hint(id string, declared []string) string {
	if best, ok := match.Closest(id, declared); ok {
		return fmt.Sprintf(" (did you mean %s?)", best)
	}

	return ""
}
