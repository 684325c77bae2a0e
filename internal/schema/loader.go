package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/model"
)

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input document %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse input YAML: %w", err)
	}

	return &doc, nil
}

// Marshal serializes a Document to YAML.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// Build constructs the versioned tree and the classification table. The
// document should have passed Validate.
func (d *Document) Build() (*model.Tree, *classify.Table, error) {
	tree := model.NewTree()

	for _, v := range []model.Version{model.Old, model.New} {
		if err := d.place(tree, v); err != nil {
			return nil, nil, err
		}
	}

	table := classify.NewTable(tree)

	for _, c := range d.Classification {
		entry, err := c.entry()
		if err != nil {
			return nil, nil, fmt.Errorf("classification of %s: %w", c.Node, err)
		}

		if err := table.Set(model.NodeID(c.Node), entry); err != nil {
			return nil, nil, err
		}
	}

	for _, id := range d.NewRepresentatives {
		table.MarkNewRepresentative(model.NodeID(id))
	}

	return tree, table, nil
}

// place adds the snapshots of version v, parents before children.
func (d *Document) place(tree *model.Tree, v model.Version) error {
	byID := make(map[string]*NodeSpec, len(d.Nodes))
	for i := range d.Nodes {
		byID[d.Nodes[i].ID] = &d.Nodes[i]
	}

	const (
		visiting = 1
		placed   = 2
	)

	state := make(map[string]int, len(d.Nodes))

	var visit func(n *NodeSpec) error

	visit = func(n *NodeSpec) error {
		snap := n.snapshot(v)
		if snap == nil || state[n.ID] == placed {
			return nil
		}

		if state[n.ID] == visiting {
			return fmt.Errorf("node %s: parent cycle in %s version", n.ID, v)
		}

		state[n.ID] = visiting

		if snap.Parent != "" {
			parent, ok := byID[snap.Parent]
			if !ok {
				return fmt.Errorf("node %s: unknown parent %s", n.ID, snap.Parent)
			}

			if err := visit(parent); err != nil {
				return err
			}
		}

		kind, ok := model.ParseKind(n.Kind)
		if !ok {
			return fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
		}

		if err := tree.Put(model.NodeID(n.ID), kind, v, snap.snapshot()); err != nil {
			return err
		}

		state[n.ID] = placed

		return nil
	}

	for i := range d.Nodes {
		if err := visit(&d.Nodes[i]); err != nil {
			return err
		}
	}

	return nil
}

func (c *ClassificationSpec) entry() (classify.Entry, error) {
	category, ok := classify.ParseCategory(c.Category)
	if !ok {
		return classify.Entry{}, fmt.Errorf("unknown category %q", c.Category)
	}

	e := classify.Entry{
		Category:                         category,
		AttributesInvalidated:            c.AttributesInvalidated,
		ContentInvalidated:               c.ContentInvalidated,
		RepresentedAttributesInvalidated: c.RepresentedAttributesInvalidated,
		RepresentedContentInvalidated:    c.RepresentedContentInvalidated,
		ContinueInGroup:                  c.ContinueInGroup,
	}

	var err error
	if e.State, err = parseState(c.State); err != nil {
		return e, err
	}

	if e.GroupState, err = parseState(c.GroupState); err != nil {
		return e, err
	}

	return e, nil
}

// parseState maps "" to the zero state, which lets the table derive it.
func parseState(s string) (classify.State, error) {
	if s == "" {
		return 0, nil
	}

	st, ok := classify.ParseState(s)
	if !ok {
		return 0, fmt.Errorf("unknown state %q", s)
	}

	return st, nil
}
