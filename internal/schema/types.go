package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"schema-evolver/internal/model"
)

// Document is the input of a synthesis run.
type Document struct {
	Nodes          []NodeSpec           `yaml:"nodes" validate:"required,min=1,dive"`
	Classification []ClassificationSpec `yaml:"classification" validate:"dive"`
	// NewRepresentatives lists representatives that count as new even though
	// their alias did not change.
	NewRepresentatives []string `yaml:"new_representatives,omitempty" validate:"dive,required"`
}

// NodeSpec declares one versioned node.
type NodeSpec struct {
	ID   string        `yaml:"id" validate:"required"`
	Kind string        `yaml:"kind" validate:"required,oneof=element-class attribute content-container content-group choice union representative"`
	Old  *SnapshotSpec `yaml:"old,omitempty"`
	New  *SnapshotSpec `yaml:"new,omitempty"`
}

// SnapshotSpec is the state of a node in one version.
type SnapshotSpec struct {
	Parent string `yaml:"parent,omitempty"`
	Label  string `yaml:"label,omitempty"`
	Lower  *int   `yaml:"lower,omitempty" validate:"omitempty,min=0"`
	Upper  *Bound `yaml:"upper,omitempty"`
	Alias  string `yaml:"alias,omitempty"`
}

// ClassificationSpec classifies one node.
type ClassificationSpec struct {
	Node       string `yaml:"node" validate:"required"`
	Category   string `yaml:"category" validate:"required,oneof=unchanged copy-through must-regenerate"`
	State      string `yaml:"state,omitempty" validate:"omitempty,oneof=as-it-was moved added"`
	GroupState string `yaml:"group_state,omitempty" validate:"omitempty,oneof=as-it-was moved added"`

	AttributesInvalidated            bool `yaml:"attributes_invalidated,omitempty"`
	ContentInvalidated               bool `yaml:"content_invalidated,omitempty"`
	RepresentedAttributesInvalidated bool `yaml:"represented_attributes_invalidated,omitempty"`
	RepresentedContentInvalidated    bool `yaml:"represented_content_invalidated,omitempty"`
	ContinueInGroup                  bool `yaml:"continue_in_group,omitempty"`
}

// Bound is an upper bound; model.Unbounded stands for "*".
type Bound int

// UnmarshalYAML accepts a non-negative integer, "*" or "unbounded".
func (b *Bound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected upper bound, got %v", node.Line, node.Kind)
	}

	switch node.Value {
	case "*", "unbounded":
		*b = Bound(model.Unbounded)
		return nil
	}

	n, err := strconv.Atoi(node.Value)
	if err != nil || n < 0 {
		return fmt.Errorf("line %d: invalid upper bound %q", node.Line, node.Value)
	}

	*b = Bound(n)

	return nil
}

// MarshalYAML writes "*" for unbounded.
func (b Bound) MarshalYAML() (any, error) {
	if int(b) == model.Unbounded {
		return "*", nil
	}

	return int(b), nil
}

// Multiplicity returns the bounds of the snapshot. A missing lower bound is
// 1; a missing upper bound equals the lower bound, but at least 1.
func (s *SnapshotSpec) Multiplicity() model.Multiplicity {
	lower := 1
	if s.Lower != nil {
		lower = *s.Lower
	}

	upper := max(lower, 1)
	if s.Upper != nil {
		upper = int(*s.Upper)
	}

	return model.Multiplicity{Lower: lower, Upper: upper}
}

func (s *SnapshotSpec) snapshot() model.Snapshot {
	return model.Snapshot{
		Parent:       model.NodeID(s.Parent),
		Label:        s.Label,
		Multiplicity: s.Multiplicity(),
		Alias:        model.NodeID(s.Alias),
	}
}

// snapshot returns the snapshot declared for version v, or nil.
func (n *NodeSpec) snapshot(v model.Version) *SnapshotSpec {
	if v == model.Old {
		return n.Old
	}

	return n.New
}
