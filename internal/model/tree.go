package model

import (
	"errors"
	"fmt"
)

// NodeID is the identity of a node, stable across versions.
type NodeID string

// Snapshot is the state of a node in one version.
type Snapshot struct {
	// Parent is empty for roots.
	Parent NodeID
	// Label is the element or attribute name; empty for unlabeled kinds.
	Label string
	// Multiplicity holds the occurrence bounds.
	Multiplicity Multiplicity
	// Alias is the node whose content and attributes a structural
	// representative stands for.
	Alias NodeID

	children []NodeID
}

// Node is a VersionedTreeNode.
type Node struct {
	ID   NodeID
	Kind Kind

	versions [2]*Snapshot
}

// In returns the snapshot of the node in version v.
func (n *Node) In(v Version) (*Snapshot, bool) {
	if !v.valid() {
		return nil, false
	}

	s := n.versions[v]

	return s, s != nil
}

// Exists reports whether the node is present in version v.
func (n *Node) Exists(v Version) bool {
	_, ok := n.In(v)
	return ok
}

// Label returns the node's label in version v, or "" if absent.
func (n *Node) Label(v Version) string {
	if s, ok := n.In(v); ok {
		return s.Label
	}

	return ""
}

// Multiplicity returns the node's bounds in version v. Absent nodes report 0..0.
func (n *Node) Multiplicity(v Version) Multiplicity {
	if s, ok := n.In(v); ok {
		return s.Multiplicity
	}

	return Multiplicity{}
}

// Alias returns the representative target in version v.
func (n *Node) Alias(v Version) (NodeID, bool) {
	if s, ok := n.In(v); ok && s.Alias != "" {
		return s.Alias, true
	}

	return "", false
}

// String returns "id(kind)".
func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.ID, n.Kind)
}

// Tree is the versioned content-model tree.
type Tree struct {
	nodes map[NodeID]*Node
	order []NodeID
	roots [2][]NodeID
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[NodeID]*Node)}
}

// Put records the snapshot of node id in version v. The node is created on
// first use; its kind must not change afterwards. The parent, if any, must
// already be present in v so that children keep declaration order.
func (t *Tree) Put(id NodeID, kind Kind, v Version, s Snapshot) error {
	if id == "" {
		return errors.New("empty node id")
	}

	if !kind.IsValid() {
		return fmt.Errorf("node %s: invalid kind %d", id, kind)
	}

	if !v.valid() {
		return fmt.Errorf("node %s: invalid version %d", id, v)
	}

	n, ok := t.nodes[id]
	if !ok {
		n = &Node{ID: id, Kind: kind}
		t.nodes[id] = n
		t.order = append(t.order, id)
	} else if n.Kind != kind {
		return fmt.Errorf("node %s: kind %s redeclared as %s", id, n.Kind, kind)
	}

	if n.versions[v] != nil {
		return fmt.Errorf("node %s: %s snapshot already set", id, v)
	}

	if s.Parent != "" {
		parent, ok := t.nodes[s.Parent]
		if !ok || parent.versions[v] == nil {
			return fmt.Errorf("node %s: parent %s not present in %s version", id, s.Parent, v)
		}

		parent.versions[v].children = append(parent.versions[v].children, id)
	} else {
		t.roots[v] = append(t.roots[v], id)
	}

	snap := s
	snap.children = nil
	n.versions[v] = &snap

	return nil
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}

	return out
}

// Roots returns the root nodes of version v.
func (t *Tree) Roots(v Version) []*Node {
	return t.resolve(t.roots[v])
}

// Parent returns the parent of id in version v.
func (t *Tree) Parent(v Version, id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}

	s, ok := n.In(v)
	if !ok || s.Parent == "" {
		return nil, false
	}

	return t.Node(s.Parent)
}

// Children returns the children of id in version v, in declaration order.
func (t *Tree) Children(v Version, id NodeID) []*Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	s, ok := n.In(v)
	if !ok {
		return nil
	}

	return t.resolve(s.children)
}

// Ancestors returns the ancestors of id in version v, nearest first.
func (t *Tree) Ancestors(v Version, id NodeID) []*Node {
	var out []*Node

	seen := map[NodeID]bool{id: true}

	for p, ok := t.Parent(v, id); ok; p, ok = t.Parent(v, p.ID) {
		if seen[p.ID] {
			break
		}

		seen[p.ID] = true
		out = append(out, p)
	}

	return out
}

// Representatives returns the nodes that alias target in version v.
func (t *Tree) Representatives(v Version, target NodeID) []*Node {
	var out []*Node

	for _, id := range t.order {
		n := t.nodes[id]
		if alias, ok := n.Alias(v); ok && alias == target {
			out = append(out, n)
		}
	}

	return out
}

// IsDescendant reports whether id lies below ancestor in version v.
func (t *Tree) IsDescendant(v Version, id, ancestor NodeID) bool {
	for _, a := range t.Ancestors(v, id) {
		if a.ID == ancestor {
			return true
		}
	}

	return false
}

func (t *Tree) resolve(ids []NodeID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}

	return out
}
