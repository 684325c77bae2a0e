package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrderTree(t *testing.T) *Tree {
	t.Helper()

	tree := NewTree()
	require.NoError(t, tree.Put("order", KindElementClass, Old, Snapshot{Label: "order", Multiplicity: One}))
	require.NoError(t, tree.Put("order", KindElementClass, New, Snapshot{Label: "order", Multiplicity: One}))
	require.NoError(t, tree.Put("id", KindAttribute, Old, Snapshot{Parent: "order", Label: "id", Multiplicity: One}))
	require.NoError(t, tree.Put("id", KindAttribute, New, Snapshot{Parent: "order", Label: "id", Multiplicity: One}))
	require.NoError(t, tree.Put("item", KindElementClass, Old, Snapshot{
		Parent: "order", Label: "item", Multiplicity: Multiplicity{Lower: 1, Upper: 3},
	}))
	require.NoError(t, tree.Put("item", KindElementClass, New, Snapshot{
		Parent: "order", Label: "item", Multiplicity: Multiplicity{Lower: 2, Upper: 5},
	}))
	require.NoError(t, tree.Put("note", KindElementClass, New, Snapshot{
		Parent: "item", Label: "note", Multiplicity: Multiplicity{Lower: 0, Upper: Unbounded},
	}))

	return tree
}

func TestTree_Structure(t *testing.T) {
	tree := buildOrderTree(t)

	roots := tree.Roots(New)
	require.Len(t, roots, 1)
	assert.Equal(t, NodeID("order"), roots[0].ID)

	children := tree.Children(Old, "order")
	require.Len(t, children, 2)
	assert.Equal(t, NodeID("id"), children[0].ID)
	assert.Equal(t, NodeID("item"), children[1].ID)

	assert.Empty(t, tree.Children(Old, "item"))
	assert.Len(t, tree.Children(New, "item"), 1)

	anc := tree.Ancestors(New, "note")
	require.Len(t, anc, 2)
	assert.Equal(t, NodeID("item"), anc[0].ID)
	assert.Equal(t, NodeID("order"), anc[1].ID)
	assert.True(t, tree.IsDescendant(New, "note", "order"))
	assert.False(t, tree.IsDescendant(Old, "note", "order"))
}

func TestTree_Snapshots(t *testing.T) {
	tree := buildOrderTree(t)

	note, ok := tree.Node("note")
	require.True(t, ok)
	assert.False(t, note.Exists(Old))
	assert.True(t, note.Exists(New))
	assert.Equal(t, "", note.Label(Old))
	assert.Equal(t, "0..*", note.Multiplicity(New).String())

	item, _ := tree.Node("item")
	assert.Equal(t, "1..3", item.Multiplicity(Old).String())
	assert.Equal(t, "item(ElementClass)", item.String())

	assert.True(t, item.Multiplicity(Old).IsRepeated())
	assert.True(t, note.Multiplicity(New).IsRepeated())
	assert.False(t, One.IsRepeated())
}

func TestTree_PutErrors(t *testing.T) {
	tree := NewTree()

	require.Error(t, tree.Put("", KindElementClass, Old, Snapshot{}))
	require.Error(t, tree.Put("a", Kind(0), Old, Snapshot{}))
	require.Error(t, tree.Put("a", KindElementClass, Old, Snapshot{Parent: "missing"}))

	require.NoError(t, tree.Put("a", KindElementClass, Old, Snapshot{Label: "a"}))
	require.Error(t, tree.Put("a", KindElementClass, Old, Snapshot{Label: "a"}), "duplicate snapshot")
	require.Error(t, tree.Put("a", KindAttribute, New, Snapshot{Label: "a"}), "kind change")
}

func TestTree_Representatives(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Put("a", KindElementClass, New, Snapshot{Label: "a"}))
	require.NoError(t, tree.Put("b", KindRepresentative, New, Snapshot{Label: "b", Alias: "a"}))
	require.NoError(t, tree.Put("c", KindRepresentative, New, Snapshot{Label: "c", Alias: "a"}))

	reps := tree.Representatives(New, "a")
	require.Len(t, reps, 2)
	assert.Equal(t, NodeID("b"), reps[0].ID)
	assert.Empty(t, tree.Representatives(Old, "a"))
}

func TestKind(t *testing.T) {
	k, ok := ParseKind("content-group")
	require.True(t, ok)
	assert.Equal(t, KindContentGroup, k)
	assert.True(t, k.IsContentBearing())
	assert.False(t, k.IsElementBearing())
	assert.True(t, KindAttribute.IsLabeled())
	assert.False(t, Kind(0).IsValid())
	assert.Equal(t, "Representative", KindRepresentative.String())

	_, ok = ParseKind("sequence")
	assert.False(t, ok)
}
