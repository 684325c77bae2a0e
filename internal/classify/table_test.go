package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-evolver/internal/model"
)

func put(t *testing.T, tree *model.Tree, id model.NodeID, kind model.Kind, v model.Version, s model.Snapshot) {
	t.Helper()
	require.NoError(t, tree.Put(id, kind, v, s))
}

func both(t *testing.T, tree *model.Tree, id model.NodeID, kind model.Kind, s model.Snapshot) {
	t.Helper()
	put(t, tree, id, kind, model.Old, s)
	put(t, tree, id, kind, model.New, s)
}

func sampleTree(t *testing.T) *model.Tree {
	t.Helper()

	tree := model.NewTree()
	both(t, tree, "root", model.KindElementClass, model.Snapshot{Label: "root", Multiplicity: model.One})
	both(t, tree, "a", model.KindElementClass, model.Snapshot{Parent: "root", Label: "a", Multiplicity: model.One})
	both(t, tree, "b", model.KindElementClass, model.Snapshot{Parent: "root", Label: "b", Multiplicity: model.One})
	put(t, tree, "g", model.KindContentGroup, model.New, model.Snapshot{Parent: "b", Multiplicity: model.One})
	// x moves from a to the group under b and grows its bounds.
	put(t, tree, "x", model.KindElementClass, model.Old, model.Snapshot{
		Parent: "a", Label: "x", Multiplicity: model.Multiplicity{Lower: 0, Upper: 2},
	})
	put(t, tree, "x", model.KindElementClass, model.New, model.Snapshot{
		Parent: "g", Label: "x", Multiplicity: model.Multiplicity{Lower: 1, Upper: model.Unbounded},
	})
	put(t, tree, "r", model.KindRepresentative, model.New, model.Snapshot{
		Parent: "root", Label: "r", Multiplicity: model.One, Alias: "a",
	})

	return tree
}

func TestTable_DerivedState(t *testing.T) {
	tab := NewTable(sampleTree(t))

	assert.Equal(t, AsItWas, tab.State("a"))
	assert.Equal(t, Moved, tab.State("x"))
	assert.Equal(t, Added, tab.State("g"))
	assert.Equal(t, Added, tab.State("r"))

	require.NoError(t, tab.Set("x", Entry{Category: MustRegenerate, State: AsItWas, GroupState: Moved}))
	assert.Equal(t, AsItWas, tab.State("x"))
	assert.Equal(t, Moved, tab.GroupState("x"))
	assert.Equal(t, Added, tab.GroupState("g"))
}

func TestTable_MultiplicityChange(t *testing.T) {
	tab := NewTable(sampleTree(t))

	assert.False(t, tab.MultiplicityChanged("a"))

	mc, ok := tab.MultiplicityChange("x")
	require.True(t, ok)
	assert.True(t, mc.CanRequireGenerating())
	assert.False(t, mc.CanRequireDeleting())
	assert.Equal(t, 1, mc.NewLower)
	assert.Equal(t, model.Unbounded, mc.NewUpper)

	bound, ok := mc.FilterBound()
	require.True(t, ok)
	assert.Equal(t, 2, bound)
}

func TestMultiplicityChange_Table(t *testing.T) {
	tests := []struct {
		name       string
		old, new   model.Multiplicity
		deleting   bool
		generating bool
		bound      int
		bounded    bool
	}{
		{"grow both", model.Multiplicity{Lower: 1, Upper: 3}, model.Multiplicity{Lower: 2, Upper: 5}, false, true, 3, true},
		{"shrink upper", model.Multiplicity{Lower: 0, Upper: 5}, model.Multiplicity{Lower: 0, Upper: 2}, true, false, 2, true},
		{"bound unbounded", model.Multiplicity{Lower: 0, Upper: model.Unbounded}, model.Multiplicity{Lower: 0, Upper: 4}, true, false, 4, true},
		{"unbounded both", model.Multiplicity{Lower: 0, Upper: model.Unbounded}, model.Multiplicity{Lower: 1, Upper: model.Unbounded}, false, true, 0, false},
		{"relax lower", model.Multiplicity{Lower: 2, Upper: 2}, model.Multiplicity{Lower: 0, Upper: 2}, false, false, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := NewMultiplicityChange(tt.old, tt.new)
			assert.Equal(t, tt.deleting, mc.CanRequireDeleting())
			assert.Equal(t, tt.generating, mc.CanRequireGenerating())

			bound, ok := mc.FilterBound()
			assert.Equal(t, tt.bounded, ok)
			assert.Equal(t, tt.bound, bound)
		})
	}
}

func TestTable_GroupsAndRepresentatives(t *testing.T) {
	tab := NewTable(sampleTree(t))

	assert.True(t, tab.IsContentGroupNode("g"))
	assert.False(t, tab.IsContentGroupNode("b"))
	assert.True(t, tab.IsUnderContentGroup("x"))
	assert.False(t, tab.IsUnderContentGroup("a"))

	assert.Equal(t, []model.NodeID{"r"}, tab.FindNewStructuralRepresentatives())
}

func TestTable_SetRejectsUnknown(t *testing.T) {
	tab := NewTable(sampleTree(t))

	require.Error(t, tab.Set("missing", Entry{Category: Unchanged}))
	require.Error(t, tab.Set("a", Entry{}))
}

func TestCheckPartition(t *testing.T) {
	tree := sampleTree(t)
	tab := NewTable(tree)

	for id, c := range map[model.NodeID]Category{
		"root": CopyThrough, "a": Unchanged, "b": MustRegenerate,
		"g": MustRegenerate, "x": MustRegenerate,
	} {
		require.NoError(t, tab.Set(id, Entry{Category: c}))
	}

	err := CheckPartition(tree, tab)
	require.Error(t, err)

	var perr *PartitionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []model.NodeID{"r"}, perr.Unclassified)

	require.NoError(t, tab.Set("r", Entry{Category: MustRegenerate}))
	require.NoError(t, CheckPartition(tree, tab))
}

type overlapping struct{ *Table }

func (o overlapping) Unchanged() []model.NodeID { return []model.NodeID{"a", "b"} }

func TestCheckPartition_Overlap(t *testing.T) {
	tree := sampleTree(t)
	tab := NewTable(tree)

	for _, id := range []model.NodeID{"root", "a", "b", "g", "x", "r"} {
		require.NoError(t, tab.Set(id, Entry{Category: MustRegenerate}))
	}

	err := CheckPartition(tree, overlapping{tab})

	var perr *PartitionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []model.NodeID{"a", "b"}, perr.Overlapping)
	assert.Contains(t, err.Error(), "classified more than once: [a, b]")
}
