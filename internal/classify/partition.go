package classify

import (
	"fmt"
	"sort"
	"strings"

	"schema-evolver/internal/model"
)

// PartitionError lists the content-bearing nodes that are classified more
// than once or not at all.
type PartitionError struct {
	Overlapping  []model.NodeID
	Unclassified []model.NodeID
}

func (e *PartitionError) Error() string {
	var parts []string

	if len(e.Overlapping) > 0 {
		parts = append(parts, "classified more than once: "+joinIDs(e.Overlapping))
	}

	if len(e.Unclassified) > 0 {
		parts = append(parts, "not classified: "+joinIDs(e.Unclassified))
	}

	return "classification is not a partition: " + strings.Join(parts, "; ")
}

// CheckPartition verifies that MustRegenerate, CopyThrough and Unchanged are
// disjoint and together cover every content-bearing node of the new version.
func CheckPartition(tree *model.Tree, c Classifier) error {
	count := make(map[model.NodeID]int)

	for _, set := range [][]model.NodeID{c.MustRegenerate(), c.CopyThrough(), c.Unchanged()} {
		for _, id := range set {
			count[id]++
		}
	}

	perr := &PartitionError{}

	for id, n := range count {
		if n > 1 {
			perr.Overlapping = append(perr.Overlapping, id)
		}
	}

	for _, n := range tree.Nodes() {
		if n.Kind.IsContentBearing() && n.Exists(c.NewVersion()) && count[n.ID] == 0 {
			perr.Unclassified = append(perr.Unclassified, n.ID)
		}
	}

	if len(perr.Overlapping) == 0 && len(perr.Unclassified) == 0 {
		return nil
	}

	sortIDs(perr.Overlapping)

	return perr
}

func sortIDs(ids []model.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func joinIDs(ids []model.NodeID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}

	return fmt.Sprintf("[%s]", strings.Join(s, ", "))
}
