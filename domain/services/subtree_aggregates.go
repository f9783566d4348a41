package services

import (
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
)

// Aggregate holds the derived counts of the subtree rooted at a node
type Aggregate struct {
	Size       int                     `json:"size"`
	ColorCount valueobjects.ColorCount `json:"color_count"`
}

// ComputeAggregates walks every root post-order and returns size and per-color
// counts for each node. Several roots are processed independently.
func ComputeAggregates(snap *aggregates.Snapshot) map[valueobjects.NodeID]Aggregate {
	out := make(map[valueobjects.NodeID]Aggregate, snap.Len())

	type frame struct {
		id       valueobjects.NodeID
		expanded bool
	}

	for _, root := range snap.Roots() {
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !top.expanded {
				stack = append(stack, frame{id: top.id, expanded: true})
				for _, c := range snap.Children(top.id) {
					stack = append(stack, frame{id: c})
				}
				continue
			}

			var agg Aggregate
			color, _ := snap.Color(top.id)
			agg.Size = 1
			agg.ColorCount.Add(color)
			for _, c := range snap.Children(top.id) {
				child := out[c]
				agg.Size += child.Size
				agg.ColorCount.Merge(child.ColorCount)
			}
			out[top.id] = agg
		}
	}

	return out
}
