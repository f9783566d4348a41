package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
)

const (
	r = valueobjects.Red
	g = valueobjects.Green
	b = valueobjects.Blue
)

// n is shorthand for a node spec: id, color, parent (0 for a root)
func n(id int, c valueobjects.Color, parent int) aggregates.NodeSpec {
	return aggregates.NodeSpec{
		ID:     valueobjects.NodeID(id),
		Color:  c,
		Parent: valueobjects.NodeID(parent),
	}
}

func snapshotOf(t *testing.T, specs ...aggregates.NodeSpec) *aggregates.Snapshot {
	t.Helper()
	snap, err := aggregates.NewSnapshot(specs)
	require.NoError(t, err)
	return snap
}

// forEachTree calls fn with every colored rooted tree of the given size,
// built as parent arrays (node i hangs under some node < i) times every
// coloring. A positive limit stops after that many trees.
func forEachTree(size, limit int, fn func([]aggregates.NodeSpec)) {
	if size < 1 {
		return
	}
	parents := make([]int, size)
	count := 0

	var colorings func(specs []aggregates.NodeSpec, i int) bool
	colorings = func(specs []aggregates.NodeSpec, i int) bool {
		if i == size {
			fn(append([]aggregates.NodeSpec(nil), specs...))
			count++
			return limit <= 0 || count < limit
		}
		for _, c := range valueobjects.Palette() {
			specs[i].Color = c
			if !colorings(specs, i+1) {
				return false
			}
		}
		return true
	}

	var shapes func(i int) bool
	shapes = func(i int) bool {
		if i == size {
			specs := make([]aggregates.NodeSpec, size)
			for k := 0; k < size; k++ {
				specs[k] = aggregates.NodeSpec{
					ID:     valueobjects.NodeID(k + 1),
					Parent: valueobjects.NodeID(parents[k]),
				}
			}
			return colorings(specs, 0)
		}
		for p := 1; p <= i; p++ {
			parents[i] = p
			if !shapes(i + 1) {
				return false
			}
		}
		return true
	}

	parents[0] = 0
	shapes(1)
}
