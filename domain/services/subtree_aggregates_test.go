package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
)

func TestComputeAggregates(t *testing.T) {
	snap := snapshotOf(t,
		n(1, r, 0),
		n(2, g, 1),
		n(3, b, 1),
		n(4, g, 2),
		n(5, r, 4),
	)

	aggs := ComputeAggregates(snap)

	assert.Equal(t, 5, aggs[1].Size)
	assert.Equal(t, valueobjects.ColorCount{2, 2, 1}, aggs[1].ColorCount)
	assert.Equal(t, 3, aggs[2].Size)
	assert.Equal(t, valueobjects.ColorCount{1, 2, 0}, aggs[2].ColorCount)
	assert.Equal(t, 1, aggs[3].Size)
	assert.Equal(t, 1, aggs[5].Size)

	for id, agg := range aggs {
		assert.Equal(t, agg.Size, agg.ColorCount.Total(), "node %d", id)
	}
}

func TestComputeAggregates_MultipleRoots(t *testing.T) {
	snap := snapshotOf(t,
		n(1, r, 0),
		n(2, g, 1),
		n(3, b, 0),
		n(4, b, 3),
		n(5, b, 3),
	)

	aggs := ComputeAggregates(snap)

	assert.Len(t, aggs, 5)
	assert.Equal(t, 2, aggs[1].Size)
	assert.Equal(t, 3, aggs[3].Size)
	assert.Equal(t, valueobjects.ColorCount{0, 0, 3}, aggs[3].ColorCount)
}

func TestComputeAggregates_Empty(t *testing.T) {
	assert.Empty(t, ComputeAggregates(snapshotOf(t)))
}

func TestComputeAggregates_RootSizeIsNodeCount(t *testing.T) {
	for size := 1; size <= 6; size++ {
		forEachTree(size, 50, func(specs []aggregates.NodeSpec) {
			snap := snapshotOf(t, specs...)
			aggs := ComputeAggregates(snap)
			root, ok := snap.Root()
			if assert.True(t, ok) {
				assert.Equal(t, size, aggs[root].Size)
			}
		})
	}
}
