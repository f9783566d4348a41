package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	pkgerrors "treeforge/pkg/errors"
)

func TestCanonicalLabeler_Label(t *testing.T) {
	snap := snapshotOf(t,
		n(1, r, 0),
		n(2, g, 1),
		n(3, b, 1),
		n(4, r, 2),
	)
	l := NewCanonicalLabeler(snap)

	tests := []struct {
		id   int
		want string
	}{
		{4, "red()"},
		{3, "blue()"},
		{2, "green(red())"},
		{1, "red(blue(),green(red()))"},
	}
	for _, tt := range tests {
		sig, err := l.Label(valueobjects.NodeID(tt.id))
		require.NoError(t, err)
		assert.Equal(t, tt.want, sig.String())
	}
}

func TestCanonicalLabeler_NotFound(t *testing.T) {
	l := NewCanonicalLabeler(snapshotOf(t, n(1, r, 0)))

	_, err := l.Label(42)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCanonicalLabeler_SiblingOrderInvariance(t *testing.T) {
	base := []aggregates.NodeSpec{
		n(1, r, 0),
		n(2, g, 1),
		n(3, b, 1),
		n(4, g, 1),
		n(5, r, 2),
		n(6, b, 2),
		n(7, g, 4),
		n(8, r, 7),
	}
	want, err := NewCanonicalLabeler(snapshotOf(t, base...)).RootSignature()
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		// Child lists follow input order, so shuffling the input permutes siblings.
		perm := append([]aggregates.NodeSpec(nil), base...)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })

		got, err := NewCanonicalLabeler(snapshotOf(t, perm...)).RootSignature()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCanonicalLabeler_SeparatesNonIsomorphicTrees(t *testing.T) {
	// Number of rooted trees with n nodes, each colored from a 3-color palette,
	// up to sibling order: a(1)=3, a(n+1) = 3 * EulerTransform(a)(n).
	expected := coloredRootedTreeCounts(6, valueobjects.NumColors)

	for size := 1; size <= 6; size++ {
		distinct := make(map[valueobjects.Signature]struct{})
		forEachTree(size, 0, func(specs []aggregates.NodeSpec) {
			snap, err := aggregates.NewSnapshot(specs)
			if err != nil {
				t.Fatalf("size %d: %v", size, err)
			}
			sig, err := NewCanonicalLabeler(snap).RootSignature()
			if err != nil {
				t.Fatalf("size %d: %v", size, err)
			}
			distinct[sig] = struct{}{}
		})
		assert.Equal(t, expected[size], len(distinct), "distinct signatures for %d nodes", size)
	}
}

func TestCanonicalLabeler_ColorChangeChangesLabel(t *testing.T) {
	a, err := NewCanonicalLabeler(snapshotOf(t, n(1, r, 0), n(2, g, 1), n(3, b, 2))).RootSignature()
	require.NoError(t, err)
	c, err := NewCanonicalLabeler(snapshotOf(t, n(1, r, 0), n(2, g, 1), n(3, g, 2))).RootSignature()
	require.NoError(t, err)

	assert.NotEqual(t, a, c)
}

func TestCanonicalLabeler_RootSignatureRequiresSingleTree(t *testing.T) {
	_, err := NewCanonicalLabeler(snapshotOf(t, n(1, r, 0), n(2, g, 0))).RootSignature()
	assert.True(t, pkgerrors.IsNoUniqueRoot(err))

	_, err = NewCanonicalLabeler(snapshotOf(t)).RootSignature()
	assert.True(t, pkgerrors.IsNoUniqueRoot(err))
}

func TestCanonicalLabeler_DuplicateGroups(t *testing.T) {
	snap := snapshotOf(t,
		n(1, r, 0),
		n(2, g, 1),
		n(3, g, 1),
		n(4, b, 2),
		n(5, b, 3),
		n(6, r, 1),
	)
	groups := NewCanonicalLabeler(snap).DuplicateGroups()

	require.Len(t, groups, 2)
	assert.Equal(t, "green(blue())", groups[0].Signature.String())
	assert.Equal(t, []valueobjects.NodeID{2, 3}, groups[0].NodeIDs)
	assert.Equal(t, "blue()", groups[1].Signature.String())
	assert.Equal(t, []valueobjects.NodeID{4, 5}, groups[1].NodeIDs)
}

func coloredRootedTreeCounts(maxN, colors int) []int {
	a := make([]int, maxN+1)
	bt := make([]int, maxN+1) // Euler transform of a
	bt[0] = 1
	a[1] = colors
	for m := 1; m < maxN; m++ {
		sum := 0
		for k := 1; k <= m; k++ {
			ck := 0
			for d := 1; d <= k; d++ {
				if k%d == 0 {
					ck += d * a[d]
				}
			}
			sum += ck * bt[m-k]
		}
		bt[m] = sum / m
		a[m+1] = colors * bt[m]
	}
	return a
}
