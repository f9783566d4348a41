package services

import (
	"treeforge/domain/core/aggregates"
)

// CommitTree records the working tree's whole-tree signature in history.
// The tree must be a single rooted tree; a shape already in history is
// rejected with DUPLICATE_REJECTED. The tree itself is left untouched.
func CommitTree(tree *aggregates.Tree, history *aggregates.History) (aggregates.HistoryEntry, error) {
	snap := tree.Snapshot()
	sig, err := NewCanonicalLabeler(snap).RootSignature()
	if err != nil {
		return aggregates.HistoryEntry{}, err
	}
	return history.Append(sig, snap.Len())
}
