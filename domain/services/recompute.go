package services

import (
	"sort"
	"time"

	"treeforge/domain/config"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
)

// Analysis is everything derived from one snapshot of the working tree.
// It is rebuilt from scratch after every edit.
type Analysis struct {
	TreeVersion int `json:"tree_version"`

	Aggregates map[valueobjects.NodeID]Aggregate              `json:"aggregates"`
	Signatures map[valueobjects.NodeID]valueobjects.Signature `json:"signatures"`

	// RootSignature is empty unless the tree has exactly one root
	RootSignature valueobjects.Signature `json:"root_signature,omitempty"`

	DuplicateGroups   []DuplicateGroup       `json:"duplicate_groups"`
	DuplicateNodeIDs  []valueobjects.NodeID  `json:"duplicate_node_ids"`
	DuplicateEdgeKeys []valueobjects.EdgeKey `json:"duplicate_edge_keys"`

	EmbeddablePairs    []EmbeddingPair        `json:"embeddable_pairs"`
	EmbeddableNodeIDs  []valueobjects.NodeID  `json:"embeddable_node_ids"`
	EmbeddableEdgeKeys []valueobjects.EdgeKey `json:"embeddable_edge_keys"`

	Duration time.Duration `json:"duration_ns"`
}

// Recompute runs the full pass: aggregates, canonical labels with duplicate
// highlighting, then all-pairs embeddability. All caches are local to the call.
func Recompute(snap *aggregates.Snapshot, cfg *config.EngineConfig) *Analysis {
	start := time.Now()

	aggs := ComputeAggregates(snap)

	labeler := NewCanonicalLabeler(snap)
	analysis := &Analysis{
		Aggregates: aggs,
		Signatures: labeler.All(),
	}
	if root, ok := snap.Root(); ok {
		analysis.RootSignature = analysis.Signatures[root]
	}

	dupNodes := newIDSet()
	dupEdges := newEdgeSet()
	analysis.DuplicateGroups = labeler.DuplicateGroups()
	for _, g := range analysis.DuplicateGroups {
		for _, id := range g.NodeIDs {
			dupNodes.add(id)
			dupEdges.addAll(snap.SubtreeEdgeKeys(id))
		}
	}
	analysis.DuplicateNodeIDs = dupNodes.sorted()
	analysis.DuplicateEdgeKeys = dupEdges.sorted()

	checker := NewEmbeddingChecker(snap, aggs, cfg)
	embNodes := newIDSet()
	embEdges := newEdgeSet()
	analysis.EmbeddablePairs = checker.AllPairs()
	for _, p := range analysis.EmbeddablePairs {
		embNodes.add(p.Pattern)
		embNodes.add(p.Host)
		embEdges.addAll(snap.SubtreeEdgeKeys(p.Pattern))
	}
	analysis.EmbeddableNodeIDs = embNodes.sorted()
	analysis.EmbeddableEdgeKeys = embEdges.sorted()

	analysis.Duration = time.Since(start)
	return analysis
}

type idSet map[valueobjects.NodeID]struct{}

func newIDSet() idSet { return make(idSet) }

func (s idSet) add(id valueobjects.NodeID) { s[id] = struct{}{} }

func (s idSet) sorted() []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type edgeSet map[valueobjects.EdgeKey]struct{}

func newEdgeSet() edgeSet { return make(edgeSet) }

func (s edgeSet) addAll(keys []valueobjects.EdgeKey) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

func (s edgeSet) sorted() []valueobjects.EdgeKey {
	out := make([]valueobjects.EdgeKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
