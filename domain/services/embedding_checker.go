package services

import (
	"fmt"

	"treeforge/domain/config"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	pkgerrors "treeforge/pkg/errors"
)

type pairKey struct {
	u, v valueobjects.NodeID
}

// EmbeddingChecker decides whether one subtree can be found inside another,
// bounded by the engine's size and depth caps. The memo lives as long as the
// checker, which is one recompute pass.
type EmbeddingChecker struct {
	snap     *aggregates.Snapshot
	aggs     map[valueobjects.NodeID]Aggregate
	sizeCap  int
	depthCap int

	memo       map[pairKey]bool
	candidates map[valueobjects.NodeID][]valueobjects.NodeID
}

// NewEmbeddingChecker creates a checker over snap using precomputed aggregates
func NewEmbeddingChecker(snap *aggregates.Snapshot, aggs map[valueobjects.NodeID]Aggregate, cfg *config.EngineConfig) *EmbeddingChecker {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	return &EmbeddingChecker{
		snap:       snap,
		aggs:       aggs,
		sizeCap:    cfg.SizeCap,
		depthCap:   cfg.DepthCap,
		memo:       make(map[pairKey]bool),
		candidates: make(map[valueobjects.NodeID][]valueobjects.NodeID),
	}
}

// CanEmbed reports whether u's subtree embeds into v's subtree: u maps onto v,
// and u's children map onto distinct nodes at most DepthCap levels below v,
// each of which hosts the corresponding child's subtree recursively.
func (c *EmbeddingChecker) CanEmbed(u, v valueobjects.NodeID) (bool, error) {
	if !c.snap.Has(u) {
		return false, pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", u))
	}
	if !c.snap.Has(v) {
		return false, pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", v))
	}
	return c.embeds(u, v), nil
}

// MemoSize returns how many pairs have been decided so far
func (c *EmbeddingChecker) MemoSize() int {
	return len(c.memo)
}

func (c *EmbeddingChecker) embeds(u, v valueobjects.NodeID) bool {
	key := pairKey{u, v}
	if res, ok := c.memo[key]; ok {
		return res
	}
	res := c.decide(u, v)
	c.memo[key] = res
	return res
}

func (c *EmbeddingChecker) decide(u, v valueobjects.NodeID) bool {
	cu, _ := c.snap.Color(u)
	cv, _ := c.snap.Color(v)
	if cu != cv {
		return false
	}

	au, av := c.aggs[u], c.aggs[v]
	if au.Size > c.sizeCap {
		return false
	}
	if u == v {
		return true
	}
	if !av.ColorCount.Covers(au.ColorCount) {
		return false
	}

	kids := c.snap.Children(u)
	if len(kids) == 0 {
		return true
	}

	cands := c.descendantsWithinCap(v)
	if len(cands) < len(kids) {
		return false
	}

	// Kuhn's augmenting paths: matchedTo[i] is the child placed on cands[i].
	matchedTo := make([]valueobjects.NodeID, len(cands))
	var augment func(child valueobjects.NodeID, seen []bool) bool
	augment = func(child valueobjects.NodeID, seen []bool) bool {
		for i, d := range cands {
			if seen[i] || !c.embeds(child, d) {
				continue
			}
			seen[i] = true
			if matchedTo[i].IsZero() || augment(matchedTo[i], seen) {
				matchedTo[i] = child
				return true
			}
		}
		return false
	}

	for _, child := range kids {
		if !augment(child, make([]bool, len(cands))) {
			return false
		}
	}
	return true
}

// descendantsWithinCap lists nodes 1..depthCap levels below v in BFS order
func (c *EmbeddingChecker) descendantsWithinCap(v valueobjects.NodeID) []valueobjects.NodeID {
	if cached, ok := c.candidates[v]; ok {
		return cached
	}

	var out []valueobjects.NodeID
	level := c.snap.Children(v)
	for depth := 1; depth <= c.depthCap && len(level) > 0; depth++ {
		out = append(out, level...)
		var next []valueobjects.NodeID
		for _, n := range level {
			next = append(next, c.snap.Children(n)...)
		}
		level = next
	}

	c.candidates[v] = out
	return out
}

// EmbeddingPair is one ordered pair where Pattern embeds into Host
type EmbeddingPair struct {
	Pattern valueobjects.NodeID `json:"pattern"`
	Host    valueobjects.NodeID `json:"host"`
}

// AllPairs checks every ordered pair of distinct nodes
func (c *EmbeddingChecker) AllPairs() []EmbeddingPair {
	nodes := c.snap.Nodes()
	var pairs []EmbeddingPair
	for _, u := range nodes {
		for _, v := range nodes {
			if u != v && c.embeds(u, v) {
				pairs = append(pairs, EmbeddingPair{Pattern: u, Host: v})
			}
		}
	}
	return pairs
}
