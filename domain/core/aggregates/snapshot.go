package aggregates

import (
	"fmt"

	"treeforge/domain/core/valueobjects"
	pkgerrors "treeforge/pkg/errors"
)

// Snapshot is an immutable view of a tree's structure, built once per
// recompute pass. Child lists keep insertion order.
type Snapshot struct {
	order    []valueobjects.NodeID
	colors   map[valueobjects.NodeID]valueobjects.Color
	parent   map[valueobjects.NodeID]valueobjects.NodeID
	children map[valueobjects.NodeID][]valueobjects.NodeID
	roots    []valueobjects.NodeID
}

// NodeSpec describes one node when building a snapshot directly.
// A zero Parent marks a root.
type NodeSpec struct {
	ID     valueobjects.NodeID
	Color  valueobjects.Color
	Parent valueobjects.NodeID
}

// NewSnapshot builds a snapshot from node specs, rejecting unknown parents,
// duplicate ids and cycles. Several roots are allowed.
func NewSnapshot(specs []NodeSpec) (*Snapshot, error) {
	s := &Snapshot{
		order:    make([]valueobjects.NodeID, 0, len(specs)),
		colors:   make(map[valueobjects.NodeID]valueobjects.Color, len(specs)),
		parent:   make(map[valueobjects.NodeID]valueobjects.NodeID),
		children: make(map[valueobjects.NodeID][]valueobjects.NodeID),
	}

	for _, spec := range specs {
		if spec.ID.IsZero() || spec.ID < 0 {
			return nil, pkgerrors.NewValidationError("node IDs must be positive")
		}
		if _, dup := s.colors[spec.ID]; dup {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("duplicate node ID %d", spec.ID))
		}
		if !spec.Color.IsValid() {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("node %d has no valid color", spec.ID))
		}
		s.order = append(s.order, spec.ID)
		s.colors[spec.ID] = spec.Color
	}

	for _, spec := range specs {
		if spec.Parent.IsZero() {
			s.roots = append(s.roots, spec.ID)
			continue
		}
		if spec.Parent == spec.ID {
			return nil, pkgerrors.NewInvalidEdgeError(fmt.Sprintf("node %d cannot be its own parent", spec.ID))
		}
		if _, ok := s.colors[spec.Parent]; !ok {
			return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("parent node %d", spec.Parent))
		}
		s.parent[spec.ID] = spec.Parent
		s.children[spec.Parent] = append(s.children[spec.Parent], spec.ID)
	}

	// With at most one parent per node, anything unreachable from a root sits on a cycle.
	if reached := s.reachableFrom(s.roots); reached != len(s.order) {
		return nil, pkgerrors.NewInvalidEdgeError("parent links form a cycle")
	}

	return s, nil
}

// Nodes returns every node id in insertion order
func (s *Snapshot) Nodes() []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of nodes
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Has reports whether id is part of the snapshot
func (s *Snapshot) Has(id valueobjects.NodeID) bool {
	_, ok := s.colors[id]
	return ok
}

// Color returns the color of id
func (s *Snapshot) Color(id valueobjects.NodeID) (valueobjects.Color, bool) {
	c, ok := s.colors[id]
	return c, ok
}

// Parent returns the parent of id, if any
func (s *Snapshot) Parent(id valueobjects.NodeID) (valueobjects.NodeID, bool) {
	p, ok := s.parent[id]
	return p, ok
}

// Children returns the children of id in insertion order.
// The slice is shared and must not be modified.
func (s *Snapshot) Children(id valueobjects.NodeID) []valueobjects.NodeID {
	return s.children[id]
}

// Roots returns the parentless nodes in insertion order
func (s *Snapshot) Roots() []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, len(s.roots))
	copy(out, s.roots)
	return out
}

// Root returns the unique root, or false when there are zero or several
func (s *Snapshot) Root() (valueobjects.NodeID, bool) {
	if len(s.roots) != 1 {
		return 0, false
	}
	return s.roots[0], true
}

// Subtree returns id and all of its descendants in breadth-first order
func (s *Snapshot) Subtree(id valueobjects.NodeID) []valueobjects.NodeID {
	if !s.Has(id) {
		return nil
	}
	out := []valueobjects.NodeID{id}
	for i := 0; i < len(out); i++ {
		out = append(out, s.children[out[i]]...)
	}
	return out
}

// SubtreeEdgeKeys returns the keys of every edge below id
func (s *Snapshot) SubtreeEdgeKeys(id valueobjects.NodeID) []valueobjects.EdgeKey {
	nodes := s.Subtree(id)
	if len(nodes) < 2 {
		return nil
	}
	keys := make([]valueobjects.EdgeKey, 0, len(nodes)-1)
	for _, n := range nodes[1:] {
		keys = append(keys, valueobjects.NewEdgeKey(n, s.parent[n]))
	}
	return keys
}

// CheckSingleTree verifies the structure is one rooted tree covering every node
func (s *Snapshot) CheckSingleTree() error {
	if len(s.roots) != 1 {
		return pkgerrors.NewNoUniqueRootError(len(s.roots))
	}
	if reached := s.reachableFrom(s.roots); reached != len(s.order) {
		return pkgerrors.NewDisconnectedTreeError(len(s.order) - reached)
	}
	return nil
}

func (s *Snapshot) reachableFrom(starts []valueobjects.NodeID) int {
	seen := make(map[valueobjects.NodeID]bool, len(s.order))
	queue := append([]valueobjects.NodeID(nil), starts...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		queue = append(queue, s.children[n]...)
	}
	return len(seen)
}
