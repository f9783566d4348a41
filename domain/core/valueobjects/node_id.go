package valueobjects

import (
	"strconv"

	pkgerrors "treeforge/pkg/errors"
)

// NodeID identifies a node within one working tree.
// Ids are allocated from 1 upward and never reused, so the zero value means "none".
type NodeID int

// ParseNodeID parses a decimal node id
func ParseNodeID(s string) (NodeID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, pkgerrors.NewValidationError("node ID must be a positive integer")
	}
	return NodeID(n), nil
}

// String returns the decimal representation
func (id NodeID) String() string {
	return strconv.Itoa(int(id))
}

// IsZero reports whether the id is unset
func (id NodeID) IsZero() bool {
	return id == 0
}

// EdgeKey names the child->parent edge of a node
type EdgeKey string

// NewEdgeKey builds the key of the edge from child to parent
func NewEdgeKey(child, parent NodeID) EdgeKey {
	return EdgeKey(child.String() + "->" + parent.String())
}

// String returns the key text
func (k EdgeKey) String() string {
	return string(k)
}
