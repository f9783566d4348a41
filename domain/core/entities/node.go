package entities

import (
	"time"

	"treeforge/domain/core/valueobjects"
	pkgerrors "treeforge/pkg/errors"
)

// Node is one colored vertex of a working tree.
// Parent/child structure lives in the Tree aggregate, not here.
type Node struct {
	id        valueobjects.NodeID
	color     valueobjects.Color
	position  valueobjects.Position
	createdAt time.Time
	updatedAt time.Time
}

// NewNode creates a node with validation
func NewNode(id valueobjects.NodeID, color valueobjects.Color, position valueobjects.Position) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID cannot be zero")
	}
	if !color.IsValid() {
		return nil, pkgerrors.NewValidationError("color is not in the palette")
	}

	now := time.Now()
	return &Node{
		id:        id,
		color:     color,
		position:  position,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the node's identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Color returns the node's palette color
func (n *Node) Color() valueobjects.Color {
	return n.color
}

// Position returns the node's drawing position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// CreatedAt returns when the node was placed
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last edited
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// MoveTo moves the node. It reports whether the position changed.
func (n *Node) MoveTo(position valueobjects.Position) bool {
	if position.Equals(n.position) {
		return false
	}
	n.position = position
	n.updatedAt = time.Now()
	return true
}

// Recolor changes the node's color. It reports whether the color changed.
func (n *Node) Recolor(color valueobjects.Color) (bool, error) {
	if !color.IsValid() {
		return false, pkgerrors.NewValidationError("color is not in the palette")
	}
	if color == n.color {
		return false, nil
	}
	n.color = color
	n.updatedAt = time.Now()
	return true, nil
}
