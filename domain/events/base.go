package events

import (
	"time"

	"treeforge/domain/core/valueobjects"
)

// DomainEvent is something that happened to a workspace
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, version int, ts time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   ts,
		Version:     version,
	}
}

// Event type names
const (
	TypeNodeAdded      = "tree.node_added"
	TypeEdgeAdded      = "tree.edge_added"
	TypeNodeDetached   = "tree.node_detached"
	TypeSubtreeDeleted = "tree.subtree_deleted"
	TypeNodeMoved      = "tree.node_moved"
	TypeNodeRecolored  = "tree.node_recolored"
	TypeTreeReset      = "tree.reset"
	TypeTreeCommitted  = "history.committed"
	TypeCommitRejected = "history.commit_rejected"
)

// NodeAdded is raised when a node is placed
type NodeAdded struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
	Color  valueobjects.Color  `json:"color"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(treeID string, version int, id valueobjects.NodeID, color valueobjects.Color, ts time.Time) NodeAdded {
	return NodeAdded{BaseEvent: newBase(treeID, TypeNodeAdded, version, ts), NodeID: id, Color: color}
}

// EdgeAdded is raised when a child is attached to a parent
type EdgeAdded struct {
	BaseEvent
	ChildID  valueobjects.NodeID `json:"child_id"`
	ParentID valueobjects.NodeID `json:"parent_id"`
}

// NewEdgeAdded creates an EdgeAdded event
func NewEdgeAdded(treeID string, version int, child, parent valueobjects.NodeID, ts time.Time) EdgeAdded {
	return EdgeAdded{BaseEvent: newBase(treeID, TypeEdgeAdded, version, ts), ChildID: child, ParentID: parent}
}

// NodeDetached is raised when a node loses its parent edge
type NodeDetached struct {
	BaseEvent
	ChildID  valueobjects.NodeID `json:"child_id"`
	ParentID valueobjects.NodeID `json:"parent_id"`
}

// NewNodeDetached creates a NodeDetached event
func NewNodeDetached(treeID string, version int, child, parent valueobjects.NodeID, ts time.Time) NodeDetached {
	return NodeDetached{BaseEvent: newBase(treeID, TypeNodeDetached, version, ts), ChildID: child, ParentID: parent}
}

// SubtreeDeleted is raised when a node and all its descendants are removed
type SubtreeDeleted struct {
	BaseEvent
	RootID  valueobjects.NodeID   `json:"root_id"`
	Removed []valueobjects.NodeID `json:"removed"`
}

// NewSubtreeDeleted creates a SubtreeDeleted event
func NewSubtreeDeleted(treeID string, version int, root valueobjects.NodeID, removed []valueobjects.NodeID, ts time.Time) SubtreeDeleted {
	return SubtreeDeleted{BaseEvent: newBase(treeID, TypeSubtreeDeleted, version, ts), RootID: root, Removed: removed}
}

// NodeMoved is raised when a node is dragged to a new position
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(treeID string, version int, id valueobjects.NodeID, pos valueobjects.Position, ts time.Time) NodeMoved {
	return NodeMoved{BaseEvent: newBase(treeID, TypeNodeMoved, version, ts), NodeID: id, NewPosition: pos}
}

// NodeRecolored is raised when a node changes color
type NodeRecolored struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	OldColor valueobjects.Color  `json:"old_color"`
	NewColor valueobjects.Color  `json:"new_color"`
}

// NewNodeRecolored creates a NodeRecolored event
func NewNodeRecolored(treeID string, version int, id valueobjects.NodeID, oldColor, newColor valueobjects.Color, ts time.Time) NodeRecolored {
	return NodeRecolored{BaseEvent: newBase(treeID, TypeNodeRecolored, version, ts), NodeID: id, OldColor: oldColor, NewColor: newColor}
}

// TreeReset is raised when the working tree is cleared
type TreeReset struct {
	BaseEvent
	RemovedNodes int `json:"removed_nodes"`
}

// NewTreeReset creates a TreeReset event
func NewTreeReset(treeID string, version, removed int, ts time.Time) TreeReset {
	return TreeReset{BaseEvent: newBase(treeID, TypeTreeReset, version, ts), RemovedNodes: removed}
}

// TreeCommitted is raised when a tree's signature enters the history
type TreeCommitted struct {
	BaseEvent
	Signature valueobjects.Signature `json:"signature"`
	Index     int                    `json:"index"`
}

// NewTreeCommitted creates a TreeCommitted event
func NewTreeCommitted(historyID string, version int, sig valueobjects.Signature, index int, ts time.Time) TreeCommitted {
	return TreeCommitted{BaseEvent: newBase(historyID, TypeTreeCommitted, version, ts), Signature: sig, Index: index}
}

// CommitRejected is raised when a commit is refused as a duplicate
type CommitRejected struct {
	BaseEvent
	Signature valueobjects.Signature `json:"signature"`
}

// NewCommitRejected creates a CommitRejected event
func NewCommitRejected(historyID string, version int, sig valueobjects.Signature, ts time.Time) CommitRejected {
	return CommitRejected{BaseEvent: newBase(historyID, TypeCommitRejected, version, ts), Signature: sig}
}
