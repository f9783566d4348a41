package commands

import (
	"treeforge/pkg/utils"
)

// CreateWorkspaceCommand starts a new editing session
type CreateWorkspaceCommand struct {
	Name string `json:"name" validate:"max=100"`
}

// Validate validates the command
func (c CreateWorkspaceCommand) Validate() error { return utils.ValidateStruct(c) }

// AddNodeCommand places a new parentless node
type AddNodeCommand struct {
	WorkspaceID string  `json:"workspace_id" validate:"required,uuid"`
	Color       string  `json:"color" validate:"required"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Validate validates the command
func (c AddNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// AddEdgeCommand attaches a child under a parent
type AddEdgeCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	ChildID     int    `json:"child_id" validate:"gt=0"`
	ParentID    int    `json:"parent_id" validate:"gt=0"`
}

// Validate validates the command
func (c AddEdgeCommand) Validate() error { return utils.ValidateStruct(c) }

// DetachNodeCommand removes a node's parent edge
type DetachNodeCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	NodeID      int    `json:"node_id" validate:"gt=0"`
}

// Validate validates the command
func (c DetachNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteSubtreeCommand removes a node with all its descendants
type DeleteSubtreeCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	NodeID      int    `json:"node_id" validate:"gt=0"`
}

// Validate validates the command
func (c DeleteSubtreeCommand) Validate() error { return utils.ValidateStruct(c) }

// MoveNodeCommand changes a node's drawing position
type MoveNodeCommand struct {
	WorkspaceID string  `json:"workspace_id" validate:"required,uuid"`
	NodeID      int     `json:"node_id" validate:"gt=0"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Validate validates the command
func (c MoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RecolorNodeCommand changes a node's color
type RecolorNodeCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	NodeID      int    `json:"node_id" validate:"gt=0"`
	Color       string `json:"color" validate:"required"`
}

// Validate validates the command
func (c RecolorNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// ResetTreeCommand clears the working tree, keeping history
type ResetTreeCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

// Validate validates the command
func (c ResetTreeCommand) Validate() error { return utils.ValidateStruct(c) }

// CommitTreeCommand records the working tree in history
type CommitTreeCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

// Validate validates the command
func (c CommitTreeCommand) Validate() error { return utils.ValidateStruct(c) }
