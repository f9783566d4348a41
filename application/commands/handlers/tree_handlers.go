package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"treeforge/application/commands"
	"treeforge/application/commands/bus"
	"treeforge/application/services"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
)

// Edit operation names, used for metrics and logs
const (
	OpAddNode       = "add_node"
	OpAddEdge       = "add_edge"
	OpDetachNode    = "detach_node"
	OpDeleteSubtree = "delete_subtree"
	OpMoveNode      = "move_node"
	OpRecolorNode   = "recolor_node"
	OpResetTree     = "reset_tree"
)

// TreeEditHandler handles every command that edits a working tree
type TreeEditHandler struct {
	service *services.WorkspaceService
	logger  *zap.Logger
}

// NewTreeEditHandler creates a new tree edit handler
func NewTreeEditHandler(service *services.WorkspaceService, logger *zap.Logger) *TreeEditHandler {
	return &TreeEditHandler{
		service: service,
		logger:  logger,
	}
}

// Handle executes a tree edit command and returns a *services.EditResult
func (h *TreeEditHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.AddNodeCommand:
		return h.addNode(ctx, c)
	case commands.AddEdgeCommand:
		return h.edit(ctx, c.WorkspaceID, OpAddEdge, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
			return 0, t.AddEdge(valueobjects.NodeID(c.ChildID), valueobjects.NodeID(c.ParentID))
		})
	case commands.DetachNodeCommand:
		return h.edit(ctx, c.WorkspaceID, OpDetachNode, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
			return 0, t.DetachNode(valueobjects.NodeID(c.NodeID))
		})
	case commands.DeleteSubtreeCommand:
		return h.edit(ctx, c.WorkspaceID, OpDeleteSubtree, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
			return 0, t.DeleteSubtree(valueobjects.NodeID(c.NodeID))
		})
	case commands.MoveNodeCommand:
		return h.moveNode(ctx, c)
	case commands.RecolorNodeCommand:
		return h.recolorNode(ctx, c)
	case commands.ResetTreeCommand:
		return h.edit(ctx, c.WorkspaceID, OpResetTree, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
			t.Reset()
			return 0, nil
		})
	default:
		return nil, fmt.Errorf("tree edit handler cannot handle %T", cmd)
	}
}

func (h *TreeEditHandler) addNode(ctx context.Context, cmd commands.AddNodeCommand) (interface{}, error) {
	color, err := valueobjects.ParseColor(cmd.Color)
	if err != nil {
		return nil, err
	}
	position, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return nil, err
	}

	return h.edit(ctx, cmd.WorkspaceID, OpAddNode, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
		return t.AddNode(color, position)
	})
}

func (h *TreeEditHandler) moveNode(ctx context.Context, cmd commands.MoveNodeCommand) (interface{}, error) {
	position, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return nil, err
	}

	id := valueobjects.NodeID(cmd.NodeID)
	return h.edit(ctx, cmd.WorkspaceID, OpMoveNode, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
		return id, t.MoveNode(id, position)
	})
}

func (h *TreeEditHandler) recolorNode(ctx context.Context, cmd commands.RecolorNodeCommand) (interface{}, error) {
	color, err := valueobjects.ParseColor(cmd.Color)
	if err != nil {
		return nil, err
	}

	id := valueobjects.NodeID(cmd.NodeID)
	return h.edit(ctx, cmd.WorkspaceID, OpRecolorNode, func(t *aggregates.Tree) (valueobjects.NodeID, error) {
		return id, t.RecolorNode(id, color)
	})
}

func (h *TreeEditHandler) edit(
	ctx context.Context,
	workspaceID string,
	operation string,
	fn func(t *aggregates.Tree) (valueobjects.NodeID, error),
) (interface{}, error) {
	result, err := h.service.Edit(ctx, aggregates.WorkspaceID(workspaceID), operation, fn)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Tree edited",
		zap.String("workspaceID", workspaceID),
		zap.String("operation", operation),
		zap.Int("version", result.TreeVersion),
	)
	return result, nil
}
