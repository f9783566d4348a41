package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"treeforge/application/commands"
	"treeforge/application/commands/bus"
	"treeforge/application/services"
	"treeforge/domain/core/aggregates"
	pkgerrors "treeforge/pkg/errors"
)

// CreateWorkspaceHandler handles CreateWorkspaceCommand
type CreateWorkspaceHandler struct {
	service *services.WorkspaceService
}

// NewCreateWorkspaceHandler creates a new handler instance
func NewCreateWorkspaceHandler(service *services.WorkspaceService) *CreateWorkspaceHandler {
	return &CreateWorkspaceHandler{service: service}
}

// Handle creates the workspace and returns its *models.WorkspaceView
func (h *CreateWorkspaceHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.CreateWorkspaceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid command type %T", cmd)
	}
	return h.service.CreateWorkspace(ctx, c.Name)
}

// CommitTreeHandler handles CommitTreeCommand
type CommitTreeHandler struct {
	service *services.WorkspaceService
	logger  *zap.Logger
}

// NewCommitTreeHandler creates a new handler instance
func NewCommitTreeHandler(service *services.WorkspaceService, logger *zap.Logger) *CommitTreeHandler {
	return &CommitTreeHandler{
		service: service,
		logger:  logger,
	}
}

// Handle commits the working tree and returns the new aggregates.HistoryEntry
func (h *CommitTreeHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.CommitTreeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid command type %T", cmd)
	}

	entry, err := h.service.Commit(ctx, aggregates.WorkspaceID(c.WorkspaceID))
	if err != nil {
		if pkgerrors.IsDuplicateRejected(err) {
			h.logger.Info("Commit rejected as duplicate", zap.String("workspaceID", c.WorkspaceID))
		}
		return nil, err
	}

	h.logger.Info("Tree committed",
		zap.String("workspaceID", c.WorkspaceID),
		zap.Int("index", entry.Index),
		zap.String("signature", entry.Signature.String()),
	)
	return entry, nil
}

// Register wires every command handler into the bus
func Register(b *bus.CommandBus, service *services.WorkspaceService, logger *zap.Logger) error {
	edits := NewTreeEditHandler(service, logger)
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateWorkspaceCommand{}, NewCreateWorkspaceHandler(service)},
		{commands.AddNodeCommand{}, edits},
		{commands.AddEdgeCommand{}, edits},
		{commands.DetachNodeCommand{}, edits},
		{commands.DeleteSubtreeCommand{}, edits},
		{commands.MoveNodeCommand{}, edits},
		{commands.RecolorNodeCommand{}, edits},
		{commands.ResetTreeCommand{}, edits},
		{commands.CommitTreeCommand{}, NewCommitTreeHandler(service, logger)},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}
