package handlers

import (
	"context"
	"fmt"

	"treeforge/application/queries"
	"treeforge/application/queries/bus"
	"treeforge/application/queries/models"
	"treeforge/application/services"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	domainservices "treeforge/domain/services"
)

// GetWorkspaceHandler handles GetWorkspaceQuery
type GetWorkspaceHandler struct {
	service *services.WorkspaceService
}

// NewGetWorkspaceHandler creates a new handler instance
func NewGetWorkspaceHandler(service *services.WorkspaceService) *GetWorkspaceHandler {
	return &GetWorkspaceHandler{service: service}
}

// Handle returns a *models.WorkspaceView
func (h *GetWorkspaceHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetWorkspaceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	var view *models.WorkspaceView
	err := h.service.View(ctx, aggregates.WorkspaceID(q.WorkspaceID),
		func(ws *aggregates.Workspace, analysis *domainservices.Analysis) error {
			view = models.NewWorkspaceView(ws, analysis)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetAnalysisHandler handles GetAnalysisQuery
type GetAnalysisHandler struct {
	service *services.WorkspaceService
}

// NewGetAnalysisHandler creates a new handler instance
func NewGetAnalysisHandler(service *services.WorkspaceService) *GetAnalysisHandler {
	return &GetAnalysisHandler{service: service}
}

// Handle returns the *domainservices.Analysis of the current tree
func (h *GetAnalysisHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetAnalysisQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	var result *domainservices.Analysis
	err := h.service.View(ctx, aggregates.WorkspaceID(q.WorkspaceID),
		func(_ *aggregates.Workspace, analysis *domainservices.Analysis) error {
			result = analysis
			return nil
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CanEmbedHandler handles CanEmbedQuery
type CanEmbedHandler struct {
	service *services.WorkspaceService
}

// NewCanEmbedHandler creates a new handler instance
func NewCanEmbedHandler(service *services.WorkspaceService) *CanEmbedHandler {
	return &CanEmbedHandler{service: service}
}

// Handle returns a *models.EmbeddingResult
func (h *CanEmbedHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.CanEmbedQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	u, v := valueobjects.NodeID(q.PatternID), valueobjects.NodeID(q.HostID)
	embeddable, err := h.service.CanEmbed(ctx, aggregates.WorkspaceID(q.WorkspaceID), u, v)
	if err != nil {
		return nil, err
	}
	return &models.EmbeddingResult{Pattern: u, Host: v, Embeddable: embeddable}, nil
}

// ListHistoryHandler handles ListHistoryQuery
type ListHistoryHandler struct {
	service *services.WorkspaceService
}

// NewListHistoryHandler creates a new handler instance
func NewListHistoryHandler(service *services.WorkspaceService) *ListHistoryHandler {
	return &ListHistoryHandler{service: service}
}

// Handle returns a *models.HistoryView
func (h *ListHistoryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	view := &models.HistoryView{WorkspaceID: q.WorkspaceID}
	err := h.service.View(ctx, aggregates.WorkspaceID(q.WorkspaceID),
		func(ws *aggregates.Workspace, _ *domainservices.Analysis) error {
			view.Entries = ws.History().Entries()
			return nil
		})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Register wires every query handler into the bus
func Register(b *bus.QueryBus, service *services.WorkspaceService) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetWorkspaceQuery{}, NewGetWorkspaceHandler(service)},
		{queries.GetAnalysisQuery{}, NewGetAnalysisHandler(service)},
		{queries.CanEmbedQuery{}, NewCanEmbedHandler(service)},
		{queries.ListHistoryQuery{}, NewListHistoryHandler(service)},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}
