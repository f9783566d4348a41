package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"treeforge/application/commands"
	"treeforge/application/commands/bus"
	"treeforge/application/queries"
	querybus "treeforge/application/queries/bus"
	pkgerrors "treeforge/pkg/errors"
)

// WorkspaceHandler handles workspace-level HTTP requests
type WorkspaceHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		responder:  responder{errors: errorHandler, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// CreateWorkspaceRequest represents the request body for creating a workspace
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// CreateWorkspace handles POST /workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if r.ContentLength != 0 {
		if err := h.decode(w, r, &req); err != nil {
			h.respondError(w, r, err)
			return
		}
	}

	result, err := h.commandBus.Send(r.Context(), commands.CreateWorkspaceCommand{Name: req.Name})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, result)
}

// GetWorkspace handles GET /workspaces/{workspaceID}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.GetWorkspaceQuery{WorkspaceID: id.String()})
}

// GetAnalysis handles GET /workspaces/{workspaceID}/analysis
func (h *WorkspaceHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.GetAnalysisQuery{WorkspaceID: id.String()})
}

// CanEmbed handles GET /workspaces/{workspaceID}/embeddings?u=&v=
func (h *WorkspaceHandler) CanEmbed(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	u, errU := strconv.Atoi(r.URL.Query().Get("u"))
	v, errV := strconv.Atoi(r.URL.Query().Get("v"))
	if errU != nil || errV != nil {
		h.respondError(w, r, pkgerrors.NewValidationError("query parameters u and v must be node IDs"))
		return
	}

	h.ask(w, r, queries.CanEmbedQuery{WorkspaceID: id.String(), PatternID: u, HostID: v})
}

// ListHistory handles GET /workspaces/{workspaceID}/history
func (h *WorkspaceHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.ListHistoryQuery{WorkspaceID: id.String()})
}

// Commit handles POST /workspaces/{workspaceID}/commit
func (h *WorkspaceHandler) Commit(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	entry, err := h.commandBus.Send(r.Context(), commands.CommitTreeCommand{WorkspaceID: id.String()})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, entry)
}

// Reset handles POST /workspaces/{workspaceID}/reset
func (h *WorkspaceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.ResetTreeCommand{WorkspaceID: id.String()})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *WorkspaceHandler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
