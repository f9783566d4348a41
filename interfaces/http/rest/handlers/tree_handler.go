package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"treeforge/application/commands"
	"treeforge/application/commands/bus"
	pkgerrors "treeforge/pkg/errors"
)

// TreeHandler handles edits of a workspace's working tree. Every successful
// edit responds with the recomputed analysis.
type TreeHandler struct {
	responder
	commandBus *bus.CommandBus
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(commandBus *bus.CommandBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *TreeHandler {
	return &TreeHandler{
		responder:  responder{errors: errorHandler, logger: logger},
		commandBus: commandBus,
	}
}

// AddNodeRequest represents the request body for placing a node
type AddNodeRequest struct {
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// AddEdgeRequest represents the request body for connecting two nodes
type AddEdgeRequest struct {
	ChildID  int `json:"child_id"`
	ParentID int `json:"parent_id"`
}

// MoveNodeRequest represents the request body for moving a node
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RecolorNodeRequest represents the request body for recoloring a node
type RecolorNodeRequest struct {
	Color string `json:"color"`
}

// AddNode handles POST /workspaces/{workspaceID}/nodes
func (h *TreeHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req AddNodeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.send(w, r, http.StatusCreated, commands.AddNodeCommand{
		WorkspaceID: id.String(),
		Color:       req.Color,
		X:           req.X,
		Y:           req.Y,
	})
}

// DeleteNode handles DELETE /workspaces/{workspaceID}/nodes/{nodeID}.
// The node's whole subtree goes with it.
func (h *TreeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	nodeID, err := nodeIDParam(r, "nodeID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.send(w, r, http.StatusOK, commands.DeleteSubtreeCommand{WorkspaceID: id.String(), NodeID: int(nodeID)})
}

// MoveNode handles PUT /workspaces/{workspaceID}/nodes/{nodeID}/position
func (h *TreeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	nodeID, err := nodeIDParam(r, "nodeID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req MoveNodeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.send(w, r, http.StatusOK, commands.MoveNodeCommand{
		WorkspaceID: id.String(),
		NodeID:      int(nodeID),
		X:           req.X,
		Y:           req.Y,
	})
}

// RecolorNode handles PUT /workspaces/{workspaceID}/nodes/{nodeID}/color
func (h *TreeHandler) RecolorNode(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	nodeID, err := nodeIDParam(r, "nodeID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req RecolorNodeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.send(w, r, http.StatusOK, commands.RecolorNodeCommand{
		WorkspaceID: id.String(),
		NodeID:      int(nodeID),
		Color:       req.Color,
	})
}

// AddEdge handles POST /workspaces/{workspaceID}/edges
func (h *TreeHandler) AddEdge(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req AddEdgeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.send(w, r, http.StatusCreated, commands.AddEdgeCommand{
		WorkspaceID: id.String(),
		ChildID:     req.ChildID,
		ParentID:    req.ParentID,
	})
}

// DetachNode handles DELETE /workspaces/{workspaceID}/edges/{childID}
func (h *TreeHandler) DetachNode(w http.ResponseWriter, r *http.Request) {
	id, err := workspaceIDParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	childID, err := nodeIDParam(r, "childID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.send(w, r, http.StatusOK, commands.DetachNodeCommand{WorkspaceID: id.String(), NodeID: int(childID)})
}

func (h *TreeHandler) send(w http.ResponseWriter, r *http.Request, status int, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, status, result)
}
