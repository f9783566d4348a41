package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	pkgerrors "treeforge/pkg/errors"
)

// maxBodyBytes bounds request bodies; every payload is a handful of fields
const maxBodyBytes = 1 << 16

type responder struct {
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.errors.Handle(w, r, err)
}

// decode reads a JSON body into dst, reporting failures as validation errors
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return pkgerrors.NewValidationError("invalid request body").WithCause(err)
	}
	return nil
}

func workspaceIDParam(r *http.Request) (aggregates.WorkspaceID, error) {
	return aggregates.ParseWorkspaceID(chi.URLParam(r, "workspaceID"))
}

func nodeIDParam(r *http.Request, name string) (valueobjects.NodeID, error) {
	return valueobjects.ParseNodeID(chi.URLParam(r, name))
}
