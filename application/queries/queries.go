package queries

import (
	"treeforge/pkg/utils"
)

// GetWorkspaceQuery fetches a workspace's tree and latest analysis
type GetWorkspaceQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

// Validate validates the query
func (q GetWorkspaceQuery) Validate() error { return utils.ValidateStruct(q) }

// GetAnalysisQuery fetches only the analysis of the current tree
type GetAnalysisQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

// Validate validates the query
func (q GetAnalysisQuery) Validate() error { return utils.ValidateStruct(q) }

// CanEmbedQuery asks whether the pattern node's subtree embeds into the host's
type CanEmbedQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	PatternID   int    `json:"u" validate:"gt=0"`
	HostID      int    `json:"v" validate:"gt=0"`
}

// Validate validates the query
func (q CanEmbedQuery) Validate() error { return utils.ValidateStruct(q) }

// ListHistoryQuery lists the trees committed from a workspace
type ListHistoryQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

// Validate validates the query
func (q ListHistoryQuery) Validate() error { return utils.ValidateStruct(q) }
