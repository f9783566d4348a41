package models

import (
	"time"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	"treeforge/domain/services"
)

// NodeDTO is a node as presented to clients
type NodeDTO struct {
	ID       valueobjects.NodeID   `json:"id"`
	Color    valueobjects.Color    `json:"color"`
	Position valueobjects.Position `json:"position"`
	ParentID *valueobjects.NodeID  `json:"parent_id,omitempty"`
}

// EdgeDTO is a child->parent edge
type EdgeDTO struct {
	Key      valueobjects.EdgeKey `json:"key"`
	ChildID  valueobjects.NodeID  `json:"child_id"`
	ParentID valueobjects.NodeID  `json:"parent_id"`
}

// WorkspaceView is the full state of a workspace with its latest analysis
type WorkspaceView struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	TreeVersion int                   `json:"tree_version"`
	Nodes       []NodeDTO             `json:"nodes"`
	Edges       []EdgeDTO             `json:"edges"`
	Roots       []valueobjects.NodeID `json:"roots"`
	HistorySize int                   `json:"history_size"`
	CreatedAt   time.Time             `json:"created_at"`
	LastAccess  time.Time             `json:"last_accessed"`
	Analysis    *services.Analysis    `json:"analysis"`
}

// NewWorkspaceView snapshots ws into a view. The caller must hold the
// workspace's lock.
func NewWorkspaceView(ws *aggregates.Workspace, analysis *services.Analysis) *WorkspaceView {
	tree := ws.Tree()
	view := &WorkspaceView{
		ID:          ws.ID().String(),
		Name:        ws.Name(),
		TreeVersion: tree.Version(),
		Nodes:       make([]NodeDTO, 0, tree.NodeCount()),
		Edges:       make([]EdgeDTO, 0, tree.NodeCount()),
		Roots:       tree.Snapshot().Roots(),
		HistorySize: ws.History().Len(),
		CreatedAt:   ws.CreatedAt(),
		LastAccess:  ws.LastAccessed(),
		Analysis:    analysis,
	}

	for _, n := range tree.Nodes() {
		dto := NodeDTO{
			ID:       n.ID(),
			Color:    n.Color(),
			Position: n.Position(),
		}
		if p, ok := tree.ParentOf(n.ID()); ok {
			parent := p
			dto.ParentID = &parent
			view.Edges = append(view.Edges, EdgeDTO{
				Key:      valueobjects.NewEdgeKey(n.ID(), p),
				ChildID:  n.ID(),
				ParentID: p,
			})
		}
		view.Nodes = append(view.Nodes, dto)
	}
	return view
}

// EmbeddingResult answers a single CanEmbed query
type EmbeddingResult struct {
	Pattern    valueobjects.NodeID `json:"pattern"`
	Host       valueobjects.NodeID `json:"host"`
	Embeddable bool                `json:"embeddable"`
}

// HistoryView lists the commits of a workspace
type HistoryView struct {
	WorkspaceID string                    `json:"workspace_id"`
	Entries     []aggregates.HistoryEntry `json:"entries"`
}
