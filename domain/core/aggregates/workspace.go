package aggregates

import (
	"time"

	"github.com/google/uuid"

	"treeforge/domain/config"
	"treeforge/domain/events"
	pkgerrors "treeforge/pkg/errors"
)

// WorkspaceID identifies an editing session
type WorkspaceID string

// NewWorkspaceID creates a new random WorkspaceID
func NewWorkspaceID() WorkspaceID {
	return WorkspaceID(uuid.New().String())
}

// ParseWorkspaceID validates a workspace id received from a client
func ParseWorkspaceID(s string) (WorkspaceID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", pkgerrors.NewValidationError("workspace ID must be a UUID")
	}
	return WorkspaceID(s), nil
}

// String returns the string representation
func (id WorkspaceID) String() string {
	return string(id)
}

// Workspace pairs one working tree with the history of trees committed from it.
// Resetting the tree keeps the history.
type Workspace struct {
	id           WorkspaceID
	name         string
	tree         *Tree
	history      *History
	createdAt    time.Time
	lastAccessed time.Time
}

// NewWorkspace creates a workspace with an empty tree and history
func NewWorkspace(name string, cfg *config.EngineConfig) *Workspace {
	if name == "" {
		name = "Untitled workspace"
	}
	now := time.Now()
	return &Workspace{
		id:           NewWorkspaceID(),
		name:         name,
		tree:         NewTree(cfg),
		history:      NewHistory(),
		createdAt:    now,
		lastAccessed: now,
	}
}

func (w *Workspace) ID() WorkspaceID         { return w.id }
func (w *Workspace) Name() string            { return w.name }
func (w *Workspace) Tree() *Tree             { return w.tree }
func (w *Workspace) History() *History       { return w.history }
func (w *Workspace) CreatedAt() time.Time    { return w.createdAt }
func (w *Workspace) LastAccessed() time.Time { return w.lastAccessed }

// Touch marks the workspace as used now
func (w *Workspace) Touch() {
	w.lastAccessed = time.Now()
}

// GetUncommittedEvents returns the pending events of the tree and the history
func (w *Workspace) GetUncommittedEvents() []events.DomainEvent {
	return append(w.tree.GetUncommittedEvents(), w.history.GetUncommittedEvents()...)
}

// MarkEventsAsCommitted clears pending events of the tree and the history
func (w *Workspace) MarkEventsAsCommitted() {
	w.tree.MarkEventsAsCommitted()
	w.history.MarkEventsAsCommitted()
}
