package ports

import (
	"context"
	"time"

	"treeforge/domain/config"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/events"
)

// WorkspaceRepository stores editing sessions.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type WorkspaceRepository interface {
	// Save persists a workspace (create or update)
	Save(ctx context.Context, ws *aggregates.Workspace) error

	// GetByID retrieves a workspace by its ID
	GetByID(ctx context.Context, id aggregates.WorkspaceID) (*aggregates.Workspace, error)

	// Delete removes a workspace
	Delete(ctx context.Context, id aggregates.WorkspaceID) error

	// Count returns the number of stored workspaces
	Count(ctx context.Context) (int, error)
}

// EventBus publishes domain events
type EventBus interface {
	// Publish publishes a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch publishes multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Metrics records engine and service measurements
type Metrics interface {
	// ObserveRecompute records one full analysis pass
	ObserveRecompute(duration time.Duration, nodes, embeddablePairs int)

	// IncEdit counts a tree edit by operation and outcome
	IncEdit(operation string, success bool)

	// IncCommit counts a commit attempt by result
	IncCommit(result string)
}

// EngineConfigSource supplies the current engine bounds. The value may change
// between calls when the configuration is reloaded.
type EngineConfigSource interface {
	EngineConfig() *config.EngineConfig
}

// StaticEngineConfig is an EngineConfigSource that never changes
type StaticEngineConfig struct {
	Config *config.EngineConfig
}

// EngineConfig returns a copy of the fixed configuration
func (s StaticEngineConfig) EngineConfig() *config.EngineConfig {
	if s.Config == nil {
		return config.DefaultEngineConfig()
	}
	return s.Config.Clone()
}
