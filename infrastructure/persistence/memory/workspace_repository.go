package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"treeforge/domain/core/aggregates"
	pkgerrors "treeforge/pkg/errors"
)

type entry struct {
	workspace *aggregates.Workspace
	lastSeen  time.Time
}

// WorkspaceRepository keeps workspaces in process memory. Workspaces that
// have not been read or saved within the TTL are evicted.
type WorkspaceRepository struct {
	mu      sync.RWMutex
	items   map[aggregates.WorkspaceID]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	onEvict []func(aggregates.WorkspaceID)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWorkspaceRepository creates a repository and starts its cleanup loop
func NewWorkspaceRepository(ttl time.Duration, logger *zap.Logger) *WorkspaceRepository {
	r := newWorkspaceRepository(ttl, logger, time.Now)

	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	go r.cleanupLoop(interval)

	return r
}

func newWorkspaceRepository(ttl time.Duration, logger *zap.Logger, now func() time.Time) *WorkspaceRepository {
	return &WorkspaceRepository{
		items:  make(map[aggregates.WorkspaceID]*entry),
		ttl:    ttl,
		now:    now,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// OnEvict registers a callback run after a workspace expires
func (r *WorkspaceRepository) OnEvict(fn func(aggregates.WorkspaceID)) {
	r.mu.Lock()
	r.onEvict = append(r.onEvict, fn)
	r.mu.Unlock()
}

// Save persists a workspace (create or update)
func (r *WorkspaceRepository) Save(ctx context.Context, ws *aggregates.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ws.ID()] = &entry{workspace: ws, lastSeen: r.now()}
	return nil
}

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id aggregates.WorkspaceID) (*aggregates.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok || r.expired(e) {
		return nil, pkgerrors.NewNotFoundError("workspace " + id.String())
	}
	e.lastSeen = r.now()
	return e.workspace, nil
}

// Delete removes a workspace
func (r *WorkspaceRepository) Delete(ctx context.Context, id aggregates.WorkspaceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return pkgerrors.NewNotFoundError("workspace " + id.String())
	}
	delete(r.items, id)
	return nil
}

// Count returns the number of live workspaces
func (r *WorkspaceRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.items {
		if !r.expired(e) {
			n++
		}
	}
	return n, nil
}

// Stop ends the cleanup loop
func (r *WorkspaceRepository) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

func (r *WorkspaceRepository) expired(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}

// evictExpired removes expired workspaces and returns their ids
func (r *WorkspaceRepository) evictExpired() []aggregates.WorkspaceID {
	r.mu.Lock()
	var evicted []aggregates.WorkspaceID
	for id, e := range r.items {
		if r.expired(e) {
			delete(r.items, id)
			evicted = append(evicted, id)
		}
	}
	callbacks := append(([]func(aggregates.WorkspaceID))(nil), r.onEvict...)
	r.mu.Unlock()

	for _, id := range evicted {
		for _, cb := range callbacks {
			cb(id)
		}
	}
	if len(evicted) > 0 {
		r.logger.Info("Evicted idle workspaces", zap.Int("count", len(evicted)))
	}
	return evicted
}

func (r *WorkspaceRepository) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictExpired()
		case <-r.stopCh:
			return
		}
	}
}
