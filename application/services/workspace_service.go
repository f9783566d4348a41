package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"treeforge/application/ports"
	"treeforge/application/queries/models"
	"treeforge/domain/config"
	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	domainservices "treeforge/domain/services"
	pkgerrors "treeforge/pkg/errors"
)

// Commit results reported to metrics
const (
	CommitAccepted  = "accepted"
	CommitDuplicate = "duplicate"
	CommitInvalid   = "invalid"
)

// EditResult is returned by every tree edit
type EditResult struct {
	WorkspaceID string                   `json:"workspace_id"`
	NodeID      valueobjects.NodeID      `json:"node_id,omitempty"`
	TreeVersion int                      `json:"tree_version"`
	Analysis    *domainservices.Analysis `json:"analysis"`
}

// WorkspaceService runs edits and queries against workspaces. Operations on
// one workspace are serialized so each edit and its recompute finish before
// the next starts; different workspaces proceed in parallel.
type WorkspaceService struct {
	repo     ports.WorkspaceRepository
	eventBus ports.EventBus
	metrics  ports.Metrics
	engine   ports.EngineConfigSource
	logger   *zap.Logger

	locks sync.Map // aggregates.WorkspaceID -> *sync.Mutex

	mu       sync.Mutex
	analyses map[aggregates.WorkspaceID]cachedAnalysis
}

// cachedAnalysis is valid while neither the tree nor the engine bounds change
type cachedAnalysis struct {
	analysis *domainservices.Analysis
	engine   config.EngineConfig
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	repo ports.WorkspaceRepository,
	eventBus ports.EventBus,
	metrics ports.Metrics,
	engine ports.EngineConfigSource,
	logger *zap.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		repo:     repo,
		eventBus: eventBus,
		metrics:  metrics,
		engine:   engine,
		logger:   logger,
		analyses: make(map[aggregates.WorkspaceID]cachedAnalysis),
	}
}

// CreateWorkspace starts a new session with an empty tree
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name string) (*models.WorkspaceView, error) {
	ws := aggregates.NewWorkspace(name, s.engine.EngineConfig())
	if err := s.repo.Save(ctx, ws); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save workspace")
	}

	analysis := s.recompute(ws)
	s.logger.Info("Workspace created",
		zap.String("workspaceID", ws.ID().String()),
		zap.String("name", ws.Name()),
	)
	return models.NewWorkspaceView(ws, analysis), nil
}

// Edit applies fn to the workspace's tree, recomputes the analysis and saves.
// A failing fn leaves the tree unchanged and nothing is saved or published.
func (s *WorkspaceService) Edit(
	ctx context.Context,
	id aggregates.WorkspaceID,
	operation string,
	fn func(tree *aggregates.Tree) (valueobjects.NodeID, error),
) (*EditResult, error) {
	var result *EditResult
	err := s.withWorkspace(ctx, id, func(ws *aggregates.Workspace) error {
		ws.Tree().SetMaxNodes(s.engine.EngineConfig().MaxNodes)

		nodeID, err := fn(ws.Tree())
		s.metrics.IncEdit(operation, err == nil)
		if err != nil {
			return err
		}

		analysis := s.recompute(ws)
		if err := s.save(ctx, ws); err != nil {
			return err
		}

		result = &EditResult{
			WorkspaceID: id.String(),
			NodeID:      nodeID,
			TreeVersion: ws.Tree().Version(),
			Analysis:    analysis,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Commit appends the tree's whole-tree signature to the workspace history
func (s *WorkspaceService) Commit(ctx context.Context, id aggregates.WorkspaceID) (aggregates.HistoryEntry, error) {
	var entry aggregates.HistoryEntry
	err := s.withWorkspace(ctx, id, func(ws *aggregates.Workspace) error {
		var err error
		entry, err = domainservices.CommitTree(ws.Tree(), ws.History())
		switch {
		case err == nil:
			s.metrics.IncCommit(CommitAccepted)
		case pkgerrors.IsDuplicateRejected(err):
			s.metrics.IncCommit(CommitDuplicate)
		default:
			s.metrics.IncCommit(CommitInvalid)
		}

		// Rejections are recorded as events too, so save and publish either way.
		if saveErr := s.save(ctx, ws); saveErr != nil {
			return saveErr
		}
		return err
	})
	return entry, err
}

// View runs fn with the workspace and its current analysis under the workspace lock
func (s *WorkspaceService) View(
	ctx context.Context,
	id aggregates.WorkspaceID,
	fn func(ws *aggregates.Workspace, analysis *domainservices.Analysis) error,
) error {
	return s.withWorkspace(ctx, id, func(ws *aggregates.Workspace) error {
		return fn(ws, s.current(ws))
	})
}

// CanEmbed answers one embedding question with a fresh memo
func (s *WorkspaceService) CanEmbed(ctx context.Context, id aggregates.WorkspaceID, u, v valueobjects.NodeID) (bool, error) {
	var ok bool
	err := s.withWorkspace(ctx, id, func(ws *aggregates.Workspace) error {
		snap := ws.Tree().Snapshot()
		checker := domainservices.NewEmbeddingChecker(snap, domainservices.ComputeAggregates(snap), s.engine.EngineConfig())
		var err error
		ok, err = checker.CanEmbed(u, v)
		return err
	})
	return ok, err
}

// Forget drops cached state of a workspace that left the repository.
// A lock still held by a running operation is kept; that operation and any
// waiting on it fail with NotFound once the workspace is gone.
func (s *WorkspaceService) Forget(id aggregates.WorkspaceID) {
	if v, ok := s.locks.Load(id); ok {
		if lock := v.(*sync.Mutex); lock.TryLock() {
			s.locks.Delete(id)
			lock.Unlock()
		}
	}
	s.mu.Lock()
	delete(s.analyses, id)
	s.mu.Unlock()
}

func (s *WorkspaceService) withWorkspace(ctx context.Context, id aggregates.WorkspaceID, fn func(ws *aggregates.Workspace) error) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	ws, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = fn(ws)
	ws.Touch()
	return err
}

func (s *WorkspaceService) lockFor(id aggregates.WorkspaceID) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// recompute rebuilds and caches the analysis of ws's current tree
func (s *WorkspaceService) recompute(ws *aggregates.Workspace) *domainservices.Analysis {
	tree := ws.Tree()
	engine := s.engine.EngineConfig()
	analysis := domainservices.Recompute(tree.Snapshot(), engine)
	analysis.TreeVersion = tree.Version()

	s.metrics.ObserveRecompute(analysis.Duration, tree.NodeCount(), len(analysis.EmbeddablePairs))
	s.logger.Debug("Tree recomputed",
		zap.String("workspaceID", ws.ID().String()),
		zap.Int("version", analysis.TreeVersion),
		zap.Int("nodes", tree.NodeCount()),
		zap.Int("duplicateGroups", len(analysis.DuplicateGroups)),
		zap.Int("embeddablePairs", len(analysis.EmbeddablePairs)),
		zap.Duration("duration", analysis.Duration),
	)

	s.mu.Lock()
	s.analyses[ws.ID()] = cachedAnalysis{analysis: analysis, engine: *engine}
	s.mu.Unlock()
	return analysis
}

// current returns the cached analysis if it matches the tree and the engine
// bounds, else recomputes
func (s *WorkspaceService) current(ws *aggregates.Workspace) *domainservices.Analysis {
	s.mu.Lock()
	cached, ok := s.analyses[ws.ID()]
	s.mu.Unlock()
	if ok && cached.analysis.TreeVersion == ws.Tree().Version() && cached.engine == *s.engine.EngineConfig() {
		return cached.analysis
	}
	return s.recompute(ws)
}

func (s *WorkspaceService) save(ctx context.Context, ws *aggregates.Workspace) error {
	if err := s.repo.Save(ctx, ws); err != nil {
		return pkgerrors.Wrap(err, "failed to save workspace")
	}

	evts := ws.GetUncommittedEvents()
	if len(evts) > 0 {
		if err := s.eventBus.PublishBatch(ctx, evts); err != nil {
			s.logger.Warn("Failed to publish events",
				zap.String("workspaceID", ws.ID().String()),
				zap.Int("count", len(evts)),
				zap.Error(err),
			)
		}
	}
	ws.MarkEventsAsCommitted()
	return nil
}
