package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/events"
)

// MockWorkspaceRepository is a mock implementation of ports.WorkspaceRepository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Save(ctx context.Context, ws *aggregates.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id aggregates.WorkspaceID) (*aggregates.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregates.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id aggregates.WorkspaceID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockEventBus is a mock implementation of ports.EventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockMetrics is a mock implementation of ports.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ObserveRecompute(duration time.Duration, nodes, embeddablePairs int) {
	m.Called(duration, nodes, embeddablePairs)
}

func (m *MockMetrics) IncEdit(operation string, success bool) {
	m.Called(operation, success)
}

func (m *MockMetrics) IncCommit(result string) {
	m.Called(result)
}

// NewPermissiveMetrics returns a MockMetrics that accepts any call
func NewPermissiveMetrics() *MockMetrics {
	m := new(MockMetrics)
	m.On("ObserveRecompute", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	m.On("IncEdit", mock.Anything, mock.Anything).Return().Maybe()
	m.On("IncCommit", mock.Anything).Return().Maybe()
	return m
}
