package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"treeforge/application/commands"
	"treeforge/application/queries"
	"treeforge/application/queries/models"
	domainconfig "treeforge/domain/config"
	"treeforge/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerAddress: ":0",
		Environment:   "test",
		LogLevel:      "error",
		WorkspaceTTL:  time.Hour,
		Engine:        domainconfig.DefaultEngineConfig(),
	}
}

func TestInitializeContainer(t *testing.T) {
	container, cleanup, err := InitializeContainer(testConfig())
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	res, err := container.CommandBus.Send(ctx, commands.CreateWorkspaceCommand{Name: "wired"})
	require.NoError(t, err)
	view := res.(*models.WorkspaceView)

	_, err = container.CommandBus.Send(ctx, commands.AddNodeCommand{WorkspaceID: view.ID, Color: "blue"})
	require.NoError(t, err)

	got, err := container.QueryBus.Ask(ctx, queries.GetWorkspaceQuery{WorkspaceID: view.ID})
	require.NoError(t, err)
	assert.Len(t, got.(*models.WorkspaceView).Nodes, 1)

	count, err := container.Repository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := container.Metrics.GetRegistry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "treeforge_tree_edits_total")
	assert.Contains(t, names, "treeforge_events_published_total")
}

func TestProvideLogger(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "loud"
	_, err := ProvideLogger(cfg)
	assert.Error(t, err)

	cfg.LogLevel = "debug"
	cfg.Environment = config.Production
	logger, err := ProvideLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
