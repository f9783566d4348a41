package di

import (
	"fmt"

	"github.com/google/wire"
	"go.uber.org/zap"

	"treeforge/application/commands/bus"
	commandhandlers "treeforge/application/commands/handlers"
	"treeforge/application/ports"
	querybus "treeforge/application/queries/bus"
	queryhandlers "treeforge/application/queries/handlers"
	"treeforge/application/services"
	"treeforge/infrastructure/config"
	"treeforge/infrastructure/messaging"
	"treeforge/infrastructure/observability"
	"treeforge/infrastructure/persistence/memory"
)

// MetricsNamespace prefixes every Prometheus metric
const MetricsNamespace = "treeforge"

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Engine     *config.EngineConfigWatcher
	Repository ports.WorkspaceRepository
	EventBus   ports.EventBus
	Metrics    *observability.Collector
	Service    *services.WorkspaceService
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideEngineConfigWatcher,
	wire.Bind(new(ports.EngineConfigSource), new(*config.EngineConfigWatcher)),
	ProvideWorkspaceRepository,
	wire.Bind(new(ports.WorkspaceRepository), new(*memory.WorkspaceRepository)),
	ProvideCollector,
	wire.Bind(new(ports.Metrics), new(*observability.Collector)),
	ProvideEventBus,
	wire.Bind(new(ports.EventBus), new(*messaging.EventBus)),
	ProvideWorkspaceService,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build(zap.Fields(zap.String("environment", cfg.Environment)))
}

// ProvideEngineConfigWatcher serves the engine bounds and watches the engine file in development
func ProvideEngineConfigWatcher(cfg *config.Config, logger *zap.Logger) (*config.EngineConfigWatcher, func(), error) {
	watcher, err := config.NewEngineConfigWatcher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return watcher, watcher.Stop, nil
}

// ProvideWorkspaceRepository creates the in-memory workspace store
func ProvideWorkspaceRepository(cfg *config.Config, logger *zap.Logger) (*memory.WorkspaceRepository, func()) {
	repo := memory.NewWorkspaceRepository(cfg.WorkspaceTTL, logger)
	return repo, repo.Stop
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(MetricsNamespace)
}

// ProvideEventBus creates an in-process event bus that counts every event
func ProvideEventBus(collector *observability.Collector, logger *zap.Logger) *messaging.EventBus {
	return messaging.NewEventBus(collector, logger)
}

// ProvideWorkspaceService creates the workspace service and drops its cached
// state whenever the repository evicts a workspace
func ProvideWorkspaceService(
	repo *memory.WorkspaceRepository,
	eventBus ports.EventBus,
	metrics ports.Metrics,
	engine ports.EngineConfigSource,
	logger *zap.Logger,
) *services.WorkspaceService {
	service := services.NewWorkspaceService(repo, eventBus, metrics, engine, logger)
	repo.OnEvict(service.Forget)
	return service
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(service *services.WorkspaceService, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	if err := commandhandlers.Register(commandBus, service, logger); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(service *services.WorkspaceService) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	if err := queryhandlers.Register(queryBus, service); err != nil {
		return nil, err
	}
	return queryBus, nil
}
