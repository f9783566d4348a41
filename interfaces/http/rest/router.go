package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"treeforge/application/commands/bus"
	"treeforge/application/ports"
	querybus "treeforge/application/queries/bus"
	"treeforge/infrastructure/config"
	"treeforge/infrastructure/observability"
	"treeforge/interfaces/http/rest/handlers"
	"treeforge/interfaces/http/rest/middleware"
	pkgerrors "treeforge/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	repo       ports.WorkspaceRepository
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	repo ports.WorkspaceRepository,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		repo:       repo,
		metrics:    metrics,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger, rt.recorder()))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics && rt.metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1/workspaces", func(r chi.Router) {
		workspaces := handlers.NewWorkspaceHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
		tree := handlers.NewTreeHandler(rt.commandBus, errorHandler, rt.logger)

		r.Post("/", workspaces.CreateWorkspace)

		r.Route("/{workspaceID}", func(r chi.Router) {
			r.Get("/", workspaces.GetWorkspace)
			r.Get("/analysis", workspaces.GetAnalysis)
			r.Get("/embeddings", workspaces.CanEmbed)
			r.Get("/history", workspaces.ListHistory)
			r.Post("/commit", workspaces.Commit)
			r.Post("/reset", workspaces.Reset)

			r.Post("/nodes", tree.AddNode)
			r.Delete("/nodes/{nodeID}", tree.DeleteNode)
			r.Put("/nodes/{nodeID}/position", tree.MoveNode)
			r.Put("/nodes/{nodeID}/color", tree.RecolorNode)

			r.Post("/edges", tree.AddEdge)
			r.Delete("/edges/{childID}", tree.DetachNode)
		})
	})

	return router
}

func (rt *Router) recorder() middleware.RequestRecorder {
	if rt.metrics == nil {
		return nil
	}
	return rt.metrics
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the workspace store answers
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	count, err := rt.repo.Count(req.Context())
	if err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ready","workspaces":%d}`, count)
}
