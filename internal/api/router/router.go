package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nexus-platform/nexus-monitor/internal/api/handlers"
	"github.com/nexus-platform/nexus-monitor/internal/api/middleware"
	"github.com/nexus-platform/nexus-monitor/internal/config"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/metrics"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Alert    *handlers.AlertHandler
	Database *handlers.DatabaseHandler
	Logs     *handlers.LogsHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Health checks and metrics
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/alerts", func(r chi.Router) {
			r.Post("/", h.Alert.Create)
			r.Get("/", h.Alert.List)
			r.Get("/stats", h.Alert.Stats)
			r.Post("/cleanup", h.Alert.Cleanup)
			r.Post("/{id}/acknowledge", h.Alert.Acknowledge)
			r.Post("/{id}/resolve", h.Alert.Resolve)
		})

		r.Get("/notifications/deliveries", h.Alert.Deliveries)

		r.Route("/database", func(r chi.Router) {
			r.Get("/status", h.Database.Status)
			r.Get("/monitoring", h.Database.Monitoring)
			r.Delete("/monitoring", h.Database.ResetMonitoring)
		})

		r.Route("/logs", func(r chi.Router) {
			r.Post("/analyze", h.Logs.Analyze)
			r.Get("/analysis", h.Logs.Last)
			r.Get("/realtime", h.Logs.RealTime)
		})
	})

	return r
}
