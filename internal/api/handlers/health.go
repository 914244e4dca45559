package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	dbPath string
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dbPath string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		dbPath: dbPath,
		logger: log,
	}
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Description Check if the application is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is alive"
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readyz handles readiness probe
// @Summary Readiness probe
// @Description Check if the monitored database is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is ready"
// @Failure 503 {object} utils.ErrorResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	db, err := sql.Open("sqlite", h.dbPath)
	if err == nil {
		err = db.PingContext(ctx)
		_ = db.Close()
	}
	if err != nil {
		h.logger.ErrorWithErr(err, "Database ping failed")
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database connection failed")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "connected",
	})
}
