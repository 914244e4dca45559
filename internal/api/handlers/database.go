package handlers

import (
	"net/http"

	"github.com/nexus-platform/nexus-monitor/internal/domain/dbhealth"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/utils"
)

type DatabaseHandler struct {
	service dbhealth.Service
	logger  *logger.Logger
}

func NewDatabaseHandler(service dbhealth.Service, log *logger.Logger) *DatabaseHandler {
	return &DatabaseHandler{service: service, logger: log}
}

// Status returns a fresh database health report
// @Summary Database health report
// @Description Run the full health probe: connectivity, table counts and sub-checks
// @Tags Database
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dbhealth.Report} "Health report"
// @Router /database/status [get]
func (h *DatabaseHandler) Status(w http.ResponseWriter, r *http.Request) {
	report := h.service.Status(r.Context())
	utils.WriteSuccess(w, http.StatusOK, report)
}

// Monitoring returns the process-lifetime query counters
// @Summary Database monitoring counters
// @Description Connection, query, slow-query and error counts since start or last reset
// @Tags Database
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dbhealth.MonitoringData} "Counters"
// @Router /database/monitoring [get]
func (h *DatabaseHandler) Monitoring(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.service.MonitoringData())
}

// ResetMonitoring zeroes the query counters
// @Summary Reset monitoring counters
// @Description Zero the database monitoring counters
// @Tags Database
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Counters reset"
// @Router /database/monitoring [delete]
func (h *DatabaseHandler) ResetMonitoring(w http.ResponseWriter, r *http.Request) {
	h.service.ResetMonitoringData()
	h.logger.Info("Database monitoring counters reset")
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Monitoring counters reset", nil)
}
