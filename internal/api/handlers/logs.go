package handlers

import (
	"net/http"

	"github.com/nexus-platform/nexus-monitor/internal/domain/loganalysis"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/errors"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/utils"
)

type LogsHandler struct {
	service loganalysis.Service
	logger  *logger.Logger
}

func NewLogsHandler(service loganalysis.Service, log *logger.Logger) *LogsHandler {
	return &LogsHandler{service: service, logger: log}
}

// Analyze runs a fresh log analysis pass
// @Summary Analyze logs
// @Description Scan the log directory and produce a fresh analysis
// @Tags Logs
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=loganalysis.Analysis} "Analysis result"
// @Failure 500 {object} utils.ErrorResponse "Analysis failed"
// @Router /logs/analyze [post]
func (h *LogsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Analyze(r.Context())
	if err != nil {
		utils.WriteError(w, errors.Internal("Log analysis failed", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, analysis)
}

// Last returns the most recent analysis without re-reading files
// @Summary Last analysis
// @Description Return the most recent analysis result
// @Tags Logs
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=loganalysis.Analysis} "Last analysis"
// @Failure 404 {object} utils.ErrorResponse "No analysis has run yet"
// @Router /logs/analysis [get]
func (h *LogsHandler) Last(w http.ResponseWriter, r *http.Request) {
	analysis := h.service.Last()
	if analysis == nil {
		utils.WriteError(w, errors.New(errors.ErrCodeNotFound, "No analysis has run yet", http.StatusNotFound))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, analysis)
}

// RealTime returns the trailing-hour view with trend
// @Summary Real-time log view
// @Description Last-hour error and warning counts with a trend indicator
// @Tags Logs
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=loganalysis.RealTimeView} "Real-time view"
// @Router /logs/realtime [get]
func (h *LogsHandler) RealTime(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.service.RealTime())
}
