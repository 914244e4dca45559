package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nexus-platform/nexus-monitor/internal/api/dto"
	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/notification"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/errors"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/utils"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/validator"
)

type AlertHandler struct {
	service    alert.Service
	dispatcher notification.Dispatcher
	logger     *logger.Logger
	validator  *validator.Validator
}

func NewAlertHandler(service alert.Service, dispatcher notification.Dispatcher, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{service: service, dispatcher: dispatcher, logger: log, validator: val}
}

// Create creates a new alert
// @Summary Create alert
// @Description Register a new alert and fan out notifications by severity
// @Tags Alerts
// @Accept json
// @Produce json
// @Param request body dto.CreateAlertRequest true "Alert details"
// @Success 201 {object} dto.AlertDTO "Alert created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Router /alerts [post]
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	a := h.service.Create(r.Context(), alert.CreateParams{
		Type:     req.Type,
		Severity: req.Severity,
		Message:  req.Message,
		Details:  req.Details,
	})

	utils.WriteSuccess(w, http.StatusCreated, toAlertDTO(a))
}

// List returns alerts matching the optional filters
// @Summary List alerts
// @Description Get alerts filtered by severity and status, newest first
// @Tags Alerts
// @Produce json
// @Param severity query string false "Filter by severity"
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.AlertDTO} "List of alerts"
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := alert.Filter{
		Severity: r.URL.Query().Get("severity"),
		Status:   r.URL.Query().Get("status"),
	}

	alerts := h.service.List(filter)

	dtos := make([]dto.AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toAlertDTO(a)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Stats returns aggregate alert counts
// @Summary Alert statistics
// @Description Counts of alerts by status and severity
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=alert.Stats} "Alert statistics"
// @Router /alerts/stats [get]
func (h *AlertHandler) Stats(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.service.Stats())
}

// Acknowledge marks an active alert as acknowledged
// @Summary Acknowledge alert
// @Description Transition an active alert to acknowledged
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param request body dto.TransitionRequest false "Actor"
// @Success 200 {object} dto.AlertDTO "Acknowledged alert"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Failure 409 {object} utils.ErrorResponse "Alert not in acknowledgeable state"
// @Router /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Acknowledge)
}

// Resolve marks an alert as resolved
// @Summary Resolve alert
// @Description Transition an active or acknowledged alert to resolved
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param request body dto.TransitionRequest false "Actor"
// @Success 200 {object} dto.AlertDTO "Resolved alert"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Failure 409 {object} utils.ErrorResponse "Alert already resolved"
// @Router /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Resolve)
}

func (h *AlertHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, int64, string) alert.Outcome) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid alert ID"))
		return
	}

	var req dto.TransitionRequest
	if r.Body != nil {
		// Body is optional; a missing actor is recorded as empty
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	switch outcome := apply(r.Context(), id, req.By); outcome {
	case alert.OutcomeNotFound:
		utils.WriteError(w, errors.NotFound("Alert"))
	case alert.OutcomeInvalidTransition:
		utils.WriteError(w, errors.Conflict("Alert cannot transition from its current status"))
	default:
		a, ok := h.service.Get(id)
		if !ok {
			// Removed between the transition and the re-read
			utils.WriteError(w, errors.NotFound("Alert"))
			return
		}
		utils.WriteSuccess(w, http.StatusOK, toAlertDTO(a))
	}
}

// Cleanup removes resolved alerts older than the retention window
// @Summary Clean up old alerts
// @Description Remove resolved alerts past the retention period
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CleanupResult} "Cleanup result"
// @Router /alerts/cleanup [post]
func (h *AlertHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed := h.service.CleanupOldAlerts()
	utils.WriteSuccess(w, http.StatusOK, dto.CleanupResult{Removed: removed})
}

// Deliveries returns recent notification delivery records
// @Summary Notification deliveries
// @Description Recent notification delivery attempts, newest first
// @Tags Notifications
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]notification.Delivery} "Delivery records"
// @Router /notifications/deliveries [get]
func (h *AlertHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.dispatcher.Deliveries())
}

func toAlertDTO(a *alert.Alert) dto.AlertDTO {
	return dto.AlertDTO{
		ID:             a.ID,
		Type:           a.Type,
		Severity:       a.Severity,
		Message:        a.Message,
		Details:        a.Details,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		ResolvedAt:     a.ResolvedAt,
		ResolvedBy:     a.ResolvedBy,
	}
}
