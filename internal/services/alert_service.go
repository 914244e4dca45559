package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/notification"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/metrics"
)

// AlertService implements alert.Service with an in-memory registry.
// Alerts do not survive a process restart.
type AlertService struct {
	dispatcher notification.Dispatcher
	logger     *logger.Logger
	retention  time.Duration

	mu     sync.RWMutex
	alerts map[int64]*alert.Alert
	nextID int64

	now func() time.Time
}

// NewAlertService creates an alert registry. retention bounds how long
// resolved alerts are kept before CleanupOldAlerts removes them.
func NewAlertService(dispatcher notification.Dispatcher, log *logger.Logger, retention time.Duration) *AlertService {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &AlertService{
		dispatcher: dispatcher,
		logger:     log,
		retention:  retention,
		alerts:     make(map[int64]*alert.Alert),
		nextID:     1,
		now:        time.Now,
	}
}

// Create registers a new alert and dispatches notifications in a
// detached goroutine so delivery never blocks the caller
func (s *AlertService) Create(ctx context.Context, params alert.CreateParams) *alert.Alert {
	if params.Type == "" {
		params.Type = alert.TypeSystem
	}
	if !alert.ValidSeverity(params.Severity) {
		params.Severity = alert.SeverityLow
	}

	s.mu.Lock()
	a := &alert.Alert{
		ID:        s.nextID,
		Type:      params.Type,
		Severity:  params.Severity,
		Message:   params.Message,
		Details:   params.Details,
		Status:    alert.StatusActive,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.alerts[a.ID] = a
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"alert_id": a.ID,
		"severity": a.Severity,
		"type":     a.Type,
	}).Info("Alert created")

	metrics.RecordAlertCreated(a.Severity, a.Type)
	s.updateActiveGauges()

	if s.dispatcher != nil {
		snapshot := *a
		go s.dispatcher.Dispatch(context.WithoutCancel(ctx), &snapshot)
	}

	return s.copyAlert(a)
}

// Get retrieves an alert by ID
func (s *AlertService) Get(id int64) (*alert.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, false
	}
	return s.copyAlert(a), true
}

// Acknowledge transitions an active alert to acknowledged
func (s *AlertService) Acknowledge(ctx context.Context, id int64, by string) alert.Outcome {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return alert.OutcomeNotFound
	}
	if a.Status != alert.StatusActive {
		s.mu.Unlock()
		return alert.OutcomeInvalidTransition
	}

	now := s.now()
	a.Status = alert.StatusAcknowledged
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = by
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"by":       by,
	}).Info("Alert acknowledged")

	s.updateActiveGauges()

	return alert.OutcomeAcknowledged
}

// Resolve transitions an active or acknowledged alert to resolved
func (s *AlertService) Resolve(ctx context.Context, id int64, by string) alert.Outcome {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return alert.OutcomeNotFound
	}
	if a.Status == alert.StatusResolved {
		s.mu.Unlock()
		return alert.OutcomeInvalidTransition
	}

	now := s.now()
	a.Status = alert.StatusResolved
	a.ResolvedAt = &now
	a.ResolvedBy = by
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"by":       by,
	}).Info("Alert resolved")

	s.updateActiveGauges()

	return alert.OutcomeResolved
}

// List returns alerts matching the filter, newest first
func (s *AlertService) List(filter alert.Filter) []*alert.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*alert.Alert
	for _, a := range s.alerts {
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, s.copyAlert(a))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

// ListActive returns alerts with status active, newest first
func (s *AlertService) ListActive() []*alert.Alert {
	return s.List(alert.Filter{Status: alert.StatusActive})
}

// ListBySeverity returns alerts with the given severity, newest first
func (s *AlertService) ListBySeverity(severity string) []*alert.Alert {
	return s.List(alert.Filter{Severity: severity})
}

// Stats returns counts by status and severity, computed by full scan
func (s *AlertService) Stats() alert.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := alert.Stats{
		ByStatus: map[string]int{
			alert.StatusActive:       0,
			alert.StatusAcknowledged: 0,
			alert.StatusResolved:     0,
		},
		BySeverity: map[string]int{
			alert.SeverityLow:      0,
			alert.SeverityMedium:   0,
			alert.SeverityHigh:     0,
			alert.SeverityCritical: 0,
		},
	}

	for _, a := range s.alerts {
		stats.Total++
		stats.ByStatus[a.Status]++
		stats.BySeverity[a.Severity]++
	}

	return stats
}

// CleanupOldAlerts removes resolved alerts whose ResolvedAt is past the
// retention window. Active and acknowledged alerts are never removed,
// regardless of age.
func (s *AlertService) CleanupOldAlerts() int {
	cutoff := s.now().Add(-s.retention)

	s.mu.Lock()
	removed := 0
	for id, a := range s.alerts {
		if a.Status == alert.StatusResolved && a.ResolvedAt != nil && a.ResolvedAt.Before(cutoff) {
			delete(s.alerts, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.WithFields(map[string]interface{}{
			"removed": removed,
		}).Info("Old resolved alerts cleaned up")
		metrics.RecordAlertsCleaned(removed)
	}
	s.updateActiveGauges()

	return removed
}

func (s *AlertService) updateActiveGauges() {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, a := range s.alerts {
		if a.Status == alert.StatusActive {
			counts[a.Severity]++
		}
	}
	s.mu.RUnlock()

	for _, sev := range []string{alert.SeverityLow, alert.SeverityMedium, alert.SeverityHigh, alert.SeverityCritical} {
		metrics.SetActiveAlerts(sev, float64(counts[sev]))
	}
}

// copyAlert returns a shallow copy so callers cannot mutate registry state
func (s *AlertService) copyAlert(a *alert.Alert) *alert.Alert {
	cp := *a
	return &cp
}
