package alert

import "context"

// Service defines the interface for the alert registry
type Service interface {
	// Create registers a new alert and triggers notification dispatch.
	// Notification delivery never blocks or fails the caller.
	Create(ctx context.Context, params CreateParams) *Alert

	// Get retrieves an alert by ID
	Get(id int64) (*Alert, bool)

	// Acknowledge transitions an active alert to acknowledged
	Acknowledge(ctx context.Context, id int64, by string) Outcome

	// Resolve transitions an active or acknowledged alert to resolved
	Resolve(ctx context.Context, id int64, by string) Outcome

	// List returns alerts matching the filter, newest first
	List(filter Filter) []*Alert

	// ListActive returns alerts with status active, newest first
	ListActive() []*Alert

	// ListBySeverity returns alerts with the given severity, newest first
	ListBySeverity(severity string) []*Alert

	// Stats returns counts by status and severity
	Stats() Stats

	// CleanupOldAlerts removes resolved alerts past the retention window
	// and returns how many were removed
	CleanupOldAlerts() int
}
