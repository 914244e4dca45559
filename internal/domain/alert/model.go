package alert

import "time"

// Alert represents a detected condition with a lifecycle and severity
type Alert struct {
	ID             int64                  `json:"id"`
	Type           string                 `json:"type"`
	Severity       string                 `json:"severity"`
	Message        string                 `json:"message"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Status         string                 `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string                 `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	ResolvedBy     string                 `json:"resolved_by,omitempty"`
}

// Default alert type when none is given
const TypeSystem = "system"

// Alert severity levels
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Alert status, forward-only: active -> acknowledged -> resolved
const (
	StatusActive       = "active"
	StatusAcknowledged = "acknowledged"
	StatusResolved     = "resolved"
)

// ValidSeverity reports whether s is a known severity level
func ValidSeverity(s string) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Outcome is the explicit result of a lifecycle transition
type Outcome string

const (
	OutcomeAcknowledged      Outcome = "acknowledged"
	OutcomeResolved          Outcome = "resolved"
	OutcomeNotFound          Outcome = "not_found"
	OutcomeInvalidTransition Outcome = "invalid_transition"
)

// CreateParams carries the caller-supplied fields for a new alert
type CreateParams struct {
	Type     string
	Severity string
	Message  string
	Details  map[string]interface{}
}

// Filter contains alert listing options
type Filter struct {
	Severity string
	Status   string
}

// Stats summarizes the registry by status and severity
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}
