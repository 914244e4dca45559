package dto

import "time"

// CreateAlertRequest is the payload for creating an alert
type CreateAlertRequest struct {
	Type     string                 `json:"type"`
	Severity string                 `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Message  string                 `json:"message" validate:"required"`
	Details  map[string]interface{} `json:"details"`
}

// TransitionRequest carries the actor for acknowledge and resolve
type TransitionRequest struct {
	By string `json:"by"`
}

// AlertDTO is the API representation of an alert
type AlertDTO struct {
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

// CleanupResult reports how many alerts a cleanup pass removed
type CleanupResult struct {
	Removed int `json:"removed"`
}
