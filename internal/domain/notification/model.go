package notification

import (
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
)

// Channel identifies a delivery channel
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSlack Channel = "slack"
)

// Delivery statuses
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Delivery records one notification attempt for one channel
type Delivery struct {
	ID        string    `json:"id"`
	AlertID   int64     `json:"alert_id"`
	Channel   Channel   `json:"channel"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChannelsFor returns the channels an alert of the given severity routes to.
// Email is reserved for critical alerts; Slack covers medium and above.
func ChannelsFor(severity string) []Channel {
	var channels []Channel
	if severity == alert.SeverityCritical {
		channels = append(channels, ChannelEmail)
	}
	switch severity {
	case alert.SeverityMedium, alert.SeverityHigh, alert.SeverityCritical:
		channels = append(channels, ChannelSlack)
	}
	return channels
}

// SlackColor maps a severity to the attachment color used in Slack payloads
func SlackColor(severity string) string {
	switch severity {
	case alert.SeverityCritical:
		return "#8b0000"
	case alert.SeverityHigh:
		return "#ff0000"
	case alert.SeverityMedium:
		return "#ff8c00"
	default:
		return "#36a64f"
	}
}
