package notification

import (
	"context"

	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
)

// Sender delivers an alert through a single channel
type Sender interface {
	// Channel returns the channel this sender serves
	Channel() Channel

	// Send delivers the alert; the dispatcher bounds ctx with a timeout
	Send(ctx context.Context, a *alert.Alert) error
}

// Dispatcher fans an alert out to its eligible channels
type Dispatcher interface {
	// Dispatch attempts delivery on every configured channel matching the
	// alert's severity. All channels are attempted; per-channel failures
	// are recorded and logged, never returned.
	Dispatch(ctx context.Context, a *alert.Alert)

	// Deliveries returns the most recent delivery records, newest first
	Deliveries() []Delivery
}
