package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/config"
	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/notification"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/testutil"
)

func newTestDispatcher(senders ...notification.Sender) *NotificationDispatcher {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewNotificationDispatcher(senders, log, 5*time.Second, 200)
}

func TestDispatcher_ChannelRouting(t *testing.T) {
	tests := []struct {
		name       string
		severity   string
		wantEmail  int
		wantSlack  int
		deliveries int
	}{
		{name: "low goes nowhere", severity: alert.SeverityLow, wantEmail: 0, wantSlack: 0, deliveries: 0},
		{name: "medium goes to slack only", severity: alert.SeverityMedium, wantEmail: 0, wantSlack: 1, deliveries: 1},
		{name: "high goes to slack only", severity: alert.SeverityHigh, wantEmail: 0, wantSlack: 1, deliveries: 1},
		{name: "critical goes to both", severity: alert.SeverityCritical, wantEmail: 1, wantSlack: 1, deliveries: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := testutil.NewMockSender(notification.ChannelEmail)
			slack := testutil.NewMockSender(notification.ChannelSlack)
			dispatcher := newTestDispatcher(email, slack)

			dispatcher.Dispatch(context.Background(), &alert.Alert{
				ID:       1,
				Type:     "system",
				Severity: tt.severity,
				Message:  "routing test",
			})

			if got := email.CallCount(); got != tt.wantEmail {
				t.Errorf("email sends = %d, want %d", got, tt.wantEmail)
			}
			if got := slack.CallCount(); got != tt.wantSlack {
				t.Errorf("slack sends = %d, want %d", got, tt.wantSlack)
			}
			if got := len(dispatcher.Deliveries()); got != tt.deliveries {
				t.Errorf("delivery records = %d, want %d", got, tt.deliveries)
			}
		})
	}
}

func TestDispatcher_OneFailureDoesNotSuppressOther(t *testing.T) {
	email := testutil.NewMockSender(notification.ChannelEmail)
	email.SendError = errors.New("smtp connection refused")
	slack := testutil.NewMockSender(notification.ChannelSlack)
	dispatcher := newTestDispatcher(email, slack)

	dispatcher.Dispatch(context.Background(), &alert.Alert{
		ID:       7,
		Type:     "system",
		Severity: alert.SeverityCritical,
		Message:  "isolation test",
	})

	if slack.CallCount() != 1 {
		t.Errorf("slack sends = %d, want 1", slack.CallCount())
	}

	deliveries := dispatcher.Deliveries()
	if len(deliveries) != 2 {
		t.Fatalf("delivery records = %d, want 2", len(deliveries))
	}

	byChannel := make(map[notification.Channel]notification.Delivery)
	for _, d := range deliveries {
		byChannel[d.Channel] = d
	}

	if byChannel[notification.ChannelEmail].Status != notification.DeliveryStatusFailed {
		t.Errorf("email status = %q, want %q", byChannel[notification.ChannelEmail].Status, notification.DeliveryStatusFailed)
	}
	if byChannel[notification.ChannelEmail].Error == "" {
		t.Error("failed delivery has no error message")
	}
	if byChannel[notification.ChannelSlack].Status != notification.DeliveryStatusSent {
		t.Errorf("slack status = %q, want %q", byChannel[notification.ChannelSlack].Status, notification.DeliveryStatusSent)
	}
}

func TestDispatcher_DeliveriesNewestFirstAndBounded(t *testing.T) {
	slack := testutil.NewMockSender(notification.ChannelSlack)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	dispatcher := NewNotificationDispatcher([]notification.Sender{slack}, log, time.Second, 3)

	for i := int64(1); i <= 5; i++ {
		dispatcher.Dispatch(context.Background(), &alert.Alert{
			ID:       i,
			Type:     "system",
			Severity: alert.SeverityHigh,
			Message:  "history test",
		})
	}

	deliveries := dispatcher.Deliveries()
	if len(deliveries) != 3 {
		t.Fatalf("delivery records = %d, want 3", len(deliveries))
	}
	if deliveries[0].AlertID != 5 {
		t.Errorf("newest record alert ID = %d, want 5", deliveries[0].AlertID)
	}
	if deliveries[2].AlertID != 3 {
		t.Errorf("oldest kept record alert ID = %d, want 3", deliveries[2].AlertID)
	}
}

func TestSlackSender_Send(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewSlackSender(srv.URL)
	a := &alert.Alert{
		ID:        3,
		Type:      "database",
		Severity:  alert.SeverityHigh,
		Message:   "Database degraded",
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	if err := sender.Send(context.Background(), a); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	attachments, ok := received["attachments"].([]interface{})
	if !ok || len(attachments) != 1 {
		t.Fatalf("payload attachments = %v, want exactly one", received["attachments"])
	}
	attachment := attachments[0].(map[string]interface{})

	if attachment["color"] != "#ff0000" {
		t.Errorf("high severity color = %v, want #ff0000", attachment["color"])
	}
	if attachment["text"] != "Database degraded" {
		t.Errorf("text = %v, want alert message", attachment["text"])
	}
	if attachment["footer"] != "NEXUS Monitoring" {
		t.Errorf("footer = %v", attachment["footer"])
	}
}

func TestSlackSender_SendErrorOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	sender := NewSlackSender(srv.URL)
	err := sender.Send(context.Background(), &alert.Alert{ID: 1, Severity: alert.SeverityCritical})
	if err == nil {
		t.Fatal("Send() returned nil error for non-200 response")
	}
}

func TestChannelsFor(t *testing.T) {
	tests := []struct {
		severity string
		want     []notification.Channel
	}{
		{alert.SeverityLow, nil},
		{alert.SeverityMedium, []notification.Channel{notification.ChannelSlack}},
		{alert.SeverityHigh, []notification.Channel{notification.ChannelSlack}},
		{alert.SeverityCritical, []notification.Channel{notification.ChannelEmail, notification.ChannelSlack}},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			got := notification.ChannelsFor(tt.severity)
			if len(got) != len(tt.want) {
				t.Fatalf("ChannelsFor(%q) = %v, want %v", tt.severity, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ChannelsFor(%q)[%d] = %q, want %q", tt.severity, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSendersFromConfig(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	tests := []struct {
		name string
		smtp config.SMTPConfig
		hook string
		want int
	}{
		{name: "nothing configured", want: 0},
		{
			name: "smtp only",
			smtp: config.SMTPConfig{Host: "smtp.example.com", Recipients: []string{"ops@example.com"}},
			want: 1,
		},
		{name: "slack only", hook: "https://hooks.slack.com/services/T/B/X", want: 1},
		{
			name: "both",
			smtp: config.SMTPConfig{Host: "smtp.example.com", Recipients: []string{"ops@example.com"}},
			hook: "https://hooks.slack.com/services/T/B/X",
			want: 2,
		},
		{
			name: "smtp host without recipients is ignored",
			smtp: config.SMTPConfig{Host: "smtp.example.com"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{SMTP: tt.smtp, Slack: config.SlackConfig{WebhookURL: tt.hook}}
			senders := SendersFromConfig(cfg, log)
			if len(senders) != tt.want {
				t.Errorf("SendersFromConfig() returned %d senders, want %d", len(senders), tt.want)
			}
		})
	}
}
