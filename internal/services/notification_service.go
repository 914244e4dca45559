package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nexus-platform/nexus-monitor/internal/config"
	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/notification"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/metrics"
)

// NotificationDispatcher implements notification.Dispatcher. Channels
// are attempted concurrently and joined all-settled: a failure on one
// never suppresses the other. Failed deliveries are logged and
// recorded, never retried.
type NotificationDispatcher struct {
	senders     []notification.Sender
	logger      *logger.Logger
	sendTimeout time.Duration

	mu          sync.Mutex
	deliveries  []notification.Delivery
	historySize int
}

// NewNotificationDispatcher creates a dispatcher over the given senders
func NewNotificationDispatcher(senders []notification.Sender, log *logger.Logger, sendTimeout time.Duration, historySize int) *NotificationDispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	if historySize <= 0 {
		historySize = 200
	}
	return &NotificationDispatcher{
		senders:     senders,
		logger:      log,
		sendTimeout: sendTimeout,
		historySize: historySize,
	}
}

// Dispatch attempts delivery on every configured channel matching the
// alert's severity
func (d *NotificationDispatcher) Dispatch(ctx context.Context, a *alert.Alert) {
	eligible := notification.ChannelsFor(a.Severity)
	if len(eligible) == 0 {
		return
	}

	wanted := make(map[notification.Channel]bool, len(eligible))
	for _, ch := range eligible {
		wanted[ch] = true
	}

	var wg sync.WaitGroup
	for _, sender := range d.senders {
		if !wanted[sender.Channel()] {
			continue
		}
		wg.Add(1)
		go func(s notification.Sender) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
			defer cancel()

			err := s.Send(sendCtx, a)
			d.record(a.ID, s.Channel(), err)
		}(sender)
	}
	wg.Wait()
}

func (d *NotificationDispatcher) record(alertID int64, channel notification.Channel, err error) {
	delivery := notification.Delivery{
		ID:        uuid.New().String(),
		AlertID:   alertID,
		Channel:   channel,
		Status:    notification.DeliveryStatusSent,
		Timestamp: time.Now(),
	}

	if err != nil {
		delivery.Status = notification.DeliveryStatusFailed
		delivery.Error = err.Error()
		d.logger.WithFields(map[string]interface{}{
			"alert_id": alertID,
			"channel":  channel,
		}).ErrorWithErr(err, "Notification delivery failed")
	} else {
		d.logger.WithFields(map[string]interface{}{
			"alert_id": alertID,
			"channel":  channel,
		}).Info("Notification delivered")
	}

	metrics.RecordNotification(string(channel), delivery.Status)

	d.mu.Lock()
	d.deliveries = append(d.deliveries, delivery)
	if len(d.deliveries) > d.historySize {
		d.deliveries = d.deliveries[len(d.deliveries)-d.historySize:]
	}
	d.mu.Unlock()
}

// Deliveries returns the most recent delivery records, newest first
func (d *NotificationDispatcher) Deliveries() []notification.Delivery {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]notification.Delivery, len(d.deliveries))
	for i, rec := range d.deliveries {
		out[len(d.deliveries)-1-i] = rec
	}
	return out
}

// SendersFromConfig builds the senders for every configured channel
func SendersFromConfig(cfg *config.Config, log *logger.Logger) []notification.Sender {
	var senders []notification.Sender
	if cfg.SMTP.Configured() {
		senders = append(senders, NewEmailSender(cfg.SMTP, log))
	}
	if cfg.Slack.Configured() {
		senders = append(senders, NewSlackSender(cfg.Slack.WebhookURL))
	}
	return senders
}

var emailBodyTmpl = template.Must(template.New("alert_email").Parse(`<h2>NEXUS Alert: {{.Severity}}</h2>
<p><strong>Type:</strong> {{.Type}}</p>
<p><strong>Message:</strong> {{.Message}}</p>
<p><strong>Time:</strong> {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}</p>
{{if .Details}}<pre>{{printf "%v" .Details}}</pre>{{end}}
`))

// EmailSender delivers critical alerts over SMTP
type EmailSender struct {
	cfg    config.SMTPConfig
	logger *logger.Logger
}

// NewEmailSender creates an email sender from SMTP configuration
func NewEmailSender(cfg config.SMTPConfig, log *logger.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: log}
}

// Channel returns the email channel
func (s *EmailSender) Channel() notification.Channel {
	return notification.ChannelEmail
}

// Send renders the fixed HTML body and sends it to all recipients
func (s *EmailSender) Send(ctx context.Context, a *alert.Alert) error {
	var body bytes.Buffer
	if err := emailBodyTmpl.Execute(&body, a); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(s.cfg.Recipients, ", "))
	fmt.Fprintf(&msg, "Subject: [NEXUS ALERT] %s: %s\r\n", strings.ToUpper(a.Severity), a.Message)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	// smtp.SendMail has no context support; run it in a goroutine so the
	// dispatcher's timeout still bounds the attempt
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.From, s.cfg.Recipients, msg.Bytes())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SlackSender delivers alerts to a Slack incoming webhook
type SlackSender struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackSender creates a Slack sender for the given webhook URL
func NewSlackSender(webhookURL string) *SlackSender {
	return &SlackSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Channel returns the Slack channel
func (s *SlackSender) Channel() notification.Channel {
	return notification.ChannelSlack
}

// Send posts the fixed attachment payload to the webhook
func (s *SlackSender) Send(ctx context.Context, a *alert.Alert) error {
	payload, err := json.Marshal(s.buildMessage(a))
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Slack API error: %s", string(body))
	}

	return nil
}

func (s *SlackSender) buildMessage(a *alert.Alert) map[string]interface{} {
	fields := []map[string]interface{}{
		{"title": "Severity", "value": a.Severity, "short": true},
		{"title": "Type", "value": a.Type, "short": true},
	}

	return map[string]interface{}{
		"attachments": []map[string]interface{}{
			{
				"color":  notification.SlackColor(a.Severity),
				"title":  fmt.Sprintf(":rotating_light: Alert #%d", a.ID),
				"text":   a.Message,
				"fields": fields,
				"footer": "NEXUS Monitoring",
				"ts":     a.CreatedAt.Unix(),
			},
		},
	}
}
