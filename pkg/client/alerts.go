package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// CreateAlertRequest represents a request to create an alert
type CreateAlertRequest struct {
	Type     string                 `json:"type,omitempty"`
	Severity string                 `json:"severity"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// AlertListOptions contains filters for listing alerts
type AlertListOptions struct {
	Severity string
	Status   string
}

// Create registers a new alert
func (s *AlertService) Create(ctx context.Context, req CreateAlertRequest) (*Alert, error) {
	var a Alert
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/alerts", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List retrieves alerts matching the optional filters, newest first
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) ([]Alert, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var alerts []Alert
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Stats retrieves aggregate alert counts
func (s *AlertService) Stats(ctx context.Context) (*AlertStats, error) {
	var stats AlertStats
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/alerts/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Acknowledge transitions an active alert to acknowledged
func (s *AlertService) Acknowledge(ctx context.Context, id int64, by string) (*Alert, error) {
	return s.transition(ctx, id, "acknowledge", by)
}

// Resolve transitions an alert to resolved
func (s *AlertService) Resolve(ctx context.Context, id int64, by string) (*Alert, error) {
	return s.transition(ctx, id, "resolve", by)
}

func (s *AlertService) transition(ctx context.Context, id int64, action, by string) (*Alert, error) {
	path := fmt.Sprintf("/api/v1/alerts/%d/%s", id, action)
	body := map[string]string{"by": by}

	var a Alert
	if err := s.client.doRequest(ctx, http.MethodPost, path, body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Cleanup removes resolved alerts past the retention period, returning
// the number removed
func (s *AlertService) Cleanup(ctx context.Context) (int, error) {
	var result struct {
		Removed int `json:"removed"`
	}
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/alerts/cleanup", nil, &result); err != nil {
		return 0, err
	}
	return result.Removed, nil
}

// Deliveries retrieves recent notification delivery records
func (s *AlertService) Deliveries(ctx context.Context) ([]Delivery, error) {
	var deliveries []Delivery
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/notifications/deliveries", nil, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}
