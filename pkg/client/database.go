package client

import (
	"context"
	"net/http"
)

// DatabaseService handles database monitoring API calls
type DatabaseService struct {
	client *Client
}

// Status runs a fresh health probe and returns the full report
func (s *DatabaseService) Status(ctx context.Context) (*HealthReport, error) {
	var report HealthReport
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/database/status", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Monitoring retrieves the query counters
func (s *DatabaseService) Monitoring(ctx context.Context) (*MonitoringData, error) {
	var data MonitoringData
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/database/monitoring", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ResetMonitoring zeroes the query counters
func (s *DatabaseService) ResetMonitoring(ctx context.Context) error {
	return s.client.doRequest(ctx, http.MethodDelete, "/api/v1/database/monitoring", nil, nil)
}
