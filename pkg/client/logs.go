package client

import (
	"context"
	"net/http"
)

// LogService handles log analysis API calls
type LogService struct {
	client *Client
}

// Analyze runs a fresh analysis pass over the server's log directory
func (s *LogService) Analyze(ctx context.Context) (*LogAnalysis, error) {
	var analysis LogAnalysis
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/logs/analyze", nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Last retrieves the most recent analysis without re-reading files
func (s *LogService) Last(ctx context.Context) (*LogAnalysis, error) {
	var analysis LogAnalysis
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/logs/analysis", nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// RealTime retrieves the last-hour view with trend
func (s *LogService) RealTime(ctx context.Context) (*RealTimeView, error) {
	var view RealTimeView
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/logs/realtime", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
