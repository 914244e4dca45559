package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_UnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/alerts/stats" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"total":     3,
				"by_status": map[string]int{"active": 2, "resolved": 1},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	stats, err := c.Alerts().Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByStatus["active"] != 2 {
		t.Errorf("active = %d, want 2", stats.ByStatus["active"])
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		checkErr   func(*APIError) bool
		checkLabel string
	}{
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"success":false,"error":{"code":"NOT_FOUND","message":"Alert not found"}}`,
			checkErr:   (*APIError).IsNotFound,
			checkLabel: "IsNotFound",
		},
		{
			name:       "conflict",
			status:     http.StatusConflict,
			body:       `{"success":false,"error":{"code":"CONFLICT","message":"Alert cannot transition"}}`,
			checkErr:   (*APIError).IsConflict,
			checkLabel: "IsConflict",
		},
		{
			name:       "validation",
			status:     http.StatusBadRequest,
			body:       `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed"}}`,
			checkErr:   (*APIError).IsValidationError,
			checkLabel: "IsValidationError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL})

			_, err := c.Alerts().Acknowledge(context.Background(), 1, "ops")
			if err == nil {
				t.Fatal("expected error")
			}

			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if !tt.checkErr(apiErr) {
				t.Errorf("%s() = false", tt.checkLabel)
			}
			if apiErr.Message == "" {
				t.Error("error message empty")
			}
		})
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Database().Status(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
