package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the NEXUS monitor API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (e.g., "http://localhost:8090")
	Timeout    time.Duration // HTTP client timeout (default: 30s)
	HTTPClient *http.Client  // Optional custom HTTP client
}

// NewClient creates a new NEXUS monitor API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// envelope is the standard API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *APIError       `json:"error"`
}

// doRequest performs an HTTP request and unwraps the response envelope
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Message: "unknown error"}
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}

	return nil
}

// Alerts returns the alert management service
func (c *Client) Alerts() *AlertService {
	return &AlertService{client: c}
}

// Database returns the database monitoring service
func (c *Client) Database() *DatabaseService {
	return &DatabaseService{client: c}
}

// Logs returns the log analysis service
func (c *Client) Logs() *LogService {
	return &LogService{client: c}
}

// Health checks the liveness endpoint
func (c *Client) Health(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil)
}

// Ready checks the readiness endpoint
func (c *Client) Ready(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
}
