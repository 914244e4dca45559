package client

import "time"

// Alert is the API representation of an alert
type Alert struct {
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

// AlertStats holds aggregate alert counts
type AlertStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}

// Delivery is one notification delivery record
type Delivery struct {
	ID        string    `json:"id"`
	AlertID   int64     `json:"alert_id"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TableStat is the row count for one monitored table
type TableStat struct {
	Count int64  `json:"count"`
	Error string `json:"error,omitempty"`
}

// CheckResult is the outcome of one health sub-check
type CheckResult struct {
	Status      string                 `json:"status"`
	Message     string                 `json:"message,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	QueryTimeMS int64                  `json:"query_time_ms,omitempty"`
}

// HealthReport is the full database health report
type HealthReport struct {
	Status      string                 `json:"status"`
	Connected   bool                   `json:"connected"`
	Tables      map[string]TableStat   `json:"tables,omitempty"`
	Checks      map[string]CheckResult `json:"checks,omitempty"`
	Error       string                 `json:"error,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// MonitoringData holds the database query counters
type MonitoringData struct {
	Connections int64      `json:"connections"`
	Queries     int64      `json:"queries"`
	SlowQueries int64      `json:"slow_queries"`
	Errors      int64      `json:"errors"`
	LastCheck   *time.Time `json:"last_check,omitempty"`
}

// LogEntry is one classified log line
type LogEntry struct {
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category,omitempty"`
}

// Recommendation is a rule-triggered remediation suggestion
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// LogStatistics summarizes an analysis pass
type LogStatistics struct {
	TotalLines    int            `json:"total_lines"`
	TotalErrors   int            `json:"total_errors"`
	TotalWarnings int            `json:"total_warnings"`
	ByCategory    map[string]int `json:"by_category"`
	HourlyErrors  map[string]int `json:"hourly_errors"`
}

// LogAnalysis is the API representation of a log analysis result
type LogAnalysis struct {
	Errors          []LogEntry       `json:"errors"`
	Warnings        []LogEntry       `json:"warnings"`
	Patterns        map[string]int   `json:"patterns"`
	Statistics      LogStatistics    `json:"statistics"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// RealTimeView is the last-hour log summary
type RealTimeView struct {
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	Trend     string    `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
}
