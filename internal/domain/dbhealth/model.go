package dbhealth

import "time"

// Check statuses, from best to worst
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusError     = "error"
)

// Tables probed by the statistics gather
var MonitoredTables = []string{
	"users",
	"accounts",
	"transactions",
	"files",
	"notifications",
	"audit_logs",
	"security_events",
}

// CheckResult is the contract every sub-probe returns
type CheckResult struct {
	Status      string                 `json:"status"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	QueryTimeMS int64                  `json:"query_time_ms,omitempty"`
}

// TableStat holds the row count for one table, or the error that
// prevented counting it
type TableStat struct {
	Count int64  `json:"count"`
	Error string `json:"error,omitempty"`
}

// Report is a point-in-time health report, produced fresh on every
// status request and never mutated after construction
type Report struct {
	Status      string                 `json:"status"`
	Connected   bool                   `json:"connected"`
	Tables      map[string]TableStat   `json:"tables,omitempty"`
	Checks      map[string]CheckResult `json:"checks,omitempty"`
	Error       string                 `json:"error,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// MonitoringData exposes the process-lifetime counters
type MonitoringData struct {
	Connections int64      `json:"connections"`
	Queries     int64      `json:"queries"`
	SlowQueries int64      `json:"slow_queries"`
	Errors      int64      `json:"errors"`
	LastCheck   *time.Time `json:"last_check,omitempty"`
}
