package dbhealth

import "context"

// Service defines the interface for the database monitor
type Service interface {
	// Status runs the full health probe: connectivity, per-table
	// statistics, and the four sub-checks. Never caches; each call
	// opens fresh connections.
	Status(ctx context.Context) *Report

	// MonitorQuery executes a query with instrumentation (counters,
	// slow-query classification). Unlike the probes it returns the
	// underlying error to the caller.
	MonitorQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)

	// MonitoringData returns the process-lifetime counters
	MonitoringData() MonitoringData

	// ResetMonitoringData zeroes the counters
	ResetMonitoringData()
}
