package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nexus-platform/nexus-monitor/internal/domain/dbhealth"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/metrics"
)

// DBMonitor implements dbhealth.Service against the NEXUS sqlite file.
// Every probe opens a fresh connection; nothing is cached between calls.
type DBMonitor struct {
	path          string
	probeTimeout  time.Duration
	slowThreshold time.Duration
	logger        *logger.Logger

	mu          sync.Mutex
	connections int64
	queries     int64
	slowQueries int64
	errors      int64
	lastCheck   *time.Time

	now func() time.Time
}

// NewDBMonitor creates a database monitor for the sqlite file at path.
// slowThreshold classifies both monitored queries and the performance
// sub-probe; a single threshold is used for both judgments.
func NewDBMonitor(path string, probeTimeout, slowThreshold time.Duration, log *logger.Logger) *DBMonitor {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	if slowThreshold <= 0 {
		slowThreshold = time.Second
	}
	return &DBMonitor{
		path:          path,
		probeTimeout:  probeTimeout,
		slowThreshold: slowThreshold,
		logger:        log,
		now:           time.Now,
	}
}

// Status runs the full health probe
func (m *DBMonitor) Status(ctx context.Context) (report *dbhealth.Report) {
	report = &dbhealth.Report{
		Status:      dbhealth.StatusHealthy,
		GeneratedAt: m.now(),
	}

	defer func() {
		if r := recover(); r != nil {
			report.Status = dbhealth.StatusUnhealthy
			report.Error = fmt.Sprintf("status probe panicked: %v", r)
			m.logger.Errorf("Database status probe panicked: %v", r)
		}
		metrics.SetDBHealthStatus(report.Status)

		now := m.now()
		m.mu.Lock()
		m.lastCheck = &now
		m.mu.Unlock()
	}()

	db, err := m.open(ctx)
	if err != nil {
		report.Status = dbhealth.StatusUnhealthy
		report.Connected = false
		report.Error = err.Error()
		m.logger.ErrorWithErr(err, "Database connectivity check failed")
		return report
	}
	defer db.Close()

	report.Connected = true
	report.Tables = m.gatherTableStats(ctx, db)
	report.Checks = m.runHealthChecks(ctx, db)

	for _, check := range report.Checks {
		switch check.Status {
		case dbhealth.StatusError:
			report.Status = dbhealth.StatusUnhealthy
		case dbhealth.StatusHealthy:
		default:
			if report.Status == dbhealth.StatusHealthy {
				report.Status = dbhealth.StatusDegraded
			}
		}
	}

	return report
}

// open opens and pings a fresh connection, counting it
func (m *DBMonitor) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	m.mu.Lock()
	m.connections++
	m.mu.Unlock()

	return db, nil
}

// gatherTableStats counts rows in every monitored table in parallel.
// A failing count is captured per table; the batch never aborts.
func (m *DBMonitor) gatherTableStats(ctx context.Context, db *sql.DB) map[string]dbhealth.TableStat {
	stats := make(map[string]dbhealth.TableStat, len(dbhealth.MonitoredTables))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, table := range dbhealth.MonitoredTables {
		wg.Add(1)
		go func(table string) {
			defer wg.Done()

			queryCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
			defer cancel()

			var count int64
			err := db.QueryRowContext(queryCtx, "SELECT COUNT(*) FROM "+table).Scan(&count)

			stat := dbhealth.TableStat{Count: count}
			if err != nil {
				stat = dbhealth.TableStat{Error: err.Error()}
			}

			mu.Lock()
			stats[table] = stat
			mu.Unlock()
		}(table)
	}
	wg.Wait()

	return stats
}

// runHealthChecks runs the four sub-probes concurrently, joined
// all-settled so one failing probe never blocks the others
func (m *DBMonitor) runHealthChecks(ctx context.Context, db *sql.DB) map[string]dbhealth.CheckResult {
	checks := make(map[string]dbhealth.CheckResult, 4)

	probes := map[string]func(context.Context, *sql.DB) dbhealth.CheckResult{
		"integrity":   m.checkIntegrity,
		"indexes":     m.checkIndexes,
		"consistency": m.checkConsistency,
		"performance": m.checkPerformance,
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe func(context.Context, *sql.DB) dbhealth.CheckResult) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
			defer cancel()

			result := probe(probeCtx, db)

			mu.Lock()
			checks[name] = result
			mu.Unlock()
		}(name, probe)
	}
	wg.Wait()

	return checks
}

func (m *DBMonitor) checkIntegrity(ctx context.Context, db *sql.DB) dbhealth.CheckResult {
	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return dbhealth.CheckResult{Status: dbhealth.StatusError, Message: err.Error()}
	}

	if result != "ok" {
		return dbhealth.CheckResult{
			Status:  dbhealth.StatusUnhealthy,
			Message: "integrity check reported problems",
			Details: map[string]interface{}{"result": result},
		}
	}

	return dbhealth.CheckResult{Status: dbhealth.StatusHealthy, Message: "integrity check passed"}
}

func (m *DBMonitor) checkIndexes(ctx context.Context, db *sql.DB) dbhealth.CheckResult {
	rows, err := db.QueryContext(ctx,
		"SELECT name, tbl_name FROM sqlite_master WHERE type = 'index'")
	if err != nil {
		return dbhealth.CheckResult{Status: dbhealth.StatusError, Message: err.Error()}
	}
	defer rows.Close()

	byTable := make(map[string]int)
	total := 0
	for rows.Next() {
		var name, table string
		if err := rows.Scan(&name, &table); err != nil {
			return dbhealth.CheckResult{Status: dbhealth.StatusError, Message: err.Error()}
		}
		byTable[table]++
		total++
	}
	if err := rows.Err(); err != nil {
		return dbhealth.CheckResult{Status: dbhealth.StatusError, Message: err.Error()}
	}

	details := map[string]interface{}{
		"total":    total,
		"by_table": byTable,
	}

	if total == 0 {
		return dbhealth.CheckResult{
			Status:  dbhealth.StatusDegraded,
			Message: "no indexes found",
			Details: details,
		}
	}

	return dbhealth.CheckResult{
		Status:  dbhealth.StatusHealthy,
		Message: fmt.Sprintf("%d indexes present", total),
		Details: details,
	}
}

// checkConsistency looks for transactions referencing an account that
// does not exist
func (m *DBMonitor) checkConsistency(ctx context.Context, db *sql.DB) dbhealth.CheckResult {
	var orphaned int64
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM transactions t
LEFT JOIN accounts a ON t.account_id = a.id
WHERE t.account_id IS NOT NULL AND a.id IS NULL`).Scan(&orphaned)
	if err != nil {
		return dbhealth.CheckResult{Status: dbhealth.StatusError, Message: err.Error()}
	}

	details := map[string]interface{}{"orphaned_transactions": orphaned}

	if orphaned > 0 {
		return dbhealth.CheckResult{
			Status:  dbhealth.StatusDegraded,
			Message: fmt.Sprintf("%d transactions reference missing accounts", orphaned),
			Details: details,
		}
	}

	return dbhealth.CheckResult{
		Status:  dbhealth.StatusHealthy,
		Message: "no orphaned transactions",
		Details: details,
	}
}

// checkPerformance runs a sample aggregate query purely to measure
// latency against the slow threshold
func (m *DBMonitor) checkPerformance(ctx context.Context, db *sql.DB) dbhealth.CheckResult {
	start := m.now()

	var count int64
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM transactions t
LEFT JOIN accounts a ON t.account_id = a.id`).Scan(&count)

	elapsed := m.now().Sub(start)
	metrics.RecordDBQuery("performance_probe", elapsed)

	if err != nil {
		return dbhealth.CheckResult{Status: dbhealth.StatusError, Message: err.Error()}
	}

	result := dbhealth.CheckResult{
		Status:      dbhealth.StatusHealthy,
		Message:     "sample query completed",
		Details:     map[string]interface{}{"rows_scanned": count},
		QueryTimeMS: elapsed.Milliseconds(),
	}

	if elapsed > m.slowThreshold {
		result.Status = dbhealth.StatusDegraded
		result.Message = fmt.Sprintf("sample query took %dms, threshold is %dms",
			elapsed.Milliseconds(), m.slowThreshold.Milliseconds())
	}

	return result
}

// MonitorQuery executes a query with instrumentation. This is the one
// operation that returns the underlying error to its caller.
func (m *DBMonitor) MonitorQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	m.mu.Lock()
	m.queries++
	m.mu.Unlock()

	db, err := m.open(ctx)
	if err != nil {
		m.recordQueryError()
		return nil, err
	}
	defer db.Close()

	start := m.now()
	rows, err := db.QueryContext(ctx, query, args...)
	elapsed := m.now().Sub(start)

	metrics.RecordDBQuery("monitored", elapsed)

	if err != nil {
		m.recordQueryError()
		return nil, err
	}
	defer rows.Close()

	if elapsed > m.slowThreshold {
		m.mu.Lock()
		m.slowQueries++
		m.mu.Unlock()
		metrics.RecordSlowQuery()
		m.logger.WithFields(map[string]interface{}{
			"query":      query,
			"elapsed_ms": elapsed.Milliseconds(),
		}).Warn("Slow query detected")
	}

	out, err := scanRows(rows)
	if err != nil {
		m.recordQueryError()
		return nil, err
	}
	return out, nil
}

func (m *DBMonitor) recordQueryError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
	metrics.RecordQueryError()
}

// scanRows materializes a result set into generic maps
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// MonitoringData returns the process-lifetime counters
func (m *DBMonitor) MonitoringData() dbhealth.MonitoringData {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := dbhealth.MonitoringData{
		Connections: m.connections,
		Queries:     m.queries,
		SlowQueries: m.slowQueries,
		Errors:      m.errors,
	}
	if m.lastCheck != nil {
		t := *m.lastCheck
		data.LastCheck = &t
	}
	return data
}

// ResetMonitoringData zeroes the counters
func (m *DBMonitor) ResetMonitoringData() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connections = 0
	m.queries = 0
	m.slowQueries = 0
	m.errors = 0
	m.lastCheck = nil
}
