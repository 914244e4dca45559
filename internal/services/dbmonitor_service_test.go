package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/domain/dbhealth"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/testutil"
)

func newTestDBMonitor(t *testing.T, path string) *DBMonitor {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewDBMonitor(path, 5*time.Second, time.Second, log)
}

func TestDBMonitor_StatusHealthy(t *testing.T) {
	path := testutil.NewTestDB(t)
	testutil.SeedRows(t, path)
	monitor := newTestDBMonitor(t, path)

	report := monitor.Status(context.Background())

	if report.Status != dbhealth.StatusHealthy {
		t.Errorf("Status = %q, want %q (checks: %+v)", report.Status, dbhealth.StatusHealthy, report.Checks)
	}
	if !report.Connected {
		t.Error("Connected = false, want true")
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	if len(report.Tables) != len(dbhealth.MonitoredTables) {
		t.Fatalf("table stats = %d entries, want %d", len(report.Tables), len(dbhealth.MonitoredTables))
	}
	if got := report.Tables["users"].Count; got != 2 {
		t.Errorf("users count = %d, want 2", got)
	}
	if got := report.Tables["transactions"].Count; got != 2 {
		t.Errorf("transactions count = %d, want 2", got)
	}

	for _, name := range []string{"integrity", "indexes", "consistency", "performance"} {
		check, ok := report.Checks[name]
		if !ok {
			t.Errorf("missing %s check", name)
			continue
		}
		if check.Status != dbhealth.StatusHealthy {
			t.Errorf("%s check status = %q, want healthy (%s)", name, check.Status, check.Message)
		}
	}
}

func TestDBMonitor_StatusUnreachableDatabase(t *testing.T) {
	// Point at a directory so the ping fails
	monitor := newTestDBMonitor(t, filepath.Join(t.TempDir(), "missing", "nexus.db"))

	report := monitor.Status(context.Background())

	if report.Status != dbhealth.StatusUnhealthy {
		t.Errorf("Status = %q, want %q", report.Status, dbhealth.StatusUnhealthy)
	}
	if report.Connected {
		t.Error("Connected = true for unreachable database")
	}
	if report.Error == "" {
		t.Error("Error not populated")
	}
}

func TestDBMonitor_ConsistencyDegradedOnOrphans(t *testing.T) {
	path := testutil.NewTestDB(t)
	testutil.SeedRows(t, path)
	testutil.InsertOrphanedTransaction(t, path)
	monitor := newTestDBMonitor(t, path)

	report := monitor.Status(context.Background())

	check := report.Checks["consistency"]
	if check.Status != dbhealth.StatusDegraded {
		t.Fatalf("consistency status = %q, want %q", check.Status, dbhealth.StatusDegraded)
	}
	if report.Status != dbhealth.StatusDegraded {
		t.Errorf("overall status = %q, want %q", report.Status, dbhealth.StatusDegraded)
	}
}

func TestDBMonitor_PerformanceDegradedOnSlowSample(t *testing.T) {
	path := testutil.NewTestDB(t)
	testutil.SeedRows(t, path)

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	monitor := NewDBMonitor(path, 5*time.Second, time.Second, log)

	// Make each clock reading jump 1500ms so the sample appears slow
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	monitor.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 1500 * time.Millisecond)
	}

	report := monitor.Status(context.Background())

	check := report.Checks["performance"]
	if check.Status != dbhealth.StatusDegraded {
		t.Fatalf("performance status = %q, want %q (%s)", check.Status, dbhealth.StatusDegraded, check.Message)
	}
	if check.QueryTimeMS < 1000 {
		t.Errorf("QueryTimeMS = %d, want >= 1000", check.QueryTimeMS)
	}
	if report.Status != dbhealth.StatusDegraded {
		t.Errorf("overall status = %q, want %q", report.Status, dbhealth.StatusDegraded)
	}
}

func TestDBMonitor_MonitorQuery(t *testing.T) {
	path := testutil.NewTestDB(t)
	testutil.SeedRows(t, path)
	monitor := newTestDBMonitor(t, path)

	rows, err := monitor.MonitorQuery(context.Background(), "SELECT username FROM users ORDER BY id")
	if err != nil {
		t.Fatalf("MonitorQuery() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("MonitorQuery() returned %d rows, want 2", len(rows))
	}
	if _, ok := rows[0]["username"]; !ok {
		t.Error("row missing username column")
	}

	data := monitor.MonitoringData()
	if data.Queries != 1 {
		t.Errorf("Queries = %d, want 1", data.Queries)
	}
	if data.Errors != 0 {
		t.Errorf("Errors = %d, want 0", data.Errors)
	}
}

func TestDBMonitor_MonitorQueryError(t *testing.T) {
	path := testutil.NewTestDB(t)
	monitor := newTestDBMonitor(t, path)

	_, err := monitor.MonitorQuery(context.Background(), "SELECT * FROM no_such_table")
	if err == nil {
		t.Fatal("MonitorQuery() error = nil for invalid query")
	}

	data := monitor.MonitoringData()
	if data.Queries != 1 {
		t.Errorf("Queries = %d, want 1", data.Queries)
	}
	if data.Errors != 1 {
		t.Errorf("Errors = %d, want 1", data.Errors)
	}
}

func TestDBMonitor_ResetMonitoringData(t *testing.T) {
	path := testutil.NewTestDB(t)
	testutil.SeedRows(t, path)
	monitor := newTestDBMonitor(t, path)

	_, _ = monitor.MonitorQuery(context.Background(), "SELECT COUNT(*) FROM users")
	monitor.Status(context.Background())

	before := monitor.MonitoringData()
	if before.Queries == 0 || before.Connections == 0 {
		t.Fatalf("expected nonzero counters before reset, got %+v", before)
	}
	if before.LastCheck == nil {
		t.Fatal("LastCheck not set after Status")
	}

	monitor.ResetMonitoringData()

	after := monitor.MonitoringData()
	if after.Queries != 0 || after.Connections != 0 || after.SlowQueries != 0 || after.Errors != 0 {
		t.Errorf("counters not zeroed: %+v", after)
	}
	if after.LastCheck != nil {
		t.Error("LastCheck not cleared")
	}
}
