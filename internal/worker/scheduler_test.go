package worker

import (
	"context"
	"testing"
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/config"
	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/dbhealth"
	"github.com/nexus-platform/nexus-monitor/internal/domain/loganalysis"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/services"
	"github.com/nexus-platform/nexus-monitor/internal/testutil"
)

// stubDBService returns a canned report
type stubDBService struct {
	report *dbhealth.Report
}

func (s *stubDBService) Status(ctx context.Context) *dbhealth.Report { return s.report }
func (s *stubDBService) MonitorQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	return nil, nil
}
func (s *stubDBService) MonitoringData() dbhealth.MonitoringData { return dbhealth.MonitoringData{} }
func (s *stubDBService) ResetMonitoringData()                    {}

// stubLogService counts Analyze calls
type stubLogService struct {
	analyzed int
}

func (s *stubLogService) Analyze(ctx context.Context) (*loganalysis.Analysis, error) {
	s.analyzed++
	return &loganalysis.Analysis{}, nil
}
func (s *stubLogService) Last() *loganalysis.Analysis        { return nil }
func (s *stubLogService) RealTime() *loganalysis.RealTimeView { return &loganalysis.RealTimeView{} }

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:          true,
		CleanupSpec:      "0 3 * * *",
		HealthProbeSpec:  "*/5 * * * *",
		LogAnalysisSpec:  "*/15 * * * *",
		AlertOnUnhealthy: true,
	}
}

func newTestScheduler(cfg config.SchedulerConfig, db dbhealth.Service, logs loganalysis.Service) (*Scheduler, alert.Service) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	alertService := services.NewAlertService(testutil.NewMockDispatcher(), log, 7*24*time.Hour)
	return NewScheduler(alertService, db, logs, cfg, log), alertService
}

func TestScheduler_StartAndStop(t *testing.T) {
	db := &stubDBService{report: &dbhealth.Report{Status: dbhealth.StatusHealthy, Connected: true}}
	s, _ := newTestScheduler(testConfig(), db, &stubLogService{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("second Start() did not fail")
	}

	s.Stop()
	// Stopping twice must be safe
	s.Stop()
}

func TestScheduler_DisabledDoesNotSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	db := &stubDBService{report: &dbhealth.Report{Status: dbhealth.StatusHealthy}}
	s, _ := newTestScheduler(cfg, db, &stubLogService{})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.isRunning {
		t.Error("disabled scheduler reports running")
	}
}

func TestScheduler_InvalidSpecFails(t *testing.T) {
	cfg := testConfig()
	cfg.HealthProbeSpec = "not a cron spec"

	db := &stubDBService{report: &dbhealth.Report{Status: dbhealth.StatusHealthy}}
	s, _ := newTestScheduler(cfg, db, &stubLogService{})

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() accepted an invalid cron spec")
	}
}

func TestScheduler_HealthProbeRaisesAlertWhenUnhealthy(t *testing.T) {
	db := &stubDBService{report: &dbhealth.Report{
		Status:    dbhealth.StatusUnhealthy,
		Connected: false,
		Error:     "database file is corrupt",
		Checks: map[string]dbhealth.CheckResult{
			"integrity": {Status: dbhealth.StatusError, Message: "integrity check failed"},
		},
	}}
	s, alertService := newTestScheduler(testConfig(), db, &stubLogService{})

	s.runHealthProbe(context.Background())

	alerts := alertService.ListActive()
	if len(alerts) != 1 {
		t.Fatalf("active alerts = %d, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Severity != alert.SeverityHigh {
		t.Errorf("severity = %q, want high", a.Severity)
	}
	if a.Type != "database" {
		t.Errorf("type = %q, want database", a.Type)
	}
	if a.Details["error"] != "database file is corrupt" {
		t.Errorf("details missing probe error: %+v", a.Details)
	}
}

func TestScheduler_HealthProbeQuietWhenDegraded(t *testing.T) {
	db := &stubDBService{report: &dbhealth.Report{
		Status:    dbhealth.StatusDegraded,
		Connected: true,
	}}
	s, alertService := newTestScheduler(testConfig(), db, &stubLogService{})

	s.runHealthProbe(context.Background())

	if alerts := alertService.ListActive(); len(alerts) != 0 {
		t.Errorf("active alerts = %d, want 0 for degraded report", len(alerts))
	}
}

func TestScheduler_HealthProbeRespectsAlertFlag(t *testing.T) {
	cfg := testConfig()
	cfg.AlertOnUnhealthy = false

	db := &stubDBService{report: &dbhealth.Report{Status: dbhealth.StatusUnhealthy}}
	s, alertService := newTestScheduler(cfg, db, &stubLogService{})

	s.runHealthProbe(context.Background())

	if alerts := alertService.ListActive(); len(alerts) != 0 {
		t.Errorf("active alerts = %d, want 0 with alerting disabled", len(alerts))
	}
}

func TestScheduler_LogAnalysisJob(t *testing.T) {
	db := &stubDBService{report: &dbhealth.Report{Status: dbhealth.StatusHealthy}}
	logs := &stubLogService{}
	s, _ := newTestScheduler(testConfig(), db, logs)

	s.runLogAnalysis(context.Background())

	if logs.analyzed != 1 {
		t.Errorf("Analyze calls = %d, want 1", logs.analyzed)
	}
}
