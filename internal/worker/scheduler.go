package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/nexus-platform/nexus-monitor/internal/config"
	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/dbhealth"
	"github.com/nexus-platform/nexus-monitor/internal/domain/loganalysis"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
)

// Scheduler runs the periodic maintenance jobs: alert cleanup, the
// database health probe, and log analysis. When the probe reports an
// unhealthy database it raises a high-severity alert, which is the
// only coupling between the database monitor and the alert registry.
type Scheduler struct {
	alertService alert.Service
	dbService    dbhealth.Service
	logService   loganalysis.Service
	cfg          config.SchedulerConfig
	logger       *logger.Logger

	cron         *cron.Cron
	runningMutex sync.Mutex
	isRunning    bool
}

// NewScheduler creates a scheduler wired to the three services
func NewScheduler(
	alertService alert.Service,
	dbService dbhealth.Service,
	logService loganalysis.Service,
	cfg config.SchedulerConfig,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		alertService: alertService,
		dbService:    dbService,
		logService:   logService,
		cfg:          cfg,
		logger:       log,
	}
}

// Start registers the cron jobs and runs until ctx is cancelled.
// Returns immediately without scheduling when the scheduler is
// disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("Scheduler disabled, background jobs will not run")
		return nil
	}

	s.runningMutex.Lock()
	if s.isRunning {
		s.runningMutex.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.cron = cron.New()
	s.isRunning = true
	s.runningMutex.Unlock()

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"alert_cleanup", s.cfg.CleanupSpec, s.runCleanup},
		{"db_health_probe", s.cfg.HealthProbeSpec, s.runHealthProbe},
		{"log_analysis", s.cfg.LogAnalysisSpec, s.runLogAnalysis},
	}

	for _, j := range jobs {
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { j.run(ctx) }); err != nil {
			s.Stop()
			return fmt.Errorf("invalid cron spec %q for %s: %w", j.spec, j.name, err)
		}
		s.logger.WithFields(map[string]interface{}{
			"job":      j.name,
			"schedule": j.spec,
		}).Info("Scheduled background job")
	}

	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the cron scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	removed := s.alertService.CleanupOldAlerts()
	s.logger.Infof("Alert cleanup removed %d alerts", removed)
}

func (s *Scheduler) runHealthProbe(ctx context.Context) {
	report := s.dbService.Status(ctx)

	s.logger.WithFields(map[string]interface{}{
		"status":    report.Status,
		"connected": report.Connected,
	}).Info("Periodic database health probe completed")

	if report.Status != dbhealth.StatusUnhealthy || !s.cfg.AlertOnUnhealthy {
		return
	}

	details := map[string]interface{}{
		"connected": report.Connected,
	}
	if report.Error != "" {
		details["error"] = report.Error
	}
	for name, check := range report.Checks {
		if check.Status != dbhealth.StatusHealthy {
			details["check_"+name] = check.Message
		}
	}

	s.alertService.Create(ctx, alert.CreateParams{
		Type:     "database",
		Severity: alert.SeverityHigh,
		Message:  "Database health probe reported unhealthy",
		Details:  details,
	})
}

func (s *Scheduler) runLogAnalysis(ctx context.Context) {
	if _, err := s.logService.Analyze(ctx); err != nil {
		s.logger.ErrorWithErr(err, "Scheduled log analysis failed")
	}
}
