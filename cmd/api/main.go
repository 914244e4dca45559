package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexus-platform/nexus-monitor/internal/api/handlers"
	"github.com/nexus-platform/nexus-monitor/internal/api/router"
	"github.com/nexus-platform/nexus-monitor/internal/config"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/validator"
	"github.com/nexus-platform/nexus-monitor/internal/services"
	"github.com/nexus-platform/nexus-monitor/internal/worker"
)

// @title NEXUS Monitor API
// @version 1.0
// @description Monitoring service for the NEXUS platform: alerts, database health and log analysis
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Services
	senders := services.SendersFromConfig(cfg, log)
	dispatcher := services.NewNotificationDispatcher(senders, log, cfg.Alerting.NotifyTimeout, cfg.Alerting.DeliveryHistorySize)
	alertService := services.NewAlertService(dispatcher, log, cfg.Alerting.Retention)
	dbService := services.NewDBMonitor(cfg.Database.Path, cfg.Database.ProbeTimeout, cfg.Database.SlowThreshold, log)
	logService := services.NewLogAnalyzer(cfg.Logs.Directory, log)

	// Background jobs
	scheduler := worker.NewScheduler(alertService, dbService, logService, cfg.Scheduler, log)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// HTTP API
	val := validator.New()
	h := &router.Handlers{
		Health:   handlers.NewHealthHandler(cfg.Database.Path, log),
		Alert:    handlers.NewAlertHandler(alertService, dispatcher, log, val),
		Database: handlers.NewDatabaseHandler(dbService, log),
		Logs:     handlers.NewLogsHandler(logService, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Starting NEXUS monitor on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
	scheduler.Stop()

	log.Info("Server stopped")
}
