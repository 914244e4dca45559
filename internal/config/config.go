package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logs      LogsConfig
	Alerting  AlertingConfig
	SMTP      SMTPConfig
	Slack     SlackConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
}

// DatabaseConfig contains the monitored database configuration
type DatabaseConfig struct {
	Path          string
	ProbeTimeout  time.Duration
	SlowThreshold time.Duration
}

// LogsConfig contains log analysis configuration
type LogsConfig struct {
	Directory string
}

// AlertingConfig contains alert registry configuration
type AlertingConfig struct {
	Retention           time.Duration
	NotifyTimeout       time.Duration
	DeliveryHistorySize int
}

// SMTPConfig contains the email channel configuration
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	Recipients []string
}

// Configured reports whether the email channel can be used
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && len(c.Recipients) > 0
}

// SlackConfig contains the Slack channel configuration
type SlackConfig struct {
	WebhookURL string
}

// Configured reports whether the Slack channel can be used
func (c SlackConfig) Configured() bool {
	return c.WebhookURL != ""
}

// SchedulerConfig contains cron specs for the background jobs
type SchedulerConfig struct {
	Enabled          bool
	CleanupSpec      string
	HealthProbeSpec  string
	LogAnalysisSpec  string
	AlertOnUnhealthy bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8090),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Path:          getEnv("DATABASE_PATH", "../backend/nexus.db"),
			ProbeTimeout:  getEnvAsDuration("DB_PROBE_TIMEOUT", 5*time.Second),
			SlowThreshold: getEnvAsDuration("DB_SLOW_THRESHOLD", time.Second),
		},
		Logs: LogsConfig{
			Directory: getEnv("LOG_DIRECTORY", "./logs"),
		},
		Alerting: AlertingConfig{
			Retention:           getEnvAsDuration("ALERT_RETENTION", 7*24*time.Hour),
			NotifyTimeout:       getEnvAsDuration("ALERT_NOTIFY_TIMEOUT", 10*time.Second),
			DeliveryHistorySize: getEnvAsInt("ALERT_DELIVERY_HISTORY", 200),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			User:       getEnv("SMTP_USER", ""),
			Pass:       getEnv("SMTP_PASS", ""),
			From:       getEnv("SMTP_FROM", "alerts@nexus.local"),
			Recipients: getEnvAsSlice("ALERT_EMAIL_RECIPIENTS"),
		},
		Slack: SlackConfig{
			WebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:          getEnvAsBool("SCHEDULER_ENABLED", true),
			CleanupSpec:      getEnv("SCHEDULER_CLEANUP_SPEC", "0 3 * * *"),
			HealthProbeSpec:  getEnv("SCHEDULER_HEALTH_SPEC", "*/5 * * * *"),
			LogAnalysisSpec:  getEnv("SCHEDULER_LOGS_SPEC", "*/15 * * * *"),
			AlertOnUnhealthy: getEnvAsBool("SCHEDULER_ALERT_ON_UNHEALTHY", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}

	if c.Database.SlowThreshold <= 0 {
		return fmt.Errorf("DB_SLOW_THRESHOLD must be positive")
	}

	if c.Alerting.Retention <= 0 {
		return fmt.Errorf("ALERT_RETENTION must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
