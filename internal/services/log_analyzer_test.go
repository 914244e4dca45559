package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nexus-platform/nexus-monitor/internal/domain/loganalysis"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
)

func writeLogFile(t *testing.T, dir, name string, lines []string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write log file: %v", err)
	}
}

func jsonLine(level, message, timestamp string) string {
	return fmt.Sprintf(`{"level":%q,"message":%q,"timestamp":%q}`, level, message, timestamp)
}

func newTestAnalyzer(t *testing.T, dir string) *LogAnalyzer {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewLogAnalyzer(dir, log)
}

func TestLogAnalyzer_RatesAndTotals(t *testing.T) {
	dir := t.TempDir()

	ts := "2026-08-01T10:00:00Z"
	lines := []string{
		jsonLine("error", "query failed", ts),
		jsonLine("error", "connection refused", ts),
		jsonLine("warn", "slow response", ts),
	}
	for i := 0; i < 7; i++ {
		lines = append(lines, jsonLine("info", "request handled", ts))
	}
	writeLogFile(t, dir, "app.log", lines)

	analyzer := newTestAnalyzer(t, dir)
	analysis, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.Statistics.TotalLines != 10 {
		t.Errorf("TotalLines = %d, want 10", analysis.Statistics.TotalLines)
	}
	if analysis.Statistics.TotalErrors != 2 {
		t.Errorf("TotalErrors = %d, want 2", analysis.Statistics.TotalErrors)
	}
	if analysis.Statistics.TotalWarnings != 1 {
		t.Errorf("TotalWarnings = %d, want 1", analysis.Statistics.TotalWarnings)
	}
	if analysis.Summary.ErrorRate != 20 {
		t.Errorf("ErrorRate = %v, want 20", analysis.Summary.ErrorRate)
	}
	if analysis.Summary.WarningRate != 10 {
		t.Errorf("WarningRate = %v, want 10", analysis.Summary.WarningRate)
	}
	if analysis.Patterns["info"] != 7 {
		t.Errorf("info pattern = %d, want 7", analysis.Patterns["info"])
	}
}

func TestLogAnalyzer_Categorization(t *testing.T) {
	tests := []struct {
		message string
		want    loganalysis.Category
	}{
		{"database query failed", loganalysis.CategoryDatabase},
		{"SQL syntax error in statement", loganalysis.CategoryDatabase},
		{"network unreachable", loganalysis.CategoryNetwork},
		{"connection reset by peer", loganalysis.CategoryNetwork},
		{"auth token expired", loganalysis.CategorySecurity},
		{"permission denied for user", loganalysis.CategorySecurity},
		{"out of memory", loganalysis.CategoryResource},
		{"request timeout after 30s", loganalysis.CategoryPerformance},
		{"something else broke", loganalysis.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := categorize(tt.message); got != tt.want {
				t.Errorf("categorize(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestLogAnalyzer_PlainTextFallback(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "plain.log", []string{
		"2026-08-01 ERROR database gone away",
		"2026-08-01 WARNING disk nearly full",
		"2026-08-01 all fine here",
		"",
	})

	analyzer := newTestAnalyzer(t, dir)
	analysis, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.Statistics.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3 (blank lines skipped)", analysis.Statistics.TotalLines)
	}
	if analysis.Statistics.TotalErrors != 1 {
		t.Fatalf("TotalErrors = %d, want 1", analysis.Statistics.TotalErrors)
	}
	if analysis.Statistics.TotalWarnings != 1 {
		t.Errorf("TotalWarnings = %d, want 1", analysis.Statistics.TotalWarnings)
	}
	if analysis.Errors[0].Category != loganalysis.CategoryDatabase {
		t.Errorf("plain error category = %q, want database", analysis.Errors[0].Category)
	}
}

func TestLogAnalyzer_RecurringErrors(t *testing.T) {
	dir := t.TempDir()
	ts := "2026-08-01T10:00:00Z"
	writeLogFile(t, dir, "app.log", []string{
		jsonLine("error", "connection refused", ts),
		jsonLine("error", "connection refused", ts),
		jsonLine("error", "connection refused", ts),
		jsonLine("error", "disk full", ts),
	})

	analyzer := newTestAnalyzer(t, dir)
	analysis, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	recurring := analysis.Summary.RecurringErrors
	if len(recurring) != 1 {
		t.Fatalf("recurring errors = %d entries, want 1", len(recurring))
	}
	if recurring[0].Message != "connection refused" || recurring[0].Count != 3 {
		t.Errorf("recurring[0] = %+v, want connection refused x3", recurring[0])
	}
}

func TestLogAnalyzer_RecommendationBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		dbErrors  int
		wantRec   bool
	}{
		{name: "ten database errors stays quiet", dbErrors: 10, wantRec: false},
		{name: "eleven database errors recommends", dbErrors: 11, wantRec: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ts := "2026-08-01T10:00:00Z"

			var lines []string
			for i := 0; i < tt.dbErrors; i++ {
				lines = append(lines, jsonLine("error", fmt.Sprintf("database failure %d", i), ts))
			}
			// Pad with info lines to keep the error rate rule out of scope checks
			for i := 0; i < 1000; i++ {
				lines = append(lines, jsonLine("info", "ok", ts))
			}
			writeLogFile(t, dir, "app.log", lines)

			analyzer := newTestAnalyzer(t, dir)
			analysis, err := analyzer.Analyze(context.Background())
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			found := false
			for _, rec := range analysis.Recommendations {
				if rec.Type == "database" {
					found = true
				}
			}
			if found != tt.wantRec {
				t.Errorf("database recommendation present = %t, want %t", found, tt.wantRec)
			}
		})
	}
}

func TestLogAnalyzer_ErrorRateRecommendation(t *testing.T) {
	dir := t.TempDir()
	ts := "2026-08-01T10:00:00Z"

	// 1 error in 10 lines is a 10% rate, above the 5% threshold
	lines := []string{jsonLine("error", "boom", ts)}
	for i := 0; i < 9; i++ {
		lines = append(lines, jsonLine("info", "ok", ts))
	}
	writeLogFile(t, dir, "app.log", lines)

	analyzer := newTestAnalyzer(t, dir)
	analysis, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	found := false
	for _, rec := range analysis.Recommendations {
		if rec.Type == "general" && rec.Priority == "high" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected general/high recommendation, got %+v", analysis.Recommendations)
	}
}

func TestLogAnalyzer_SkipsUnreadableAndMissingDirectory(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		analyzer := newTestAnalyzer(t, t.TempDir())
		analysis, err := analyzer.Analyze(context.Background())
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if analysis.Statistics.TotalLines != 0 {
			t.Errorf("TotalLines = %d, want 0", analysis.Statistics.TotalLines)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		analyzer := newTestAnalyzer(t, filepath.Join(t.TempDir(), "nope"))
		if _, err := analyzer.Analyze(context.Background()); err != nil {
			t.Fatalf("Analyze() error = %v, want nil for missing directory", err)
		}
	})
}

func TestLogAnalyzer_HourlyStatistics(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "app.log", []string{
		jsonLine("error", "a", "2026-08-01T10:05:00Z"),
		jsonLine("error", "b", "2026-08-01T10:45:00Z"),
		jsonLine("error", "c", "2026-08-01T12:00:00Z"),
	})

	analyzer := newTestAnalyzer(t, dir)
	analysis, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(analysis.Statistics.HourlyErrors) != 2 {
		t.Fatalf("hourly buckets = %d, want 2", len(analysis.Statistics.HourlyErrors))
	}
	if analysis.Statistics.HourlyErrors["2026-08-01 10:00"] != 2 {
		t.Errorf("10:00 bucket = %d, want 2", analysis.Statistics.HourlyErrors["2026-08-01 10:00"])
	}
	if analysis.Statistics.HourlyErrorMean != 1.5 {
		t.Errorf("HourlyErrorMean = %v, want 1.5", analysis.Statistics.HourlyErrorMean)
	}

	tr := analysis.Statistics.TimeRange
	if tr == nil {
		t.Fatal("TimeRange not set")
	}
	if !tr.Start.Equal(time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC)) {
		t.Errorf("TimeRange.Start = %v", tr.Start)
	}
	if !tr.End.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("TimeRange.End = %v", tr.End)
	}
}

func TestLogAnalyzer_RealTimeTrend(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		recent   int
		previous int
		want     string
	}{
		{name: "sharp increase", recent: 10, previous: 5, want: loganalysis.TrendIncreasing},
		{name: "sharp decrease", recent: 2, previous: 10, want: loganalysis.TrendDecreasing},
		{name: "small change is stable", recent: 11, previous: 10, want: loganalysis.TrendStable},
		{name: "zero previous with recent", recent: 3, previous: 0, want: loganalysis.TrendIncreasing},
		{name: "all quiet", recent: 0, previous: 0, want: loganalysis.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			var lines []string
			for i := 0; i < tt.recent; i++ {
				lines = append(lines, jsonLine("error", fmt.Sprintf("recent %d", i), now.Add(-30*time.Minute).Format(time.RFC3339)))
			}
			for i := 0; i < tt.previous; i++ {
				lines = append(lines, jsonLine("error", fmt.Sprintf("previous %d", i), now.Add(-90*time.Minute).Format(time.RFC3339)))
			}
			if len(lines) == 0 {
				lines = append(lines, jsonLine("info", "quiet", now.Format(time.RFC3339)))
			}
			writeLogFile(t, dir, "app.log", lines)

			analyzer := newTestAnalyzer(t, dir)
			analyzer.now = func() time.Time { return now }

			if _, err := analyzer.Analyze(context.Background()); err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			view := analyzer.RealTime()
			if view.Errors != tt.recent {
				t.Errorf("Errors = %d, want %d", view.Errors, tt.recent)
			}
			if view.Trend != tt.want {
				t.Errorf("Trend = %q, want %q", view.Trend, tt.want)
			}
		})
	}
}

func TestLogAnalyzer_RealTimeBeforeFirstRun(t *testing.T) {
	analyzer := newTestAnalyzer(t, t.TempDir())

	view := analyzer.RealTime()
	if view.Errors != 0 || view.Warnings != 0 {
		t.Errorf("counts = %d/%d, want 0/0", view.Errors, view.Warnings)
	}
	if view.Trend != loganalysis.TrendStable {
		t.Errorf("Trend = %q, want stable", view.Trend)
	}

	if analyzer.Last() != nil {
		t.Error("Last() != nil before first run")
	}
}
