package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/nexus-platform/nexus-monitor/internal/domain/loganalysis"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/logger"
	"github.com/nexus-platform/nexus-monitor/internal/pkg/metrics"
)

// LogAnalyzer implements loganalysis.Service over a directory of *.log
// files. Each Analyze pass recomputes everything from scratch.
type LogAnalyzer struct {
	dir    string
	logger *logger.Logger

	mu   sync.RWMutex
	last *loganalysis.Analysis

	now func() time.Time
}

// NewLogAnalyzer creates an analyzer rooted at dir
func NewLogAnalyzer(dir string, log *logger.Logger) *LogAnalyzer {
	return &LogAnalyzer{
		dir:    dir,
		logger: log,
		now:    time.Now,
	}
}

// logLine is the shape of a structured log line. Lines that fail to
// unmarshal fall back to substring classification.
type logLine struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Stack     string `json:"stack"`
}

// Analyze scans every *.log file under the configured directory
func (a *LogAnalyzer) Analyze(ctx context.Context) (*loganalysis.Analysis, error) {
	start := a.now()

	analysis := &loganalysis.Analysis{
		Patterns:    make(map[string]int),
		GeneratedAt: start,
	}

	files, err := filepath.Glob(filepath.Join(a.dir, "*.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log directory %s: %w", a.dir, err)
	}

	totalLines := 0
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lines, err := a.analyzeFile(file, analysis)
		if err != nil {
			a.logger.WithError(err).Warnf("Skipping unreadable log file %s", file)
			continue
		}
		totalLines += lines
	}

	analysis.Summary = a.identifyPatterns(analysis, totalLines)
	analysis.Statistics = a.generateStatistics(analysis, totalLines)
	analysis.Recommendations = a.generateRecommendations(analysis)

	metrics.RecordLogAnalysis(a.now().Sub(start))

	a.mu.Lock()
	a.last = analysis
	a.mu.Unlock()

	a.logger.WithFields(map[string]interface{}{
		"files":    len(files),
		"lines":    totalLines,
		"errors":   len(analysis.Errors),
		"warnings": len(analysis.Warnings),
	}).Info("Log analysis completed")

	return analysis, nil
}

// analyzeFile classifies every non-blank line of one file, appending
// results into the shared analysis. Returns the number of lines seen.
func (a *LogAnalyzer) analyzeFile(path string, analysis *loganalysis.Analysis) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	name := filepath.Base(path)
	count := 0
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		count++

		var parsed logLine
		if err := json.Unmarshal([]byte(line), &parsed); err == nil && parsed.Level != "" {
			a.classifyStructured(name, i+1, parsed, analysis)
			continue
		}
		a.classifyPlain(name, i+1, line, analysis)
	}

	return count, nil
}

func (a *LogAnalyzer) classifyStructured(file string, lineNo int, parsed logLine, analysis *loganalysis.Analysis) {
	analysis.Patterns[parsed.Level]++
	metrics.RecordLogEntry(parsed.Level)

	if strings.Contains(parsed.Message, "HTTP") {
		analysis.Patterns["http_requests"]++
	}

	entry := loganalysis.Entry{
		File:      file,
		Line:      lineNo,
		Level:     parsed.Level,
		Message:   parsed.Message,
		Timestamp: parseTimestamp(parsed.Timestamp),
		Stack:     parsed.Stack,
	}

	switch parsed.Level {
	case "error":
		entry.Category = categorize(parsed.Message)
		analysis.Patterns["error_"+string(entry.Category)]++
		analysis.Errors = append(analysis.Errors, entry)
	case "warn":
		analysis.Warnings = append(analysis.Warnings, entry)
	}
}

func (a *LogAnalyzer) classifyPlain(file string, lineNo int, line string, analysis *loganalysis.Analysis) {
	lower := strings.ToLower(line)

	entry := loganalysis.Entry{
		File:      file,
		Line:      lineNo,
		Message:   line,
		Timestamp: a.now(),
	}

	switch {
	case strings.Contains(lower, "error"):
		entry.Level = "error"
		entry.Category = categorize(line)
		analysis.Patterns["error_"+string(entry.Category)]++
		analysis.Errors = append(analysis.Errors, entry)
		metrics.RecordLogEntry("error")
	case strings.Contains(lower, "warning"), strings.Contains(lower, "warn"):
		entry.Level = "warn"
		analysis.Warnings = append(analysis.Warnings, entry)
		metrics.RecordLogEntry("warn")
	}
}

// categorize maps a message to a coarse category by keyword
func categorize(message string) loganalysis.Category {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "database"), strings.Contains(lower, "sql"):
		return loganalysis.CategoryDatabase
	case strings.Contains(lower, "network"), strings.Contains(lower, "connection"):
		return loganalysis.CategoryNetwork
	case strings.Contains(lower, "auth"), strings.Contains(lower, "permission"):
		return loganalysis.CategorySecurity
	case strings.Contains(lower, "memory"):
		return loganalysis.CategoryResource
	case strings.Contains(lower, "timeout"):
		return loganalysis.CategoryPerformance
	default:
		return loganalysis.CategoryGeneral
	}
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// identifyPatterns derives rates, recurring errors and peak times
func (a *LogAnalyzer) identifyPatterns(analysis *loganalysis.Analysis, totalLines int) loganalysis.Patterns {
	summary := loganalysis.Patterns{}

	if totalLines > 0 {
		summary.ErrorRate = float64(len(analysis.Errors)) / float64(totalLines) * 100
		summary.WarningRate = float64(len(analysis.Warnings)) / float64(totalLines) * 100
	}

	byMessage := make(map[string]int)
	byMinute := make(map[string]int)
	for _, e := range analysis.Errors {
		byMessage[e.Message]++
		if !e.Timestamp.IsZero() {
			byMinute[e.Timestamp.Format("15:04")]++
		}
	}

	for msg, count := range byMessage {
		if count > 1 {
			summary.RecurringErrors = append(summary.RecurringErrors,
				loganalysis.RecurringError{Message: msg, Count: count})
		}
	}
	sort.Slice(summary.RecurringErrors, func(i, j int) bool {
		if summary.RecurringErrors[i].Count != summary.RecurringErrors[j].Count {
			return summary.RecurringErrors[i].Count > summary.RecurringErrors[j].Count
		}
		return summary.RecurringErrors[i].Message < summary.RecurringErrors[j].Message
	})
	if len(summary.RecurringErrors) > 10 {
		summary.RecurringErrors = summary.RecurringErrors[:10]
	}

	for bucket, count := range byMinute {
		summary.PeakErrorTimes = append(summary.PeakErrorTimes,
			loganalysis.PeakTime{Time: bucket, Count: count})
	}
	sort.Slice(summary.PeakErrorTimes, func(i, j int) bool {
		if summary.PeakErrorTimes[i].Count != summary.PeakErrorTimes[j].Count {
			return summary.PeakErrorTimes[i].Count > summary.PeakErrorTimes[j].Count
		}
		return summary.PeakErrorTimes[i].Time < summary.PeakErrorTimes[j].Time
	})
	if len(summary.PeakErrorTimes) > 5 {
		summary.PeakErrorTimes = summary.PeakErrorTimes[:5]
	}

	return summary
}

// generateStatistics computes totals, breakdowns and the hourly
// distribution of errors
func (a *LogAnalyzer) generateStatistics(analysis *loganalysis.Analysis, totalLines int) loganalysis.Statistics {
	stats := loganalysis.Statistics{
		TotalLines:    totalLines,
		TotalErrors:   len(analysis.Errors),
		TotalWarnings: len(analysis.Warnings),
		ByCategory:    make(map[loganalysis.Category]int),
		HourlyErrors:  make(map[string]int),
	}

	byMessage := make(map[string]int)
	for _, e := range analysis.Errors {
		stats.ByCategory[e.Category]++
		byMessage[e.Message]++

		if e.Timestamp.IsZero() {
			continue
		}
		stats.HourlyErrors[e.Timestamp.Format("2006-01-02 15:00")]++

		if stats.TimeRange == nil {
			stats.TimeRange = &loganalysis.TimeRange{Start: e.Timestamp, End: e.Timestamp}
			continue
		}
		if e.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = e.Timestamp
		}
		if e.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = e.Timestamp
		}
	}

	if len(stats.HourlyErrors) > 0 {
		counts := make([]float64, 0, len(stats.HourlyErrors))
		for _, c := range stats.HourlyErrors {
			counts = append(counts, float64(c))
		}
		mean, stdev := stat.MeanStdDev(counts, nil)
		stats.HourlyErrorMean = mean
		if len(counts) > 1 {
			stats.HourlyErrorStdev = stdev
		}
	}

	for msg, count := range byMessage {
		stats.TopErrors = append(stats.TopErrors,
			loganalysis.FrequentMessage{Message: msg, Count: count})
	}
	sort.Slice(stats.TopErrors, func(i, j int) bool {
		if stats.TopErrors[i].Count != stats.TopErrors[j].Count {
			return stats.TopErrors[i].Count > stats.TopErrors[j].Count
		}
		return stats.TopErrors[i].Message < stats.TopErrors[j].Message
	})
	if len(stats.TopErrors) > 5 {
		stats.TopErrors = stats.TopErrors[:5]
	}

	return stats
}

// generateRecommendations evaluates each rule independently; all
// applicable rules fire. Thresholds are strict.
func (a *LogAnalyzer) generateRecommendations(analysis *loganalysis.Analysis) []loganalysis.Recommendation {
	var recs []loganalysis.Recommendation

	if analysis.Summary.ErrorRate > 5 {
		recs = append(recs, loganalysis.Recommendation{
			Type:     "general",
			Priority: "high",
			Message:  fmt.Sprintf("Error rate is %.1f%%, above the 5%% threshold", analysis.Summary.ErrorRate),
			Action:   "Review recent deployments and recurring errors",
		})
	}
	if analysis.Patterns["error_database"] > 10 {
		recs = append(recs, loganalysis.Recommendation{
			Type:     "database",
			Priority: "high",
			Message:  fmt.Sprintf("%d database errors detected", analysis.Patterns["error_database"]),
			Action:   "Check database connectivity and run a health probe",
		})
	}
	if analysis.Patterns["error_security"] > 5 {
		recs = append(recs, loganalysis.Recommendation{
			Type:     "security",
			Priority: "critical",
			Message:  fmt.Sprintf("%d security-related errors detected", analysis.Patterns["error_security"]),
			Action:   "Audit authentication failures and permission denials",
		})
	}
	if analysis.Patterns["error_performance"] > 10 {
		recs = append(recs, loganalysis.Recommendation{
			Type:     "performance",
			Priority: "medium",
			Message:  fmt.Sprintf("%d timeout errors detected", analysis.Patterns["error_performance"]),
			Action:   "Profile slow endpoints and review query plans",
		})
	}
	if analysis.Patterns["error_resource"] > 5 {
		recs = append(recs, loganalysis.Recommendation{
			Type:     "resource",
			Priority: "high",
			Message:  fmt.Sprintf("%d resource errors detected", analysis.Patterns["error_resource"]),
			Action:   "Check memory usage and consider scaling",
		})
	}

	return recs
}

// Last returns the most recent analysis, or nil before the first run
func (a *LogAnalyzer) Last() *loganalysis.Analysis {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// RealTime restricts the last analysis to the trailing hour and
// compares it against the hour before to derive a trend
func (a *LogAnalyzer) RealTime() *loganalysis.RealTimeView {
	a.mu.RLock()
	last := a.last
	a.mu.RUnlock()

	now := a.now()
	view := &loganalysis.RealTimeView{
		Trend:     loganalysis.TrendStable,
		Timestamp: now,
	}
	if last == nil {
		return view
	}

	hourAgo := now.Add(-time.Hour)
	twoHoursAgo := now.Add(-2 * time.Hour)

	previous := 0
	for _, e := range last.Errors {
		switch {
		case e.Timestamp.After(hourAgo):
			view.Errors++
		case e.Timestamp.After(twoHoursAgo):
			previous++
		}
	}
	for _, w := range last.Warnings {
		if w.Timestamp.After(hourAgo) {
			view.Warnings++
		}
	}

	view.Trend = trend(view.Errors, previous)
	return view
}

func trend(recent, previous int) string {
	if previous == 0 {
		if recent > 0 {
			return loganalysis.TrendIncreasing
		}
		return loganalysis.TrendStable
	}

	change := (float64(recent) - float64(previous)) / float64(previous) * 100
	switch {
	case change > 20:
		return loganalysis.TrendIncreasing
	case change < -20:
		return loganalysis.TrendDecreasing
	default:
		return loganalysis.TrendStable
	}
}
