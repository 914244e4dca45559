package loganalysis

import "context"

// Service defines the interface for the log analyzer
type Service interface {
	// Analyze scans the log directory and produces a fresh analysis,
	// replacing any prior result. Unreadable files are skipped.
	Analyze(ctx context.Context) (*Analysis, error)

	// Last returns the most recent analysis, or nil if none has run
	Last() *Analysis

	// RealTime computes a last-hour view from the already collected
	// results without re-reading files
	RealTime() *RealTimeView
}
