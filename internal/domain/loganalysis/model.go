package loganalysis

import "time"

// Category is the heuristic classification of an error entry. Derived
// from keyword matching on the message text; best effort, no recall or
// precision guarantee.
type Category string

const (
	CategoryDatabase    Category = "database"
	CategoryNetwork     Category = "network"
	CategorySecurity    Category = "security"
	CategoryResource    Category = "resource"
	CategoryPerformance Category = "performance"
	CategoryGeneral     Category = "general"
)

// Entry is one classified log line
type Entry struct {
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category,omitempty"`
	Stack     string    `json:"stack,omitempty"`
}

// RecurringError is an exact message seen more than once
type RecurringError struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// PeakTime is an HH:MM bucket with an elevated error count
type PeakTime struct {
	Time  string `json:"time"`
	Count int    `json:"count"`
}

// Patterns holds derived rates and recurrence data
type Patterns struct {
	ErrorRate       float64          `json:"error_rate"`
	WarningRate     float64          `json:"warning_rate"`
	RecurringErrors []RecurringError `json:"recurring_errors"`
	PeakErrorTimes  []PeakTime       `json:"peak_error_times"`
}

// FrequentMessage is one of the top recurring error messages
type FrequentMessage struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// TimeRange is the min/max timestamp across error entries
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Statistics summarizes an analysis pass
type Statistics struct {
	TotalLines       int               `json:"total_lines"`
	TotalErrors      int               `json:"total_errors"`
	TotalWarnings    int               `json:"total_warnings"`
	ByCategory       map[Category]int  `json:"by_category"`
	TimeRange        *TimeRange        `json:"time_range,omitempty"`
	HourlyErrors     map[string]int    `json:"hourly_errors"`
	HourlyErrorMean  float64           `json:"hourly_error_mean"`
	HourlyErrorStdev float64           `json:"hourly_error_stddev"`
	TopErrors        []FrequentMessage `json:"top_errors"`
}

// Recommendation is a rule-triggered remediation suggestion
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// Analysis is the full result of one analyzeLogs pass. Recomputed on
// every call, fully replacing the prior result.
type Analysis struct {
	Errors          []Entry          `json:"errors"`
	Warnings        []Entry          `json:"warnings"`
	Patterns        map[string]int   `json:"patterns"`
	Summary         Patterns         `json:"summary"`
	Statistics      Statistics       `json:"statistics"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// Trend values for the real-time view
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// RealTimeView restricts the collected results to the last hour
type RealTimeView struct {
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	Trend     string    `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
}
