package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexusmon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nexusmon",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Alert metrics
	alertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "alert",
			Name:      "created_total",
			Help:      "Total number of alerts created",
		},
		[]string{"severity", "type"},
	)

	// ActiveAlerts is exported so tests can read the gauge back
	ActiveAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nexusmon",
			Subsystem: "alert",
			Name:      "active_count",
			Help:      "Number of active (unresolved) alerts",
		},
		[]string{"severity"},
	)

	alertsCleanedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "alert",
			Name:      "cleaned_total",
			Help:      "Total number of resolved alerts removed by retention cleanup",
		},
	)

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "notification",
			Name:      "dispatched_total",
			Help:      "Total number of notification delivery attempts",
		},
		[]string{"channel", "status"},
	)

	// Database monitor metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexusmon",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Monitored database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"},
	)

	dbSlowQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "db",
			Name:      "slow_queries_total",
			Help:      "Total number of monitored queries exceeding the slow threshold",
		},
	)

	dbQueryErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of monitored query failures",
		},
	)

	dbHealthStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nexusmon",
			Subsystem: "db",
			Name:      "health_status",
			Help:      "Overall database health (0 healthy, 1 degraded, 2 unhealthy)",
		},
	)

	// Log analysis metrics
	logAnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nexusmon",
			Subsystem: "logs",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a full log analysis pass in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		},
	)

	logEntriesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexusmon",
			Subsystem: "logs",
			Name:      "entries_classified_total",
			Help:      "Total number of log lines classified during analysis",
		},
		[]string{"level"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAlertCreated records a created alert
func RecordAlertCreated(severity, alertType string) {
	alertsCreatedTotal.WithLabelValues(severity, alertType).Inc()
}

// SetActiveAlerts sets the gauge for active alerts by severity
func SetActiveAlerts(severity string, count float64) {
	ActiveAlerts.WithLabelValues(severity).Set(count)
}

// RecordAlertsCleaned records the number of alerts removed by cleanup
func RecordAlertsCleaned(count int) {
	alertsCleanedTotal.Add(float64(count))
}

// RecordNotification records a notification delivery attempt
func RecordNotification(channel, status string) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
}

// RecordDBQuery records a monitored query duration
func RecordDBQuery(kind string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordSlowQuery records a query exceeding the slow threshold
func RecordSlowQuery() {
	dbSlowQueriesTotal.Inc()
}

// RecordQueryError records a monitored query failure
func RecordQueryError() {
	dbQueryErrorsTotal.Inc()
}

// SetDBHealthStatus sets the overall database health gauge
func SetDBHealthStatus(status string) {
	switch status {
	case "healthy":
		dbHealthStatus.Set(0)
	case "degraded":
		dbHealthStatus.Set(1)
	default:
		dbHealthStatus.Set(2)
	}
}

// RecordLogAnalysis records the duration of an analysis pass
func RecordLogAnalysis(duration time.Duration) {
	logAnalysisDuration.Observe(duration.Seconds())
}

// RecordLogEntry records a classified log line
func RecordLogEntry(level string) {
	logEntriesClassified.WithLabelValues(level).Inc()
}
