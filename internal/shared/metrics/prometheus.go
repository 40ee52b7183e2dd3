package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	checkInsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkins_recorded_total",
			Help: "Total number of check-ins recorded",
		},
		[]string{"source"},
	)

	overdueEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overdue_evaluations_total",
			Help: "Total number of overdue evaluations",
		},
		[]string{"result"},
	)

	unparseableTimestamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unparseable_timestamps_total",
			Help: "Total number of check-in timestamps dropped during normalization",
		},
	)

	csvExports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csv_exports_total",
			Help: "Total number of CSV dashboard exports",
		},
	)

	hisRowsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "his_rows_imported_total",
			Help: "Total number of check-in rows imported from the HIS",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths for metrics to avoid cardinality explosion
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordCheckIn records a check-in, labeled by origin ("api" or "his")
func RecordCheckIn(source string) {
	checkInsRecorded.WithLabelValues(source).Inc()
}

// RecordOverdueEvaluation records one recency resolution
func RecordOverdueEvaluation(overdue bool) {
	result := "on_schedule"
	if overdue {
		result = "overdue"
	}
	overdueEvaluations.WithLabelValues(result).Inc()
}

// RecordUnparseableTimestamp records a timestamp dropped during normalization
func RecordUnparseableTimestamp() {
	unparseableTimestamps.Inc()
}

// RecordCSVExport records one dashboard export
func RecordCSVExport() {
	csvExports.Inc()
}

// RecordHISImport records rows imported from the HIS poller
func RecordHISImport(rows int) {
	hisRowsImported.Add(float64(rows))
}
