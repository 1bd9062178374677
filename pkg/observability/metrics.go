package observability

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Auth metrics
	LoginAttemptsTotal      *prometheus.CounterVec
	RegistrationsTotal      *prometheus.CounterVec
	TokenVerificationsTotal *prometheus.CounterVec
	RateLimitedLoginsTotal  prometheus.Counter

	// Permission metrics
	PermissionChecksTotal *prometheus.CounterVec
	PermissionCacheHits   prometheus.Counter
	PermissionCacheMisses prometheus.Counter

	// Storage metrics
	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec
	StorageErrorsTotal       *prometheus.CounterVec

	// Database metrics
	DBConnectionsActive       prometheus.Gauge
	DBConnectionsIdle         prometheus.Gauge
	DBConnectionsWaitCount    prometheus.Gauge
	DBConnectionsWaitDuration prometheus.Gauge

	// Business metrics
	IncidentsCreatedTotal prometheus.Counter
	CommentsCreatedTotal  prometheus.Counter
	CSVImportRowsTotal    *prometheus.CounterVec
	AuditEntriesPruned    prometheus.Counter
	UsersTotal            prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "incident_tracker_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "incident_tracker_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		// Auth metrics
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_login_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		TokenVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_token_verifications_total",
				Help: "Total number of session token verifications by result",
			},
			[]string{"result"},
		),
		RateLimitedLoginsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incident_tracker_rate_limited_logins_total",
				Help: "Total number of login requests rejected by the rate limiter",
			},
		),

		// Permission metrics
		PermissionChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_permission_checks_total",
				Help: "Total number of permission checks by outcome",
			},
			[]string{"permission", "outcome"},
		),
		PermissionCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incident_tracker_permission_cache_hits_total",
				Help: "Total number of permission blob cache hits",
			},
		),
		PermissionCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incident_tracker_permission_cache_misses_total",
				Help: "Total number of permission blob cache misses",
			},
		),

		// Storage metrics
		StorageOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_storage_operations_total",
				Help: "Total number of storage operations",
			},
			[]string{"store", "operation"},
		),
		StorageOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "incident_tracker_storage_operation_duration_seconds",
				Help:    "Storage operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"store", "operation"},
		),
		StorageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_storage_errors_total",
				Help: "Total number of storage errors",
			},
			[]string{"store", "operation"},
		),

		// Database metrics
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "incident_tracker_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "incident_tracker_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBConnectionsWaitCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "incident_tracker_db_connections_wait_count",
				Help: "Total number of connections waited for",
			},
		),
		DBConnectionsWaitDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "incident_tracker_db_connections_wait_duration_seconds",
				Help: "Total time blocked waiting for a connection",
			},
		),

		// Business metrics
		IncidentsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incident_tracker_incidents_created_total",
				Help: "Total number of incidents created",
			},
		),
		CommentsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incident_tracker_comments_created_total",
				Help: "Total number of incident comments created",
			},
		),
		CSVImportRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_tracker_csv_import_rows_total",
				Help: "Total number of CSV import rows by result",
			},
			[]string{"result"},
		),
		AuditEntriesPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incident_tracker_audit_entries_pruned_total",
				Help: "Total number of audit entries removed by the retention sweep",
			},
		),
		UsersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "incident_tracker_users_total",
				Help: "Number of registered users",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.LoginAttemptsTotal,
		m.RegistrationsTotal,
		m.TokenVerificationsTotal,
		m.RateLimitedLoginsTotal,
		m.PermissionChecksTotal,
		m.PermissionCacheHits,
		m.PermissionCacheMisses,
		m.StorageOperationsTotal,
		m.StorageOperationDuration,
		m.StorageErrorsTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
		m.DBConnectionsWaitCount,
		m.DBConnectionsWaitDuration,
		m.IncidentsCreatedTotal,
		m.CommentsCreatedTotal,
		m.CSVImportRowsTotal,
		m.AuditEntriesPruned,
		m.UsersTotal,
	)

	return m
}

// UpdateDBStats copies database pool statistics into the DB gauges.
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	m.DBConnectionsActive.Set(float64(stats.InUse))
	m.DBConnectionsIdle.Set(float64(stats.Idle))
	m.DBConnectionsWaitCount.Set(float64(stats.WaitCount))
	m.DBConnectionsWaitDuration.Set(stats.WaitDuration.Seconds())
}

// MetricsHandler returns an HTTP handler for the /metrics endpoint
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// HTTPMetricsMiddleware records request count, duration, and response size
// for every request passing through it.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.size))
		})
	}
}
