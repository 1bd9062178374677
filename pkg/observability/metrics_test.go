package observability

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAll(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	// Touch one metric of each family so Gather reports them.
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/incident", "200").Inc()
	m.LoginAttemptsTotal.WithLabelValues("success").Inc()
	m.PermissionChecksTotal.WithLabelValues("incident:create", "allowed").Inc()
	m.StorageOperationsTotal.WithLabelValues("incidents", "insert").Inc()
	m.IncidentsCreatedTotal.Inc()
	m.UsersTotal.Set(3)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, want := range []string{
		"incident_tracker_http_requests_total",
		"incident_tracker_login_attempts_total",
		"incident_tracker_permission_checks_total",
		"incident_tracker_storage_operations_total",
		"incident_tracker_incidents_created_total",
		"incident_tracker_users_total",
	} {
		assert.True(t, names[want], "missing metric family %s", want)
	}
}

func TestNewMetricsDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)
	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"i1"}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/incident", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/incident", "201"))
	assert.Equal(t, float64(1), count)
}

func TestHTTPMetricsMiddlewareDefaultsTo200(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	assert.Equal(t, float64(1), count)
}

func TestUpdateDBStats(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.UpdateDBStats(sql.DBStats{
		InUse:        4,
		Idle:         2,
		WaitCount:    7,
		WaitDuration: 1500 * time.Millisecond,
	})

	assert.Equal(t, float64(4), testutil.ToFloat64(m.DBConnectionsActive))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBConnectionsIdle))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.DBConnectionsWaitCount))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.DBConnectionsWaitDuration))
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.IncidentsCreatedTotal.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	MetricsHandler(registry).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "incident_tracker_incidents_created_total 1")
}
