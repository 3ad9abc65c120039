package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRecords(t *testing.T) {
	m := New()
	m.ObserveRecords("app1", "list", nil, 20*time.Millisecond)
	m.ObserveRecords("app1", "list", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.recordsDuration))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK)
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRecords("a", "list", nil, time.Second)
	m.ObserveHTTP("GET", "/", 200)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodPost, "/records", http.StatusSeeOther)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dashboard_http_requests_total"))
}

func TestRegistryCollectsDashboardSeries(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK)
	m.ObserveHTTP(http.MethodGet, "unmatched", http.StatusNotFound)
	m.ObserveRecords("app1", "create", nil, time.Millisecond)

	n, err := testutil.GatherAndCount(m.registry, "dashboard_http_requests_total", "records_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
