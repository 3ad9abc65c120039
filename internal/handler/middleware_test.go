package handler

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, recordedRequest{method: method, route: route, status: status})
}

func newObservedRouter(obs HTTPObserver) http.Handler {
	r := chi.NewRouter()
	r.Use(Logger(zap.NewNop(), obs))
	r.Get("/records/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/health", HealthCheck)
	return r
}

func TestLogger_LabelsByRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	h := newObservedRouter(obs)

	for _, path := range []string{"/records/a1/delete", "/records/b2/delete", "/health"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []recordedRequest{
		{method: http.MethodGet, route: "/records/{id}/delete", status: http.StatusNoContent},
		{method: http.MethodGet, route: "/records/{id}/delete", status: http.StatusNoContent},
		{method: http.MethodGet, route: "/health", status: http.StatusOK},
	}, obs.seen)
}

func TestLogger_UnmatchedPathsShareOneLabel(t *testing.T) {
	obs := &recordingObserver{}
	h := newObservedRouter(obs)

	for _, path := range []string{"/a1b2", "/wp-admin/x", "/random-123"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	routes := make([]string, 0, len(obs.seen))
	for _, s := range obs.seen {
		routes = append(routes, s.route)
		assert.Equal(t, http.StatusNotFound, s.status)
	}
	assert.Equal(t, []string{unmatchedRoute, unmatchedRoute, unmatchedRoute}, routes)
}

func TestLogger_NilObserver(t *testing.T) {
	h := newObservedRouter(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
