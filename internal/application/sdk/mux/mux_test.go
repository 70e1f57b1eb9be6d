package mux_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/office-hub/internal/application/sdk/mid"
	"github.com/ahrav/office-hub/internal/application/sdk/mux"
	"github.com/ahrav/office-hub/pkg/common/logger"
)

type recordedRequest struct {
	endpoint string
	status   int
}

type fakeAPIMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeAPIMetrics) ObserveRequestLatency(context.Context, string, string, int, time.Duration) {}

func (f *fakeAPIMetrics) IncRequestCount(_ context.Context, endpoint, _ string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{endpoint: endpoint, status: status})
}

func (f *fakeAPIMetrics) TrackConcurrentRequests(_ context.Context, _ string, fn func() error) error {
	return fn()
}

type fakeHealthMetrics struct {
	last     *bool
	failures map[string]int
}

func (f *fakeHealthMetrics) SetSystemHealth(_ context.Context, status bool) { f.last = &status }

func (f *fakeHealthMetrics) IncCheckFailure(_ context.Context, check string) {
	if f.failures == nil {
		f.failures = map[string]int{}
	}
	f.failures[check]++
}

func newHandler(api http.Handler, checks map[string]mux.Checker) (http.Handler, *fakeAPIMetrics, *fakeHealthMetrics) {
	am := new(fakeAPIMetrics)
	hm := new(fakeHealthMetrics)
	h := mux.WrapWithMiddleware(mux.Config{
		Build:         "test",
		Log:           logger.Noop(),
		APIMetrics:    am,
		HealthMetrics: hm,
		Checks:        checks,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	}, api, mux.WithCORS([]string{"https://example.com"}))
	return h, am, hm
}

func TestLivenessAndMetricsBypassMiddleware(t *testing.T) {
	h, am, _ := newHandler(http.NotFoundHandler(), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/liveness", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"up","build":"test"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get(mid.RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", rec.Body.String())

	assert.Empty(t, am.requests)
}

func TestReadiness(t *testing.T) {
	var dbErr error
	checks := map[string]mux.Checker{
		"database": mux.CheckerFunc(func(context.Context) error { return dbErr }),
	}
	h, _, hm := newHandler(http.NotFoundHandler(), checks)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/readiness", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, hm.last)
	assert.True(t, *hm.last)

	dbErr = errors.New("connection refused")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/readiness", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"down","reason":"database unavailable"}`, rec.Body.String())
	assert.False(t, *hm.last)
	assert.Equal(t, 1, hm.failures["database"])
}

func TestAPIRoutesGetMiddleware(t *testing.T) {
	api := chi.NewRouter()
	api.Get("/offices/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	api.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	h, am, _ := newHandler(api, nil)

	req := httptest.NewRequest(http.MethodGet, "/offices/42", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(mid.RequestIDHeader))
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	require.Len(t, am.requests, 2)
	assert.Equal(t, recordedRequest{endpoint: "/offices/{id}", status: http.StatusTeapot}, am.requests[0])
	assert.Equal(t, http.StatusInternalServerError, am.requests[1].status)
}
