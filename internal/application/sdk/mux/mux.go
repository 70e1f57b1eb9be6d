// Package mux assembles the root HTTP handler: API routes behind the
// standard middleware chain plus unwrapped health and metrics endpoints.
package mux

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ahrav/office-hub/internal/application/health"
	"github.com/ahrav/office-hub/internal/application/sdk/mid"
	"github.com/ahrav/office-hub/pkg/common/logger"
)

// Options represent optional parameters.
type Options struct {
	corsOrigin []string
}

// WithCORS provides configuration options for CORS.
func WithCORS(origins []string) func(opts *Options) {
	return func(opts *Options) {
		opts.corsOrigin = origins
	}
}

// Checker reports whether a dependency is ready to serve traffic.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Check calls f(ctx).
func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Build         string
	Log           *logger.Logger
	APIMetrics    mid.APIMetrics
	HealthMetrics health.HealthMetrics
	// Checks run on every readiness probe, keyed by dependency name.
	Checks map[string]Checker
	// Metrics serves the Prometheus exposition format. Optional.
	Metrics http.Handler
}

// healthHandler provides health check endpoints for liveness and readiness probes.
type healthHandler struct {
	build   string
	checks  map[string]Checker
	metrics health.HealthMetrics
	log     *logger.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Build  string `json:"build,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func writeHealth(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Liveness answers as long as the process can serve HTTP.
func (h *healthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthResponse{Status: "up", Build: h.build})
}

// Readiness runs every configured check. It reports 503 naming a
// dependency that failed.
func (h *healthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	for name, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.log.Warn(ctx, "readiness check failed", "check", name, "error", err)
			if h.metrics != nil {
				h.metrics.IncCheckFailure(ctx, name)
				h.metrics.SetSystemHealth(ctx, false)
			}
			writeHealth(w, http.StatusServiceUnavailable, healthResponse{
				Status: "down",
				Reason: name + " unavailable",
			})
			return
		}
	}

	if h.metrics != nil {
		h.metrics.SetSystemHealth(ctx, true)
	}
	writeHealth(w, http.StatusOK, healthResponse{Status: "up", Build: h.build})
}

// WrapWithMiddleware mounts api under the standard middleware chain and adds
// the health and metrics endpoints without it.
func WrapWithMiddleware(cfg Config, api http.Handler, options ...func(opts *Options)) http.Handler {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	r := chi.NewRouter()

	hh := &healthHandler{build: cfg.Build, checks: cfg.Checks, metrics: cfg.HealthMetrics, log: cfg.Log}
	r.Get("/api/v1/health/liveness", hh.Liveness)
	r.Get("/api/v1/health/readiness", hh.Readiness)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if len(opts.corsOrigin) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: opts.corsOrigin,
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "Authorization", mid.RequestIDHeader},
				ExposedHeaders: []string{mid.RequestIDHeader},
				MaxAge:         86400,
			}))
		}
		for _, m := range mid.GetMiddlewareChain(cfg.Log, cfg.APIMetrics) {
			r.Use(m)
		}
		r.Mount("/", api)
	})

	return otelhttp.NewHandler(r, "office-hub",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics"
		}),
	)
}
