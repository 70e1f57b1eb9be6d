package mid

import (
	"context"
	"net/http"
	"time"
)

// APIMetrics records per-request HTTP telemetry. Routes are chi patterns,
// never raw paths.
type APIMetrics interface {
	ObserveRequestLatency(ctx context.Context, route string, method string, statusCode int, duration time.Duration)
	IncRequestCount(ctx context.Context, route string, method string, statusCode int)
	// TrackConcurrentRequests counts f as in flight while it runs.
	TrackConcurrentRequests(ctx context.Context, method string, f func() error) error
}

// MetricsMiddleware records API metrics. The route label is resolved after
// the router has matched, so it is only complete once next returns.
func MetricsMiddleware(metrics APIMetrics) HTTPMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			_ = metrics.TrackConcurrentRequests(r.Context(), r.Method, func() error {
				next.ServeHTTP(sw, r)
				return nil
			})

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			metrics.IncRequestCount(r.Context(), route, r.Method, status)
			metrics.ObserveRequestLatency(r.Context(), route, r.Method, status, time.Since(start))
		})
	}
}
