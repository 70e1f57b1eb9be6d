package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/office-hub/internal/application/sdk/mid"
)

var _ mid.APIMetrics = (*apiMetrics)(nil)

// latencyBuckets covers a fast directory lookup up to a slow lock wait.
var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

type apiMetrics struct {
	requestLatency     metric.Float64Histogram
	requestCount       metric.Int64Counter
	concurrentRequests metric.Int64UpDownCounter
}

func newAPIMetrics(mp metric.MeterProvider) (*apiMetrics, error) {
	meter := mp.Meter(namespace, metric.WithInstrumentationVersion("v0.1.0"))

	m := new(apiMetrics)
	var err error

	if m.requestLatency, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Latency of directory API requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if m.requestCount, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Directory API requests by route, method and status class"),
	); err != nil {
		return nil, err
	}

	if m.concurrentRequests, err = meter.Int64UpDownCounter(
		"http_requests_in_flight",
		metric.WithDescription("Directory API requests currently being served"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// requestAttrs labels by status class so the series count stays bounded.
func requestAttrs(route, method string, statusCode int) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.String("status_class", strconv.Itoa(statusCode/100)+"xx"),
	)
}

func (m *apiMetrics) ObserveRequestLatency(ctx context.Context, route, method string, statusCode int, d time.Duration) {
	m.requestLatency.Record(ctx, d.Seconds(), requestAttrs(route, method, statusCode))
}

func (m *apiMetrics) IncRequestCount(ctx context.Context, route, method string, statusCode int) {
	m.requestCount.Add(ctx, 1, requestAttrs(route, method, statusCode))
}

func (m *apiMetrics) TrackConcurrentRequests(ctx context.Context, method string, f func() error) error {
	attrs := metric.WithAttributes(attribute.String("method", method))
	m.concurrentRequests.Add(ctx, 1, attrs)
	defer m.concurrentRequests.Add(ctx, -1, attrs)
	return f()
}
