package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/office-hub/internal/application/health"
)

var _ health.HealthMetrics = (*healthMetrics)(nil)

type healthMetrics struct {
	healthy       metric.Int64Gauge
	checkFailures metric.Int64Counter
}

func newHealthMetrics(mp metric.MeterProvider) (*healthMetrics, error) {
	meter := mp.Meter(namespace, metric.WithInstrumentationVersion("v0.1.0"))

	m := new(healthMetrics)
	var err error

	if m.healthy, err = meter.Int64Gauge(
		"system_healthy",
		metric.WithDescription("1 when the last readiness probe passed, 0 otherwise"),
	); err != nil {
		return nil, err
	}

	if m.checkFailures, err = meter.Int64Counter(
		"readiness_check_failures_total",
		metric.WithDescription("Failed readiness checks by dependency"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *healthMetrics) SetSystemHealth(ctx context.Context, healthy bool) {
	var v int64
	if healthy {
		v = 1
	}
	m.healthy.Record(ctx, v)
}

func (m *healthMetrics) IncCheckFailure(ctx context.Context, check string) {
	m.checkFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("check", check)))
}
