package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/office-hub/internal/application/directory"
)

var _ directory.DirectoryMetrics = (*directoryMetrics)(nil)

// directoryMetrics implements directory.DirectoryMetrics.
type directoryMetrics struct {
	officesCreated   metric.Int64Counter
	employeesCreated metric.Int64Counter
	rejections       metric.Int64Counter
	txDuration       metric.Float64Histogram
}

func newDirectoryMetrics(mp metric.MeterProvider) (*directoryMetrics, error) {
	meter := mp.Meter(namespace, metric.WithInstrumentationVersion("v0.1.0"))

	m := new(directoryMetrics)
	var err error

	if m.officesCreated, err = meter.Int64Counter(
		"offices_created_total",
		metric.WithDescription("Total number of offices created"),
	); err != nil {
		return nil, err
	}

	if m.employeesCreated, err = meter.Int64Counter(
		"employees_created_total",
		metric.WithDescription("Total number of employees created"),
	); err != nil {
		return nil, err
	}

	if m.rejections, err = meter.Int64Counter(
		"directory_rejections_total",
		metric.WithDescription("Total number of rejected directory operations by reason"),
	); err != nil {
		return nil, err
	}

	if m.txDuration, err = meter.Float64Histogram(
		"directory_transaction_duration_seconds",
		metric.WithDescription("Duration of directory units of work, lock waits included"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *directoryMetrics) IncOfficeCreated(ctx context.Context) { m.officesCreated.Add(ctx, 1) }

func (m *directoryMetrics) IncEmployeeCreated(ctx context.Context) { m.employeesCreated.Add(ctx, 1) }

func (m *directoryMetrics) IncRejected(ctx context.Context, operation string, reason string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}

func (m *directoryMetrics) ObserveTransactionDuration(ctx context.Context, operation string, duration time.Duration) {
	m.txDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
