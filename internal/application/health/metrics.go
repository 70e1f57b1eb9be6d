// Package health defines what readiness probing reports to telemetry.
package health

import "context"

// HealthMetrics records readiness outcomes.
type HealthMetrics interface {
	// SetSystemHealth records the result of the latest readiness probe.
	SetSystemHealth(ctx context.Context, healthy bool)
	// IncCheckFailure counts a failed dependency check.
	IncCheckFailure(ctx context.Context, check string)
}
