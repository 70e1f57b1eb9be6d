package directory

import (
	"context"
	"time"
)

// DirectoryMetrics defines metrics for directory mutations.
type DirectoryMetrics interface {
	// IncOfficeCreated increments the count of offices created.
	IncOfficeCreated(ctx context.Context)

	// IncEmployeeCreated increments the count of employees created.
	IncEmployeeCreated(ctx context.Context)

	// IncRejected increments the count of operations rejected by a business
	// rule or by storage, labelled with the rejection reason.
	IncRejected(ctx context.Context, operation string, reason string)

	// ObserveTransactionDuration records how long a unit of work took,
	// including time spent waiting for row locks.
	ObserveTransactionDuration(ctx context.Context, operation string, duration time.Duration)
}
