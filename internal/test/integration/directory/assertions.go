package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/office-hub/internal/application/directory"
	"github.com/ahrav/office-hub/internal/domain/office"
)

// AssertOccupancy verifies the stored head count of an office and that it
// never exceeds capacity.
func AssertOccupancy(t *testing.T, ctx context.Context, c *directory.Coordinator, officeID int64, expected int64) {
	t.Helper()

	occ, err := c.OfficeOccupancy(ctx, officeID)
	require.NoError(t, err, "Failed to read occupancy")
	assert.Equal(t, expected, occ.Current, "Occupancy should match")
	assert.LessOrEqual(t, occ.Current, int64(occ.Max), "Occupancy must not exceed capacity")
}

// AssertOnlyCapacityRejections checks that every failed call was rejected for
// lack of room and nothing else.
func AssertOnlyCapacityRejections(t *testing.T, errs []error) {
	t.Helper()

	for i, err := range errs {
		if err == nil {
			continue
		}
		var capErr *office.CapacityError
		assert.True(t, errors.As(err, &capErr), "worker %d: unexpected error %v", i, err)
	}
}

// AssertOnlyDuplicateRejections checks that every failed call was a
// duplicate-name rejection.
func AssertOnlyDuplicateRejections(t *testing.T, errs []error) {
	t.Helper()

	for i, err := range errs {
		if err == nil {
			continue
		}
		assert.ErrorIs(t, err, office.ErrDuplicateName, "worker %d", i)
	}
}
