//go:build integration

package directory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ahrav/office-hub/internal/application/directory"
	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/infra/metrics"
	employeeRepo "github.com/ahrav/office-hub/internal/infra/storage/employee/postgres"
	officeRepo "github.com/ahrav/office-hub/internal/infra/storage/office/postgres"
	"github.com/ahrav/office-hub/internal/infra/storage/testutil"
	uowRepo "github.com/ahrav/office-hub/internal/infra/storage/uow/postgres"
	integrationTestUtil "github.com/ahrav/office-hub/internal/test/integration/tesutil"
	"github.com/ahrav/office-hub/pkg/common/logger"
)

// setupCoordinator creates a coordinator over a fresh PostgreSQL container.
func setupCoordinator(t *testing.T) (*directory.Coordinator, context.Context, func()) {
	t.Helper()

	pool, cleanup := testutil.SetupTestContainer(t)
	tracer := noop.NewTracerProvider().Tracer("test-integration")

	reg, err := metrics.NewRegistry(metricnoop.NewMeterProvider())
	require.NoError(t, err)

	c := directory.NewCoordinator(
		officeRepo.NewOfficeStore(pool, tracer),
		employeeRepo.NewEmployeeStore(pool, tracer),
		uowRepo.NewTransactor(pool, tracer),
		reg.Directory,
		logger.Noop(),
		tracer,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	return c, ctx, cleanup
}

func newEmployee(first, last string, officeID int64) employee.Employee {
	return employee.Employee{
		FirstName: first,
		LastName:  last,
		BirthDate: time.Date(1985, time.March, 14, 0, 0, 0, 0, time.UTC),
		OfficeID:  officeID,
	}
}

func TestConcurrentAddEmployee_RespectsCapacity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	c, ctx, cleanup := setupCoordinator(t)
	defer cleanup()

	o, err := c.AddOffice(ctx, office.Office{Name: "Vester Hassing", MaxOccupancy: 3})
	require.NoError(t, err)

	const workers = 20
	errs := integrationTestUtil.RunConcurrently(workers, func(i int) error {
		_, err := c.AddEmployee(ctx, newEmployee("Worker", fmt.Sprintf("Nr%d", i), o.ID))
		return err
	})

	assert.Equal(t, 3, integrationTestUtil.CountNil(errs))
	AssertOnlyCapacityRejections(t, errs)
	AssertOccupancy(t, ctx, c, o.ID, 3)
}

func TestConcurrentMoves_RespectCapacity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	c, ctx, cleanup := setupCoordinator(t)
	defer cleanup()

	src, err := c.AddOffice(ctx, office.Office{Name: "Aalborg", MaxOccupancy: 10})
	require.NoError(t, err)
	dst, err := c.AddOffice(ctx, office.Office{Name: "Nibe", MaxOccupancy: 2})
	require.NoError(t, err)

	const workers = 8
	ids := make([]int64, workers)
	for i := range workers {
		e, err := c.AddEmployee(ctx, newEmployee("Mover", fmt.Sprintf("Nr%d", i), src.ID))
		require.NoError(t, err)
		ids[i] = e.ID
	}

	errs := integrationTestUtil.RunConcurrently(workers, func(i int) error {
		_, err := c.UpdateEmployee(ctx, ids[i], newEmployee("Mover", fmt.Sprintf("Nr%d", i), dst.ID))
		return err
	})

	assert.Equal(t, 2, integrationTestUtil.CountNil(errs))
	AssertOnlyCapacityRejections(t, errs)
	AssertOccupancy(t, ctx, c, dst.ID, 2)
	AssertOccupancy(t, ctx, c, src.ID, workers-2)
}

func TestConcurrentAddOffice_UniqueNames(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	c, ctx, cleanup := setupCoordinator(t)
	defer cleanup()

	const workers = 10
	errs := integrationTestUtil.RunConcurrently(workers, func(int) error {
		_, err := c.AddOffice(ctx, office.Office{Name: "Hals", MaxOccupancy: 4})
		return err
	})

	assert.Equal(t, 1, integrationTestUtil.CountNil(errs))
	AssertOnlyDuplicateRejections(t, errs)

	offices, err := c.ListOffices(ctx)
	require.NoError(t, err)
	assert.Len(t, offices, 1)
}

func TestRemoveOffice_WithEmployees(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	c, ctx, cleanup := setupCoordinator(t)
	defer cleanup()

	o, err := c.AddOffice(ctx, office.Office{Name: "Sæby", MaxOccupancy: 2})
	require.NoError(t, err)
	e, err := c.AddEmployee(ctx, newEmployee("Anne", "Hansen", o.ID))
	require.NoError(t, err)

	removed, err := c.RemoveOffice(ctx, o.ID)
	assert.ErrorIs(t, err, office.ErrHasEmployees)
	assert.False(t, removed)

	removed, err = c.RemoveEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.RemoveOffice(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := c.GetOffice(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
