package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/validation"
	"github.com/ahrav/office-hub/internal/infra/storage/migrate"
	"github.com/ahrav/office-hub/internal/infra/storage/testutil"
)

func setupDB(t *testing.T) (context.Context, *sql.DB) {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.SQLite(db))
	return ctx, db
}

func birth(year int) time.Time { return time.Date(year, time.March, 14, 0, 0, 0, 0, time.UTC) }

func TestOfficeStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx, db := setupDB(t)
	store := NewOfficeStore(db, testutil.NoOpTracer())

	created, err := store.Create(ctx, &office.Office{Name: "Vester Hassing", MaxOccupancy: 1})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	found, err := store.FindByName(ctx, "Vester Hassing")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = store.FindByName(ctx, "vester hassing")
	assert.ErrorIs(t, err, office.ErrNotFound, "names match case-sensitively")

	updated, err := store.Update(ctx, created.ID, &office.Office{Name: "Aalborg", MaxOccupancy: 3})
	require.NoError(t, err)
	assert.Equal(t, int32(3), updated.MaxOccupancy)

	_, err = store.Update(ctx, 999, &office.Office{Name: "Ghost", MaxOccupancy: 1})
	assert.ErrorIs(t, err, office.ErrNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, office.ErrNotFound)
}

func TestOfficeStore_DuplicateName(t *testing.T) {
	t.Parallel()

	ctx, db := setupDB(t)
	store := NewOfficeStore(db, testutil.NoOpTracer())

	_, err := store.Create(ctx, &office.Office{Name: "Aalborg", MaxOccupancy: 1})
	require.NoError(t, err)

	_, err = store.Create(ctx, &office.Office{Name: "Aalborg", MaxOccupancy: 2})
	assert.ErrorIs(t, err, office.ErrDuplicateName)

	other, err := store.Create(ctx, &office.Office{Name: "Aarhus", MaxOccupancy: 1})
	require.NoError(t, err)
	_, err = store.Update(ctx, other.ID, &office.Office{Name: "Aalborg", MaxOccupancy: 1})
	assert.ErrorIs(t, err, office.ErrDuplicateName)
}

func TestOfficeStore_CapacityCheck(t *testing.T) {
	t.Parallel()

	ctx, db := setupDB(t)
	store := NewOfficeStore(db, testutil.NoOpTracer())

	_, err := store.Create(ctx, &office.Office{Name: "Aalborg", MaxOccupancy: 0})
	reason, ok := validation.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, validation.ReasonInvalidCapacity, reason)

	created, err := store.Create(ctx, &office.Office{Name: "Aalborg", MaxOccupancy: 1})
	require.NoError(t, err)

	_, err = store.Update(ctx, created.ID, &office.Office{Name: "Aalborg", MaxOccupancy: -2})
	reason, ok = validation.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, validation.ReasonInvalidCapacity, reason)
}

func TestEmployeeStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx, db := setupDB(t)
	offices := NewOfficeStore(db, testutil.NoOpTracer())
	store := NewEmployeeStore(db, testutil.NoOpTracer())

	o, err := offices.Create(ctx, &office.Office{Name: "Aalborg", MaxOccupancy: 2})
	require.NoError(t, err)

	created, err := store.Create(ctx, &employee.Employee{
		FirstName: "Kristoffer", LastName: "Første", BirthDate: birth(1950), OfficeID: o.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, birth(1950), created.BirthDate)

	_, err = store.Create(ctx, &employee.Employee{
		FirstName: "Kristoffer", LastName: "Anden", BirthDate: birth(1950), OfficeID: 999,
	})
	assert.ErrorIs(t, err, office.ErrNotFound)

	count, err := offices.CountEmployees(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = offices.Delete(ctx, o.ID)
	assert.ErrorIs(t, err, office.ErrHasEmployees)

	created.FirstName = "Anne Marie"
	updated, err := store.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Anne Marie", updated.FirstName)

	created.OfficeID = 999
	_, err = store.Update(ctx, created.ID, created)
	assert.ErrorIs(t, err, office.ErrNotFound)

	inOffice, err := store.ListByOfficeID(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, inOffice, 1)

	none, err := store.ListByOfficeID(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)

	deleted, err := store.Delete(ctx, updated.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.FindByID(ctx, updated.ID)
	assert.ErrorIs(t, err, employee.ErrNotFound)

	deleted, err = store.Delete(ctx, updated.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
