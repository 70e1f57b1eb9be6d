package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/db"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/validation"
	"github.com/ahrav/office-hub/internal/infra/storage"
	"github.com/ahrav/office-hub/internal/infra/storage/pgutil"
)

// Package postgres provides the PostgreSQL implementation of office.Repository.
var _ office.Repository = (*officeStore)(nil)

// officeStore implements office.Repository using Postgres and sqlc-generated queries.
type officeStore struct {
	q      *db.Queries
	tracer trace.Tracer
}

// defaultDBAttributes defines standard OpenTelemetry attributes for database operations.
var defaultDBAttributes = []attribute.KeyValue{attribute.String("db.system", "postgresql")}

// NewOfficeStore creates an office.Repository backed by PostgreSQL.
// conn may be a pool or an open transaction; every query runs on it.
func NewOfficeStore(conn db.DBTX, tracer trace.Tracer) office.Repository {
	return &officeStore{q: db.New(conn), tracer: tracer}
}

func withOfficeID(id int64) []attribute.KeyValue {
	return append(defaultDBAttributes[:len(defaultDBAttributes):len(defaultDBAttributes)],
		attribute.Int64("office.id", id))
}

// Create persists a new office. The unique constraint on name is the final
// arbiter of duplicate names.
func (s *officeStore) Create(ctx context.Context, o *office.Office) (*office.Office, error) {
	var created *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.Create", defaultDBAttributes, func(ctx context.Context) error {
		row, err := s.q.CreateOffice(ctx, db.CreateOfficeParams{
			Name:         o.Name,
			MaxOccupancy: o.MaxOccupancy,
		})
		if err != nil {
			if pgutil.IsUniqueViolation(err) {
				return office.ErrDuplicateName
			}
			if pgutil.IsCheckViolation(err) {
				return checkViolation("create office", err)
			}
			return storage.Unavailable("create office", err)
		}
		created = toDomain(row)
		return nil
	})
	return created, err
}

// FindByID retrieves an office by ID.
// Returns office.ErrNotFound if it doesn't exist.
func (s *officeStore) FindByID(ctx context.Context, id int64) (*office.Office, error) {
	var found *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.FindByID", withOfficeID(id), func(ctx context.Context) error {
		row, err := s.q.GetOfficeByID(ctx, id)
		if err != nil {
			return mapFindErr("find office", err)
		}
		found = toDomain(row)
		return nil
	})
	return found, err
}

// FindByName retrieves an office by its exact name.
// Returns office.ErrNotFound if it doesn't exist.
func (s *officeStore) FindByName(ctx context.Context, name string) (*office.Office, error) {
	var found *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.FindByName", defaultDBAttributes, func(ctx context.Context) error {
		row, err := s.q.GetOfficeByName(ctx, name)
		if err != nil {
			return mapFindErr("find office by name", err)
		}
		found = toDomain(row)
		return nil
	})
	return found, err
}

// LockByID reads the office with SELECT ... FOR UPDATE. Concurrent lockers
// of the same office block until this transaction ends.
func (s *officeStore) LockByID(ctx context.Context, id int64) (*office.Office, error) {
	var found *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.LockByID", withOfficeID(id), func(ctx context.Context) error {
		row, err := s.q.LockOfficeByID(ctx, id)
		if err != nil {
			return mapFindErr("lock office", err)
		}
		found = toDomain(row)
		return nil
	})
	return found, err
}

// List returns all offices ordered by ID.
func (s *officeStore) List(ctx context.Context) ([]*office.Office, error) {
	var offices []*office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.List", defaultDBAttributes, func(ctx context.Context) error {
		rows, err := s.q.ListOffices(ctx)
		if err != nil {
			return storage.Unavailable("list offices", err)
		}
		offices = make([]*office.Office, 0, len(rows))
		for _, row := range rows {
			offices = append(offices, toDomain(row))
		}
		return nil
	})
	return offices, err
}

// Update overwrites the name and capacity of the office.
func (s *officeStore) Update(ctx context.Context, id int64, o *office.Office) (*office.Office, error) {
	var updated *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.Update", withOfficeID(id), func(ctx context.Context) error {
		row, err := s.q.UpdateOffice(ctx, db.UpdateOfficeParams{
			ID:           id,
			Name:         o.Name,
			MaxOccupancy: o.MaxOccupancy,
		})
		if err != nil {
			if pgutil.IsUniqueViolation(err) {
				return office.ErrDuplicateName
			}
			if pgutil.IsCheckViolation(err) {
				return checkViolation("update office", err)
			}
			return mapFindErr("update office", err)
		}
		updated = toDomain(row)
		return nil
	})
	return updated, err
}

// Delete removes the office. The foreign key from employees rejects the
// delete while any employee is still assigned.
func (s *officeStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.Delete", withOfficeID(id), func(ctx context.Context) error {
		n, err := s.q.DeleteOffice(ctx, id)
		if err != nil {
			if pgutil.IsForeignKeyViolation(err) {
				return office.ErrHasEmployees
			}
			return storage.Unavailable("delete office", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// CountEmployees counts the office's committed occupants.
func (s *officeStore) CountEmployees(ctx context.Context, officeID int64) (int64, error) {
	var count int64
	err := storage.ExecuteAndTrace(ctx, s.tracer, "officeStore.CountEmployees", withOfficeID(officeID), func(ctx context.Context) error {
		var err error
		count, err = s.q.CountEmployeesByOffice(ctx, officeID)
		return storage.Unavailable("count employees", err)
	})
	return count, err
}

func mapFindErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return office.ErrNotFound
	}
	return storage.Unavailable(op, err)
}

// checkViolation maps the offices table's CHECK constraints onto the
// validation errors the domain reports for the same rules.
func checkViolation(op string, err error) error {
	switch pgutil.ConstraintName(err) {
	case "offices_max_occupancy_check":
		return validation.New("max_occupancy", validation.ReasonInvalidCapacity)
	case "offices_name_check":
		return validation.New("name", validation.ReasonEmptyName)
	default:
		return storage.Unavailable(op, err)
	}
}

func toDomain(row db.Office) *office.Office {
	return &office.Office{
		ID:           row.ID,
		Name:         row.Name,
		MaxOccupancy: row.MaxOccupancy,
	}
}
