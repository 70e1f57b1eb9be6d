package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/db"
	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/infra/storage"
	"github.com/ahrav/office-hub/internal/infra/storage/pgutil"
)

// Package postgres provides the PostgreSQL implementation of employee.Repository.
var _ employee.Repository = (*employeeStore)(nil)

// employeeStore implements employee.Repository using Postgres and sqlc-generated queries.
type employeeStore struct {
	q      *db.Queries
	tracer trace.Tracer
}

var defaultDBAttributes = []attribute.KeyValue{attribute.String("db.system", "postgresql")}

// NewEmployeeStore creates an employee.Repository backed by PostgreSQL.
// conn may be a pool or an open transaction; every query runs on it.
func NewEmployeeStore(conn db.DBTX, tracer trace.Tracer) employee.Repository {
	return &employeeStore{q: db.New(conn), tracer: tracer}
}

func withEmployeeID(id int64) []attribute.KeyValue {
	return append(defaultDBAttributes[:len(defaultDBAttributes):len(defaultDBAttributes)],
		attribute.Int64("employee.id", id))
}

// Create persists a new employee. A dangling office reference surfaces as
// office.ErrNotFound.
func (s *employeeStore) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	attrs := append(defaultDBAttributes[:len(defaultDBAttributes):len(defaultDBAttributes)],
		attribute.Int64("office.id", e.OfficeID))

	var created *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.Create", attrs, func(ctx context.Context) error {
		row, err := s.q.CreateEmployee(ctx, db.CreateEmployeeParams{
			FirstName: e.FirstName,
			LastName:  e.LastName,
			BirthDate: toPgDate(e.BirthDate),
			OfficeID:  e.OfficeID,
		})
		if err != nil {
			if pgutil.IsForeignKeyViolation(err) {
				return office.ErrNotFound
			}
			return storage.Unavailable("create employee", err)
		}
		created = toDomain(row)
		return nil
	})
	return created, err
}

// FindByID retrieves an employee by ID.
// Returns employee.ErrNotFound if it doesn't exist.
func (s *employeeStore) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var found *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.FindByID", withEmployeeID(id), func(ctx context.Context) error {
		row, err := s.q.GetEmployeeByID(ctx, id)
		if err != nil {
			return mapFindErr("find employee", err)
		}
		found = toDomain(row)
		return nil
	})
	return found, err
}

// LockByID reads the employee with SELECT ... FOR UPDATE.
func (s *employeeStore) LockByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var found *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.LockByID", withEmployeeID(id), func(ctx context.Context) error {
		row, err := s.q.LockEmployeeByID(ctx, id)
		if err != nil {
			return mapFindErr("lock employee", err)
		}
		found = toDomain(row)
		return nil
	})
	return found, err
}

// List returns all employees ordered by ID.
func (s *employeeStore) List(ctx context.Context) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.List", defaultDBAttributes, func(ctx context.Context) error {
		rows, err := s.q.ListEmployees(ctx)
		if err != nil {
			return storage.Unavailable("list employees", err)
		}
		employees = toDomainSlice(rows)
		return nil
	})
	return employees, err
}

// ListByOfficeID returns the employees assigned to the office ordered by ID.
func (s *employeeStore) ListByOfficeID(ctx context.Context, officeID int64) ([]*employee.Employee, error) {
	attrs := append(defaultDBAttributes[:len(defaultDBAttributes):len(defaultDBAttributes)],
		attribute.Int64("office.id", officeID))

	var employees []*employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.ListByOfficeID", attrs, func(ctx context.Context) error {
		rows, err := s.q.ListEmployeesByOffice(ctx, officeID)
		if err != nil {
			return storage.Unavailable("list employees by office", err)
		}
		employees = toDomainSlice(rows)
		return nil
	})
	return employees, err
}

// Update overwrites every field of the employee.
func (s *employeeStore) Update(ctx context.Context, id int64, e *employee.Employee) (*employee.Employee, error) {
	var updated *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.Update", withEmployeeID(id), func(ctx context.Context) error {
		row, err := s.q.UpdateEmployee(ctx, db.UpdateEmployeeParams{
			ID:        id,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			BirthDate: toPgDate(e.BirthDate),
			OfficeID:  e.OfficeID,
		})
		if err != nil {
			if pgutil.IsForeignKeyViolation(err) {
				return office.ErrNotFound
			}
			return mapFindErr("update employee", err)
		}
		updated = toDomain(row)
		return nil
	})
	return updated, err
}

// Delete removes the employee and reports whether a row was removed.
func (s *employeeStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.Delete", withEmployeeID(id), func(ctx context.Context) error {
		n, err := s.q.DeleteEmployee(ctx, id)
		if err != nil {
			return storage.Unavailable("delete employee", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func mapFindErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrNotFound
	}
	return storage.Unavailable(op, err)
}

func toPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

func toDomain(row db.Employee) *employee.Employee {
	y, m, d := row.BirthDate.Time.Date()
	return &employee.Employee{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		BirthDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		OfficeID:  row.OfficeID,
	}
}

func toDomainSlice(rows []db.Employee) []*employee.Employee {
	out := make([]*employee.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}
