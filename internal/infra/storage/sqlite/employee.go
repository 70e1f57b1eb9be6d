package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/infra/storage"
)

var _ employee.Repository = (*employeeStore)(nil)

type employeeStore struct {
	q      DBTX
	tracer trace.Tracer
}

// NewEmployeeStore creates an employee.Repository on a database or transaction.
func NewEmployeeStore(q DBTX, tracer trace.Tracer) employee.Repository {
	return &employeeStore{q: q, tracer: tracer}
}

// Birth dates are stored as ISO-8601 calendar dates.
const dateLayout = time.DateOnly

const employeeColumns = `id, first_name, last_name, birth_date, office_id`

func (s *employeeStore) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	var created *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.employeeStore.Create", defaultDBAttributes, func(ctx context.Context) error {
		row := s.q.QueryRowContext(ctx,
			`INSERT INTO employees (first_name, last_name, birth_date, office_id) VALUES (?, ?, ?, ?) RETURNING `+employeeColumns,
			e.FirstName, e.LastName, e.BirthDate.Format(dateLayout), e.OfficeID)
		var err error
		created, err = scanEmployee(row)
		if err != nil {
			if isForeignKeyViolation(err) {
				return office.ErrNotFound
			}
			return storage.Unavailable("create employee", err)
		}
		return nil
	})
	return created, err
}

func (s *employeeStore) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	return s.findOne(ctx, "sqlite.employeeStore.FindByID", id)
}

// LockByID is a plain read; see officeStore.LockByID.
func (s *employeeStore) LockByID(ctx context.Context, id int64) (*employee.Employee, error) {
	return s.findOne(ctx, "sqlite.employeeStore.LockByID", id)
}

func (s *employeeStore) findOne(ctx context.Context, span string, id int64) (*employee.Employee, error) {
	var found *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, span, defaultDBAttributes, func(ctx context.Context) error {
		var err error
		found, err = scanEmployee(s.q.QueryRowContext(ctx,
			`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return employee.ErrNotFound
			}
			return storage.Unavailable("find employee", err)
		}
		return nil
	})
	return found, err
}

func (s *employeeStore) List(ctx context.Context) ([]*employee.Employee, error) {
	return s.list(ctx, "sqlite.employeeStore.List",
		`SELECT `+employeeColumns+` FROM employees ORDER BY id`)
}

func (s *employeeStore) ListByOfficeID(ctx context.Context, officeID int64) ([]*employee.Employee, error) {
	return s.list(ctx, "sqlite.employeeStore.ListByOfficeID",
		`SELECT `+employeeColumns+` FROM employees WHERE office_id = ? ORDER BY id`, officeID)
}

func (s *employeeStore) list(ctx context.Context, span, query string, args ...any) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, span, defaultDBAttributes, func(ctx context.Context) error {
		rows, err := s.q.QueryContext(ctx, query, args...)
		if err != nil {
			return storage.Unavailable("list employees", err)
		}
		defer func() { _ = rows.Close() }()

		employees = []*employee.Employee{}
		for rows.Next() {
			e, err := scanEmployee(rows)
			if err != nil {
				return storage.Unavailable("scan employee", err)
			}
			employees = append(employees, e)
		}
		return storage.Unavailable("list employees", rows.Err())
	})
	return employees, err
}

func (s *employeeStore) Update(ctx context.Context, id int64, e *employee.Employee) (*employee.Employee, error) {
	var updated *employee.Employee
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.employeeStore.Update", defaultDBAttributes, func(ctx context.Context) error {
		row := s.q.QueryRowContext(ctx,
			`UPDATE employees SET first_name = ?, last_name = ?, birth_date = ?, office_id = ? WHERE id = ? RETURNING `+employeeColumns,
			e.FirstName, e.LastName, e.BirthDate.Format(dateLayout), e.OfficeID, id)
		var err error
		updated, err = scanEmployee(row)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, sql.ErrNoRows):
			return employee.ErrNotFound
		case isForeignKeyViolation(err):
			return office.ErrNotFound
		default:
			return storage.Unavailable("update employee", err)
		}
	})
	return updated, err
}

func (s *employeeStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.employeeStore.Delete", defaultDBAttributes, func(ctx context.Context) error {
		res, err := s.q.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
		if err != nil {
			return storage.Unavailable("delete employee", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storage.Unavailable("delete employee", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func scanEmployee(row scanner) (*employee.Employee, error) {
	var (
		e     employee.Employee
		birth string
	)
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &birth, &e.OfficeID); err != nil {
		return nil, err
	}
	t, err := time.Parse(dateLayout, birth)
	if err != nil {
		return nil, fmt.Errorf("parse birth_date %q: %w", birth, err)
	}
	e.BirthDate = t
	return &e, nil
}
