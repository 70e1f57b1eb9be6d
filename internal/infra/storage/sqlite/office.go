package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/validation"
	"github.com/ahrav/office-hub/internal/infra/storage"
)

var _ office.Repository = (*officeStore)(nil)

type officeStore struct {
	q      DBTX
	tracer trace.Tracer
}

var defaultDBAttributes = []attribute.KeyValue{attribute.String("db.system", "sqlite")}

// NewOfficeStore creates an office.Repository on a database or transaction.
func NewOfficeStore(q DBTX, tracer trace.Tracer) office.Repository {
	return &officeStore{q: q, tracer: tracer}
}

const officeColumns = `id, name, max_occupancy`

// errInvalidCapacity reports a row rejected by the max_occupancy CHECK, the
// table's only one.
var errInvalidCapacity = validation.New("max_occupancy", validation.ReasonInvalidCapacity)

func (s *officeStore) Create(ctx context.Context, o *office.Office) (*office.Office, error) {
	var created *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.officeStore.Create", defaultDBAttributes, func(ctx context.Context) error {
		row := s.q.QueryRowContext(ctx,
			`INSERT INTO offices (name, max_occupancy) VALUES (?, ?) RETURNING `+officeColumns,
			o.Name, o.MaxOccupancy)
		var err error
		created, err = scanOffice(row)
		if err != nil {
			if isUniqueViolation(err) {
				return office.ErrDuplicateName
			}
			if isCheckViolation(err) {
				return errInvalidCapacity
			}
			return storage.Unavailable("create office", err)
		}
		return nil
	})
	return created, err
}

func (s *officeStore) FindByID(ctx context.Context, id int64) (*office.Office, error) {
	return s.findOne(ctx, "sqlite.officeStore.FindByID",
		`SELECT `+officeColumns+` FROM offices WHERE id = ?`, id)
}

func (s *officeStore) FindByName(ctx context.Context, name string) (*office.Office, error) {
	return s.findOne(ctx, "sqlite.officeStore.FindByName",
		`SELECT `+officeColumns+` FROM offices WHERE name = ?`, name)
}

// LockByID is a plain read. The enclosing BEGIN IMMEDIATE transaction
// already holds the database write lock.
func (s *officeStore) LockByID(ctx context.Context, id int64) (*office.Office, error) {
	return s.findOne(ctx, "sqlite.officeStore.LockByID",
		`SELECT `+officeColumns+` FROM offices WHERE id = ?`, id)
}

func (s *officeStore) findOne(ctx context.Context, span, query string, arg any) (*office.Office, error) {
	var found *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, span, defaultDBAttributes, func(ctx context.Context) error {
		var err error
		found, err = scanOffice(s.q.QueryRowContext(ctx, query, arg))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return office.ErrNotFound
			}
			return storage.Unavailable("find office", err)
		}
		return nil
	})
	return found, err
}

func (s *officeStore) List(ctx context.Context) ([]*office.Office, error) {
	var offices []*office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.officeStore.List", defaultDBAttributes, func(ctx context.Context) error {
		rows, err := s.q.QueryContext(ctx, `SELECT `+officeColumns+` FROM offices ORDER BY id`)
		if err != nil {
			return storage.Unavailable("list offices", err)
		}
		defer func() { _ = rows.Close() }()

		offices = []*office.Office{}
		for rows.Next() {
			o, err := scanOffice(rows)
			if err != nil {
				return storage.Unavailable("scan office", err)
			}
			offices = append(offices, o)
		}
		return storage.Unavailable("list offices", rows.Err())
	})
	return offices, err
}

func (s *officeStore) Update(ctx context.Context, id int64, o *office.Office) (*office.Office, error) {
	var updated *office.Office
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.officeStore.Update", defaultDBAttributes, func(ctx context.Context) error {
		row := s.q.QueryRowContext(ctx,
			`UPDATE offices SET name = ?, max_occupancy = ? WHERE id = ? RETURNING `+officeColumns,
			o.Name, o.MaxOccupancy, id)
		var err error
		updated, err = scanOffice(row)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, sql.ErrNoRows):
			return office.ErrNotFound
		case isUniqueViolation(err):
			return office.ErrDuplicateName
		case isCheckViolation(err):
			return errInvalidCapacity
		default:
			return storage.Unavailable("update office", err)
		}
	})
	return updated, err
}

func (s *officeStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.officeStore.Delete", defaultDBAttributes, func(ctx context.Context) error {
		res, err := s.q.ExecContext(ctx, `DELETE FROM offices WHERE id = ?`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return office.ErrHasEmployees
			}
			return storage.Unavailable("delete office", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storage.Unavailable("delete office", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func (s *officeStore) CountEmployees(ctx context.Context, officeID int64) (int64, error) {
	var count int64
	err := storage.ExecuteAndTrace(ctx, s.tracer, "sqlite.officeStore.CountEmployees", defaultDBAttributes, func(ctx context.Context) error {
		err := s.q.QueryRowContext(ctx, `SELECT count(*) FROM employees WHERE office_id = ?`, officeID).Scan(&count)
		return storage.Unavailable("count employees", err)
	})
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOffice(row scanner) (*office.Office, error) {
	var o office.Office
	if err := row.Scan(&o.ID, &o.Name, &o.MaxOccupancy); err != nil {
		return nil, err
	}
	return &o, nil
}
