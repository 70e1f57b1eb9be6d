// Package directory holds the consistency coordinator: the only component
// that mutates offices and employees. It validates input, enforces name
// uniqueness and office capacity, and performs each mutation inside a single
// unit of work so concurrent requests cannot break either invariant.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/uow"
	"github.com/ahrav/office-hub/internal/domain/validation"
	"github.com/ahrav/office-hub/pkg/common/logger"
	"github.com/ahrav/office-hub/pkg/common/timeutil"
)

// Coordinator is stateless; every piece of shared state lives in storage.
// It is safe for concurrent use.
type Coordinator struct {
	offices   office.Repository
	employees employee.Repository
	tx        uow.Transactor

	metrics   DirectoryMetrics
	clock     timeutil.Provider
	txTimeout time.Duration
	logger    *logger.Logger
	tracer    trace.Tracer
}

// DefaultTxTimeout bounds a unit of work when no WithTxTimeout is given.
const DefaultTxTimeout = 5 * time.Second

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeProvider overrides the clock used to time units of work.
func WithTimeProvider(p timeutil.Provider) Option {
	return func(c *Coordinator) { c.clock = p }
}

// WithTxTimeout bounds how long a single unit of work, including any wait
// for an office lock, may run. A non-positive d disables the bound and
// leaves only the caller's deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.txTimeout = d }
}

// NewCoordinator creates a Coordinator. offices and employees serve plain
// reads; tx serves every mutation.
func NewCoordinator(
	offices office.Repository,
	employees employee.Repository,
	tx uow.Transactor,
	metrics DirectoryMetrics,
	logger *logger.Logger,
	tracer trace.Tracer,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		offices:   offices,
		employees: employees,
		tx:        tx,
		metrics:   metrics,
		clock:     timeutil.Default(),
		txTimeout: DefaultTxTimeout,
		logger:    logger.With("component", "directory_coordinator"),
		tracer:    tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddOffice validates o and creates it if no office already uses its name.
func (c *Coordinator) AddOffice(ctx context.Context, o office.Office) (*office.Office, error) {
	const op = "add_office"
	ctx, span := c.tracer.Start(ctx, "directory.AddOffice")
	defer span.End()

	o = o.Normalized()
	if err := o.Validate(); err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	var created *office.Office
	err := c.withinTx(ctx, op, func(ctx context.Context, repos uow.Repositories) error {
		if err := ensureNameFree(ctx, repos.Offices, o.Name, 0); err != nil {
			return err
		}
		var err error
		created, err = repos.Offices.Create(ctx, &o)
		return err
	})
	if err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	span.SetAttributes(attribute.Int64("office_id", created.ID))
	c.metrics.IncOfficeCreated(ctx)
	c.logger.Info(ctx, "office created", "office_id", created.ID, "max_occupancy", created.MaxOccupancy)
	return created, nil
}

// UpdateOffice replaces the name and capacity of office id. The new name
// must not belong to another office and the new capacity must still hold
// every current occupant.
func (c *Coordinator) UpdateOffice(ctx context.Context, id int64, o office.Office) (*office.Office, error) {
	const op = "update_office"
	ctx, span := c.tracer.Start(ctx, "directory.UpdateOffice", trace.WithAttributes(attribute.Int64("office_id", id)))
	defer span.End()

	o = o.Normalized()
	if err := o.Validate(); err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	var updated *office.Office
	err := c.withinTx(ctx, op, func(ctx context.Context, repos uow.Repositories) error {
		// A taken name is reported before an unknown id.
		if err := ensureNameFree(ctx, repos.Offices, o.Name, id); err != nil {
			return err
		}
		if _, err := repos.Offices.LockByID(ctx, id); err != nil {
			return err
		}

		current, err := repos.Offices.CountEmployees(ctx, id)
		if err != nil {
			return err
		}
		if !o.Fits(current) {
			return &office.CapacityError{Current: current, Max: int64(o.MaxOccupancy)}
		}

		updated, err = repos.Offices.Update(ctx, id, &o)
		return err
	})
	if err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	c.logger.Info(ctx, "office updated", "office_id", id, "max_occupancy", updated.MaxOccupancy)
	return updated, nil
}

// RemoveOffice deletes office id. It reports false when no such office
// exists and fails with office.ErrHasEmployees while employees remain.
func (c *Coordinator) RemoveOffice(ctx context.Context, id int64) (bool, error) {
	const op = "remove_office"
	ctx, span := c.tracer.Start(ctx, "directory.RemoveOffice", trace.WithAttributes(attribute.Int64("office_id", id)))
	defer span.End()

	var removed bool
	err := c.withinTx(ctx, op, func(ctx context.Context, repos uow.Repositories) error {
		if _, err := repos.Offices.LockByID(ctx, id); err != nil {
			if errors.Is(err, office.ErrNotFound) {
				return nil
			}
			return err
		}

		current, err := repos.Offices.CountEmployees(ctx, id)
		if err != nil {
			return err
		}
		if current > 0 {
			return office.ErrHasEmployees
		}

		removed, err = repos.Offices.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, c.reject(ctx, span, op, err)
	}

	span.SetAttributes(attribute.Bool("removed", removed))
	if removed {
		c.logger.Info(ctx, "office removed", "office_id", id)
	}
	return removed, nil
}

// GetOffice returns office id, or nil when it does not exist.
func (c *Coordinator) GetOffice(ctx context.Context, id int64) (*office.Office, error) {
	ctx, span := c.tracer.Start(ctx, "directory.GetOffice", trace.WithAttributes(attribute.Int64("office_id", id)))
	defer span.End()

	o, err := c.offices.FindByID(ctx, id)
	if errors.Is(err, office.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("failed to get office (%d): %w", id, err))
	}
	return o, nil
}

// ListOffices returns every office ordered by ID.
func (c *Coordinator) ListOffices(ctx context.Context) ([]*office.Office, error) {
	ctx, span := c.tracer.Start(ctx, "directory.ListOffices")
	defer span.End()

	offices, err := c.offices.List(ctx)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("failed to list offices: %w", err))
	}
	return offices, nil
}

// OfficeOccupancy reports how many employees office id holds against its capacity.
func (c *Coordinator) OfficeOccupancy(ctx context.Context, id int64) (office.Occupancy, error) {
	ctx, span := c.tracer.Start(ctx, "directory.OfficeOccupancy", trace.WithAttributes(attribute.Int64("office_id", id)))
	defer span.End()

	o, err := c.offices.FindByID(ctx, id)
	if err != nil {
		return office.Occupancy{}, recordErr(span, err)
	}
	current, err := c.offices.CountEmployees(ctx, id)
	if err != nil {
		return office.Occupancy{}, recordErr(span, fmt.Errorf("failed to count employees (%d): %w", id, err))
	}
	return office.Occupancy{OfficeID: id, Current: current, Max: o.MaxOccupancy}, nil
}

// AddEmployee validates e and assigns it to its office if a seat is free.
// The office row stays locked from the occupant count until commit, so
// concurrent adds to the same office are serialized.
func (c *Coordinator) AddEmployee(ctx context.Context, e employee.Employee) (*employee.Employee, error) {
	const op = "add_employee"
	ctx, span := c.tracer.Start(ctx, "directory.AddEmployee", trace.WithAttributes(attribute.Int64("office_id", e.OfficeID)))
	defer span.End()

	e = e.Normalized()
	if err := e.Validate(); err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	var created *employee.Employee
	err := c.withinTx(ctx, op, func(ctx context.Context, repos uow.Repositories) error {
		if err := ensureRoom(ctx, repos.Offices, e.OfficeID); err != nil {
			return err
		}
		var err error
		created, err = repos.Employees.Create(ctx, &e)
		return err
	})
	if err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	span.SetAttributes(attribute.Int64("employee_id", created.ID))
	c.metrics.IncEmployeeCreated(ctx)
	c.logger.Info(ctx, "employee created",
		"employee_id", created.ID,
		"office_id", created.OfficeID,
		"last_name", created.LastName,
	)
	return created, nil
}

// UpdateEmployee replaces every field of employee id. Moving to another
// office requires a free seat there; staying put never does.
func (c *Coordinator) UpdateEmployee(ctx context.Context, id int64, e employee.Employee) (*employee.Employee, error) {
	const op = "update_employee"
	ctx, span := c.tracer.Start(ctx, "directory.UpdateEmployee", trace.WithAttributes(
		attribute.Int64("employee_id", id),
		attribute.Int64("office_id", e.OfficeID),
	))
	defer span.End()

	e = e.Normalized()
	if err := e.Validate(); err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	var updated *employee.Employee
	err := c.withinTx(ctx, op, func(ctx context.Context, repos uow.Repositories) error {
		// Employee before office, matching AddEmployee's single office lock.
		current, err := repos.Employees.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if e.MovesFrom(*current) {
			if err := ensureRoom(ctx, repos.Offices, e.OfficeID); err != nil {
				return err
			}
		} else if _, err := repos.Offices.LockByID(ctx, e.OfficeID); err != nil {
			return err
		}

		updated, err = repos.Employees.Update(ctx, id, &e)
		return err
	})
	if err != nil {
		return nil, c.reject(ctx, span, op, err)
	}

	c.logger.Info(ctx, "employee updated",
		"employee_id", id,
		"office_id", updated.OfficeID,
		"last_name", updated.LastName,
	)
	return updated, nil
}

// RemoveEmployee deletes employee id and reports whether it existed.
func (c *Coordinator) RemoveEmployee(ctx context.Context, id int64) (bool, error) {
	const op = "remove_employee"
	ctx, span := c.tracer.Start(ctx, "directory.RemoveEmployee", trace.WithAttributes(attribute.Int64("employee_id", id)))
	defer span.End()

	var removed bool
	err := c.withinTx(ctx, op, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		removed, err = repos.Employees.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, c.reject(ctx, span, op, err)
	}

	span.SetAttributes(attribute.Bool("removed", removed))
	if removed {
		c.logger.Info(ctx, "employee removed", "employee_id", id)
	}
	return removed, nil
}

// GetEmployee returns employee id, or nil when it does not exist.
func (c *Coordinator) GetEmployee(ctx context.Context, id int64) (*employee.Employee, error) {
	ctx, span := c.tracer.Start(ctx, "directory.GetEmployee", trace.WithAttributes(attribute.Int64("employee_id", id)))
	defer span.End()

	e, err := c.employees.FindByID(ctx, id)
	if errors.Is(err, employee.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("failed to get employee (%d): %w", id, err))
	}
	return e, nil
}

// ListEmployees returns every employee ordered by ID.
func (c *Coordinator) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	ctx, span := c.tracer.Start(ctx, "directory.ListEmployees")
	defer span.End()

	employees, err := c.employees.List(ctx)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("failed to list employees: %w", err))
	}
	return employees, nil
}

// ListEmployeesByOffice returns the employees of office id. Unlike the
// store, an unknown office is an error here: office.ErrNotFound.
func (c *Coordinator) ListEmployeesByOffice(ctx context.Context, officeID int64) ([]*employee.Employee, error) {
	ctx, span := c.tracer.Start(ctx, "directory.ListEmployeesByOffice", trace.WithAttributes(attribute.Int64("office_id", officeID)))
	defer span.End()

	if _, err := c.offices.FindByID(ctx, officeID); err != nil {
		return nil, recordErr(span, err)
	}

	employees, err := c.employees.ListByOfficeID(ctx, officeID)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("failed to list employees of office (%d): %w", officeID, err))
	}
	return employees, nil
}

// ensureNameFree fails with office.ErrDuplicateName when name belongs to an
// office other than ownerID. Pass ownerID 0 for a new office.
func ensureNameFree(ctx context.Context, offices office.Repository, name string, ownerID int64) error {
	existing, err := offices.FindByName(ctx, name)
	switch {
	case errors.Is(err, office.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return office.ErrDuplicateName
	default:
		return nil
	}
}

// ensureRoom locks office id and fails with a CapacityError when it is full.
func ensureRoom(ctx context.Context, offices office.Repository, id int64) error {
	o, err := offices.LockByID(ctx, id)
	if err != nil {
		return err
	}
	current, err := offices.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if !o.HasRoomFor(current) {
		return &office.CapacityError{Current: current, Max: int64(o.MaxOccupancy)}
	}
	return nil
}

func (c *Coordinator) withinTx(ctx context.Context, op string, fn uow.TxFunc) error {
	if c.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.txTimeout)
		defer cancel()
	}

	start := c.clock.Now()
	err := c.tx.WithinTx(ctx, fn)
	c.metrics.ObserveTransactionDuration(ctx, op, c.clock.Since(start))
	return err
}

// reject records err on the span, counts it, and logs it at a level that
// matches its cause.
func (c *Coordinator) reject(ctx context.Context, span trace.Span, op string, err error) error {
	reason := rejectionReason(err)
	c.metrics.IncRejected(ctx, op, reason)
	span.SetAttributes(attribute.String("rejection_reason", reason))
	recordErr(span, err)

	if reason == reasonStorage {
		c.logger.Error(ctx, "directory operation failed", "operation", op, "error", err)
	} else {
		c.logger.Debug(ctx, "directory operation rejected", "operation", op, "reason", reason)
	}
	return err
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

const (
	reasonDuplicateName  = "duplicate_name"
	reasonAtCapacity     = "at_capacity"
	reasonOfficeNotFound = "office_not_found"
	reasonNotFound       = "employee_not_found"
	reasonHasEmployees   = "has_employees"
	reasonCanceled       = "canceled"
	reasonTimeout        = "timeout"
	reasonStorage        = "storage"
)

func rejectionReason(err error) string {
	if r, ok := validation.ReasonOf(err); ok {
		return r.String()
	}
	switch {
	case errors.Is(err, office.ErrDuplicateName):
		return reasonDuplicateName
	case errors.Is(err, office.ErrAtCapacity):
		return reasonAtCapacity
	case errors.Is(err, office.ErrNotFound):
		return reasonOfficeNotFound
	case errors.Is(err, employee.ErrNotFound):
		return reasonNotFound
	case errors.Is(err, office.ErrHasEmployees):
		return reasonHasEmployees
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, context.Canceled):
		return reasonCanceled
	default:
		return reasonStorage
	}
}
