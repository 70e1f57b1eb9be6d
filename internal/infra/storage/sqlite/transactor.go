package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/domain/uow"
	"github.com/ahrav/office-hub/internal/infra/storage"
)

var _ uow.Transactor = (*Transactor)(nil)

// Transactor implements uow.Transactor on a SQLite database opened by Open.
// Transactions start with BEGIN IMMEDIATE, so at most one unit of work
// writes at a time and others wait up to the busy timeout.
type Transactor struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewTransactor creates a Transactor on db.
func NewTransactor(db *sql.DB, tracer trace.Tracer) *Transactor {
	return &Transactor{db: db, tracer: tracer}
}

// WithinTx runs fn in a transaction and commits only if fn succeeds.
func (t *Transactor) WithinTx(ctx context.Context, fn uow.TxFunc) (err error) {
	ctx, span := t.tracer.Start(ctx, "sqlite.WithinTx",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "sqlite")),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable("begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	repos := uow.Repositories{
		Offices:   NewOfficeStore(tx, t.tracer),
		Employees: NewEmployeeStore(tx, t.tracer),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storage.Unavailable("commit transaction", err)
	}
	return nil
}
