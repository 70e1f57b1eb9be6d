// Package postgres runs directory units of work inside PostgreSQL
// transactions.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/office-hub/internal/domain/uow"
	"github.com/ahrav/office-hub/internal/infra/storage"
	employeepg "github.com/ahrav/office-hub/internal/infra/storage/employee/postgres"
	officepg "github.com/ahrav/office-hub/internal/infra/storage/office/postgres"
)

var _ uow.Transactor = (*Transactor)(nil)

// Transactor implements uow.Transactor on a pgx pool. Each call to WithinTx
// opens one READ COMMITTED transaction and binds fresh stores to it.
type Transactor struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

// NewTransactor creates a Transactor on the given pool.
func NewTransactor(pool *pgxpool.Pool, tracer trace.Tracer) *Transactor {
	return &Transactor{pool: pool, tracer: tracer}
}

// WithinTx runs fn in a transaction. Row locks taken inside fn are held
// until commit or rollback.
func (t *Transactor) WithinTx(ctx context.Context, fn uow.TxFunc) (err error) {
	ctx, span := t.tracer.Start(ctx, "postgres.WithinTx",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.isolation_level", "read_committed"),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return storage.Unavailable("begin transaction", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	repos := uow.Repositories{
		Offices:   officepg.NewOfficeStore(tx, t.tracer),
		Employees: employeepg.NewEmployeeStore(tx, t.tracer),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.Unavailable("commit transaction", err)
	}
	return nil
}
