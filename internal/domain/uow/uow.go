// Package uow defines the unit-of-work contract the directory uses to make
// multi-step reads and writes atomic.
package uow

import (
	"context"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
)

// Repositories groups the stores bound to one unit of work.
type Repositories struct {
	Offices   office.Repository
	Employees employee.Repository
}

// TxFunc is the body of a unit of work. Every repository call it makes
// through repos participates in the same transaction.
type TxFunc func(ctx context.Context, repos Repositories) error

// Transactor runs a TxFunc inside a single storage transaction with at least
// read-committed isolation. The transaction commits only when fn returns nil;
// any error, panic, or context cancellation rolls it back so partial writes
// are never observable.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
