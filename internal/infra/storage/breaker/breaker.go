// Package breaker guards a uow.Transactor with a circuit breaker so a failing
// database is not hammered by every request.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ahrav/office-hub/internal/domain/uow"
	"github.com/ahrav/office-hub/internal/infra/storage"
	"github.com/ahrav/office-hub/pkg/common/logger"
)

// Config tunes the breaker.
type Config struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
	// HalfOpenLimit is the number of trial units of work allowed while half-open.
	HalfOpenLimit uint32
}

var _ uow.Transactor = (*Transactor)(nil)

// Transactor decorates a uow.Transactor. Only storage.ErrUnavailable counts
// as a failure; business rejections such as a full office pass through
// without tripping the breaker.
type Transactor struct {
	next uow.Transactor
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// New wraps next with a circuit breaker configured by cfg.
func New(next uow.Transactor, cfg Config, log *logger.Logger) *Transactor {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenLimit,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, storage.ErrUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return &Transactor{next: next, cb: cb}
}

// WithinTx runs fn through the wrapped transactor unless the breaker is open.
func (t *Transactor) WithinTx(ctx context.Context, fn uow.TxFunc) error {
	_, err := t.cb.Execute(func() (struct{}, error) {
		return struct{}{}, t.next.WithinTx(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return err
}

// State reports the breaker state for readiness checks.
func (t *Transactor) State() gobreaker.State { return t.cb.State() }

// Check returns nil while the breaker is closed.
func (t *Transactor) Check(context.Context) error {
	if s := t.cb.State(); s != gobreaker.StateClosed {
		return fmt.Errorf("%w: circuit breaker %s", storage.ErrUnavailable, s)
	}
	return nil
}
