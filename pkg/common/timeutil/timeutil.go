// Package timeutil abstracts the wall clock so durations can be asserted
// in tests.
package timeutil

import (
	"sync"
	"time"
)

// Provider reads the current time.
type Provider interface {
	Now() time.Time
	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
}

// RealProvider reads the system clock.
type RealProvider struct{}

// Now returns the current time in UTC.
func (RealProvider) Now() time.Time { return time.Now().UTC() }

// Since returns the time elapsed since t using the monotonic clock.
func (RealProvider) Since(t time.Time) time.Duration { return time.Since(t) }

// Default returns a Provider that uses the system clock.
func Default() Provider { return RealProvider{} }

// Mock is a manually driven clock. When Step is non-zero every call to Now
// advances the clock by Step after reading it, so a timed section measures
// exactly Step. Mock is safe for concurrent use.
type Mock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewMock creates a Mock reading t.
func NewMock(t time.Time) *Mock { return &Mock{now: t} }

// NewSteppingMock creates a Mock starting at t that advances by step on
// every read.
func NewSteppingMock(t time.Time, step time.Duration) *Mock {
	return &Mock{now: t, step: step}
}

// Now returns the mock time.
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now
	m.now = m.now.Add(m.step)
	return now
}

// Since returns the mock time elapsed since t without stepping the clock.
func (m *Mock) Since(t time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now.Sub(t)
}

// Set moves the clock to t.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
