package employee

import "context"

// Repository defines the interface for employee data access operations.
// This interface abstracts the underlying storage mechanism to allow
// for different implementations (PostgreSQL, SQLite, etc.).
type Repository interface {
	// Create persists a new employee and returns it with its assigned ID.
	Create(ctx context.Context, e *Employee) (*Employee, error)

	// FindByID retrieves an employee by its unique identifier.
	// Returns ErrNotFound if the employee doesn't exist.
	FindByID(ctx context.Context, id int64) (*Employee, error)

	// LockByID retrieves the employee and holds an exclusive lock on it
	// until the enclosing transaction ends.
	// Returns ErrNotFound if the employee doesn't exist.
	LockByID(ctx context.Context, id int64) (*Employee, error)

	// List returns every employee ordered by ID.
	List(ctx context.Context) ([]*Employee, error)

	// ListByOfficeID returns the employees assigned to the given office.
	// An unknown office yields an empty list, not an error.
	ListByOfficeID(ctx context.Context, officeID int64) ([]*Employee, error)

	// Update replaces every field of the employee with the given ID.
	// Returns ErrNotFound if the employee doesn't exist.
	Update(ctx context.Context, id int64, e *Employee) (*Employee, error)

	// Delete removes the employee and reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
