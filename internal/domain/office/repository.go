package office

import "context"

// Repository defines the interface for office data access operations.
// Implementations may be bound to a connection pool or to a single
// transaction; the contract is the same for both.
type Repository interface {
	// Create persists a new office and returns it with its assigned ID.
	// Returns ErrDuplicateName if the name is already taken.
	Create(ctx context.Context, o *Office) (*Office, error)

	// FindByID retrieves an office by its unique identifier.
	// Returns ErrNotFound if the office doesn't exist.
	FindByID(ctx context.Context, id int64) (*Office, error)

	// FindByName retrieves an office by its exact name.
	// Returns ErrNotFound if the office doesn't exist.
	FindByName(ctx context.Context, name string) (*Office, error)

	// List returns every office ordered by ID.
	List(ctx context.Context) ([]*Office, error)

	// Update replaces the name and capacity of the office with the given ID.
	// Returns ErrNotFound if the office doesn't exist and ErrDuplicateName
	// if the new name belongs to another office.
	Update(ctx context.Context, id int64, o *Office) (*Office, error)

	// Delete removes the office and reports whether a row was removed.
	// Returns ErrHasEmployees if employees still reference it.
	Delete(ctx context.Context, id int64) (bool, error)

	// CountEmployees returns the number of employees currently assigned to
	// the office, as committed at call time.
	CountEmployees(ctx context.Context, officeID int64) (int64, error)

	// LockByID retrieves the office and holds an exclusive lock on it until
	// the enclosing transaction ends. This is the serialization point for
	// every change to the office's occupant set.
	// Returns ErrNotFound if the office doesn't exist.
	LockByID(ctx context.Context, id int64) (*Office, error)
}
