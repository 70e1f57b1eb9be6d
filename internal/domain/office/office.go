package office

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahrav/office-hub/internal/domain/validation"
)

// Common errors
var (
	ErrNotFound      = errors.New("office not found")
	ErrDuplicateName = errors.New("office name already exists")
	ErrAtCapacity    = errors.New("office at capacity")
	ErrHasEmployees  = errors.New("office still has employees")
)

// CapacityError reports an occupancy limit that would be exceeded.
// It unwraps to ErrAtCapacity.
type CapacityError struct {
	Current int64
	Max     int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("office at capacity (%d/%d)", e.Current, e.Max)
}

func (e *CapacityError) Unwrap() error { return ErrAtCapacity }

// Office is a physical location employees are assigned to.
type Office struct {
	ID           int64
	Name         string
	MaxOccupancy int32
}

var _ validation.Validatable = Office{}

// New creates a new office with a trimmed name and validates it.
func New(name string, maxOccupancy int32) (*Office, error) {
	o := Office{Name: name, MaxOccupancy: maxOccupancy}.Normalized()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Normalized returns a copy of the office with its name trimmed.
// Names are compared and stored in this form.
func (o Office) Normalized() Office {
	o.Name = strings.TrimSpace(o.Name)
	return o
}

// Validate checks the office's structural rules.
// Capacity is checked before the name.
func (o Office) Validate() error {
	if o.MaxOccupancy <= 0 {
		return validation.New("max_occupancy", validation.ReasonInvalidCapacity)
	}
	if strings.TrimSpace(o.Name) == "" {
		return validation.New("name", validation.ReasonEmptyName)
	}
	return nil
}

// HasRoomFor reports whether one more employee fits given the current occupant count.
func (o Office) HasRoomFor(current int64) bool { return current < int64(o.MaxOccupancy) }

// Fits reports whether the given occupant count is within capacity.
func (o Office) Fits(current int64) bool { return current <= int64(o.MaxOccupancy) }

// Occupancy is a point-in-time view of how full an office is.
type Occupancy struct {
	OfficeID int64
	Current  int64
	Max      int32
}

// Available returns the number of free seats.
func (o Occupancy) Available() int64 {
	if free := int64(o.Max) - o.Current; free > 0 {
		return free
	}
	return 0
}
