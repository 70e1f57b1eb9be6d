// Package validation holds the structural validation contract shared by the
// directory's entities. Validation is pure: it never touches storage and
// reports exactly one reason per rejected entity.
package validation

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel every validation failure unwraps to.
var ErrValidation = errors.New("validation failed")

// Reason identifies why an entity was rejected.
type Reason string

// Predefined rejection reasons.
const (
	ReasonInvalidCapacity        Reason = "invalid_capacity"
	ReasonEmptyName              Reason = "empty_name"
	ReasonNameContainsWhitespace Reason = "name_contains_whitespace"
	ReasonBirthDateTooEarly      Reason = "birth_date_too_early"
	ReasonBirthDateTooLate       Reason = "birth_date_too_late"
)

// String returns the string representation of the reason.
func (r Reason) String() string { return string(r) }

// Error represents a single structural validation failure.
// It names the offending field and the reason it was rejected.
type Error struct {
	Field  string
	Reason Reason
}

// New creates a validation Error for the given field and reason.
func New(field string, reason Reason) *Error {
	return &Error{Field: field, Reason: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Reason)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrValidation).
func (e *Error) Unwrap() error { return ErrValidation }

// Validatable is implemented by every entity the directory persists.
type Validatable interface {
	Validate() error
}

// ReasonOf extracts the rejection reason from err, if err carries one.
func ReasonOf(err error) (Reason, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Reason, true
	}
	return "", false
}
