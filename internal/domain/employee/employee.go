package employee

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/ahrav/office-hub/internal/domain/validation"
)

// Common errors
var ErrNotFound = errors.New("employee not found")

// Accepted birth years, both inclusive.
const (
	EarliestBirthYear = 1920
	LatestBirthYear   = 2007
)

// Employee is a person assigned to exactly one office.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	BirthDate time.Time
	OfficeID  int64
}

var _ validation.Validatable = Employee{}

// New creates a new employee with trimmed names and validates it.
func New(firstName, lastName string, birthDate time.Time, officeID int64) (*Employee, error) {
	e := Employee{
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		OfficeID:  officeID,
	}.Normalized()
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Normalized returns a copy with surrounding whitespace trimmed from the
// names and the birth date truncated to a UTC calendar date.
func (e Employee) Normalized() Employee {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	y, m, d := e.BirthDate.Date()
	e.BirthDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return e
}

// Validate checks the employee's structural rules in a fixed order and
// returns the first failure.
func (e Employee) Validate() error {
	if strings.TrimSpace(e.FirstName) == "" {
		return validation.New("first_name", validation.ReasonEmptyName)
	}
	if strings.TrimSpace(e.LastName) == "" {
		return validation.New("last_name", validation.ReasonEmptyName)
	}
	if strings.IndexFunc(e.LastName, unicode.IsSpace) >= 0 {
		return validation.New("last_name", validation.ReasonNameContainsWhitespace)
	}

	year := e.BirthDate.Year()
	if year < EarliestBirthYear {
		return validation.New("birth_date", validation.ReasonBirthDateTooEarly)
	}
	if year > LatestBirthYear {
		return validation.New("birth_date", validation.ReasonBirthDateTooLate)
	}
	return nil
}

// MovesFrom reports whether saving e would reassign the employee away from
// the office currently recorded in prev.
func (e Employee) MovesFrom(prev Employee) bool { return e.OfficeID != prev.OfficeID }
