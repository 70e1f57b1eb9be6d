package httphandler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
)

// OfficeRequest is the body of POST /offices and PUT /offices/{id}.
type OfficeRequest struct {
	Name         string `json:"name"`
	MaxOccupancy *int32 `json:"max_occupancy" validate:"required"`
}

func (r OfficeRequest) toDomain() office.Office {
	return office.Office{Name: r.Name, MaxOccupancy: *r.MaxOccupancy}
}

// OfficeResponse represents a stored office.
type OfficeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MaxOccupancy int32  `json:"max_occupancy"`
}

func newOfficeResponse(o *office.Office) OfficeResponse {
	return OfficeResponse{ID: o.ID, Name: o.Name, MaxOccupancy: o.MaxOccupancy}
}

// OccupancyResponse reports how full an office is.
type OccupancyResponse struct {
	OfficeID  int64 `json:"office_id"`
	Current   int64 `json:"current"`
	Max       int32 `json:"max_occupancy"`
	Available int64 `json:"available"`
}

// EmployeeRequest is the body of POST /employees and PUT /employees/{id}.
// Names are deliberately unconstrained here; the domain validator owns them.
type EmployeeRequest struct {
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	BirthDate *openapi_types.Date `json:"birth_date" validate:"required"`
	OfficeID  *int64              `json:"office_id" validate:"required"`
}

func (r EmployeeRequest) toDomain() employee.Employee {
	return employee.Employee{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: r.BirthDate.Time,
		OfficeID:  *r.OfficeID,
	}
}

// EmployeeResponse represents a stored employee.
type EmployeeResponse struct {
	ID        int64              `json:"id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	BirthDate openapi_types.Date `json:"birth_date"`
	OfficeID  int64              `json:"office_id"`
}

func newEmployeeResponse(e *employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		BirthDate: openapi_types.Date{Time: e.BirthDate},
		OfficeID:  e.OfficeID,
	}
}

func newEmployeeResponses(es []*employee.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(es))
	for _, e := range es {
		out = append(out, newEmployeeResponse(e))
	}
	return out
}

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
	Current *int64   `json:"current,omitempty"`
	Max     *int64   `json:"max,omitempty"`
}
