package httphandler

import (
	"fmt"
	"net/http"
)

// EmployeeHandler serves the /employees resource.
type EmployeeHandler struct {
	dir      Directory
	validate *requestValidator
}

// NewEmployeeHandler creates an EmployeeHandler backed by dir.
func NewEmployeeHandler(dir Directory) *EmployeeHandler {
	return &EmployeeHandler{dir: dir, validate: newRequestValidator()}
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.validate.decodeBody(w, r, &req) {
		return
	}

	e, err := h.dir.AddEmployee(r.Context(), req.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEmployeeResponse(e))
}

// List handles GET /employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	es, err := h.dir.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeResponses(es))
}

// Get handles GET /employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	e, err := h.dir.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if e == nil {
		employeeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeResponse(e))
}

// Update handles PUT /employees/{id}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	var req EmployeeRequest
	if !h.validate.decodeBody(w, r, &req) {
		return
	}

	e, err := h.dir.UpdateEmployee(r.Context(), id, req.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeResponse(e))
}

// Delete handles DELETE /employees/{id}.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	removed, err := h.dir.RemoveEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !removed {
		employeeNotFound(w, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func employeeNotFound(w http.ResponseWriter, id int64) {
	writeError(w, http.StatusNotFound, ErrorResponse{
		Error:   "employee_not_found",
		Message: fmt.Sprintf("employee %d not found", id),
	})
}
