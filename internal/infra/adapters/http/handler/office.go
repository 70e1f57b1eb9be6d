package httphandler

import (
	"fmt"
	"net/http"
)

// OfficeHandler serves the /offices resource.
type OfficeHandler struct {
	dir      Directory
	validate *requestValidator
}

// NewOfficeHandler creates an OfficeHandler backed by dir.
func NewOfficeHandler(dir Directory) *OfficeHandler {
	return &OfficeHandler{dir: dir, validate: newRequestValidator()}
}

// Create handles POST /offices.
func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OfficeRequest
	if !h.validate.decodeBody(w, r, &req) {
		return
	}

	o, err := h.dir.AddOffice(r.Context(), req.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOfficeResponse(o))
}

// List handles GET /offices.
func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.dir.ListOffices(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]OfficeResponse, 0, len(offices))
	for _, o := range offices {
		out = append(out, newOfficeResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /offices/{id}.
func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	o, err := h.dir.GetOffice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if o == nil {
		officeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, newOfficeResponse(o))
}

// Update handles PUT /offices/{id}.
func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	var req OfficeRequest
	if !h.validate.decodeBody(w, r, &req) {
		return
	}

	o, err := h.dir.UpdateOffice(r.Context(), id, req.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOfficeResponse(o))
}

// Delete handles DELETE /offices/{id}.
func (h *OfficeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	removed, err := h.dir.RemoveOffice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !removed {
		officeNotFound(w, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Employees handles GET /offices/{id}/employees.
func (h *OfficeHandler) Employees(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	es, err := h.dir.ListEmployeesByOffice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeResponses(es))
}

// Occupancy handles GET /offices/{id}/occupancy.
func (h *OfficeHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badPathID(w, err)
		return
	}

	occ, err := h.dir.OfficeOccupancy(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OccupancyResponse{
		OfficeID:  id,
		Current:   occ.Current,
		Max:       occ.Max,
		Available: occ.Available(),
	})
}

func officeNotFound(w http.ResponseWriter, id int64) {
	writeError(w, http.StatusNotFound, ErrorResponse{
		Error:   "office_not_found",
		Message: fmt.Sprintf("office %d not found", id),
	})
}
