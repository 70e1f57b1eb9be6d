package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}

// pathID binds the {name} path parameter as an int64.
func pathID(r *http.Request, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	return id, err
}

// decodeBody reads a JSON body into dst and checks its shape. It writes the
// 400 response itself and reports false when the request is unusable.
func (v *requestValidator) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: fmt.Sprintf("malformed JSON body: %v", err),
		})
		return false
	}
	if details := v.check(dst); len(details) > 0 {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body failed validation",
			Details: details,
		})
		return false
	}
	return true
}

func badPathID(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}

// writeDomainError maps coordinator errors to HTTP. Anything it does not
// recognise is an infrastructure failure and its cause is not echoed.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   verr.Reason.String(),
			Message: verr.Error(),
			Field:   verr.Field,
		})
		return
	}

	var capErr *office.CapacityError
	if errors.As(err, &capErr) {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "office_at_capacity",
			Message: capErr.Error(),
			Current: &capErr.Current,
			Max:     &capErr.Max,
		})
		return
	}

	switch {
	case errors.Is(err, office.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "duplicate_name", Message: err.Error()})
	case errors.Is(err, office.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "office_not_found", Message: err.Error()})
	case errors.Is(err, employee.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "employee_not_found", Message: err.Error()})
	case errors.Is(err, office.ErrHasEmployees):
		writeError(w, http.StatusConflict, ErrorResponse{Error: "office_has_employees", Message: err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "an internal error occurred",
		})
	}
}
