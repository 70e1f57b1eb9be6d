// Package http wires the directory's HTTP handlers onto a chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	handler "github.com/ahrav/office-hub/internal/infra/adapters/http/handler"
)

// ServerAdapter groups the resource handlers the API exposes.
type ServerAdapter struct {
	officeHandler   *handler.OfficeHandler
	employeeHandler *handler.EmployeeHandler
}

// NewServerAdapter creates a ServerAdapter whose handlers all drive dir.
func NewServerAdapter(dir handler.Directory) *ServerAdapter {
	return &ServerAdapter{
		officeHandler:   handler.NewOfficeHandler(dir),
		employeeHandler: handler.NewEmployeeHandler(dir),
	}
}

// NewHTTPServer returns the API routes. Route patterns double as metric
// labels, so ids never leak into label values.
func NewHTTPServer(a *ServerAdapter) http.Handler {
	r := chi.NewRouter()

	r.Route("/offices", func(r chi.Router) {
		r.Get("/", a.officeHandler.List)
		r.Post("/", a.officeHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.officeHandler.Get)
			r.Put("/", a.officeHandler.Update)
			r.Delete("/", a.officeHandler.Delete)
			r.Get("/employees", a.officeHandler.Employees)
			r.Get("/occupancy", a.officeHandler.Occupancy)
		})
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", a.employeeHandler.List)
		r.Post("/", a.employeeHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.employeeHandler.Get)
			r.Put("/", a.employeeHandler.Update)
			r.Delete("/", a.employeeHandler.Delete)
		})
	})

	return r
}
