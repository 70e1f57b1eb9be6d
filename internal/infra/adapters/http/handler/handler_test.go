package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
	"github.com/ahrav/office-hub/internal/domain/validation"
	httphandler "github.com/ahrav/office-hub/internal/infra/adapters/http/handler"
)

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) AddOffice(ctx context.Context, o office.Office) (*office.Office, error) {
	args := m.Called(ctx, o)
	res, _ := args.Get(0).(*office.Office)
	return res, args.Error(1)
}

func (m *MockDirectory) UpdateOffice(ctx context.Context, id int64, o office.Office) (*office.Office, error) {
	args := m.Called(ctx, id, o)
	res, _ := args.Get(0).(*office.Office)
	return res, args.Error(1)
}

func (m *MockDirectory) RemoveOffice(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectory) GetOffice(ctx context.Context, id int64) (*office.Office, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*office.Office)
	return res, args.Error(1)
}

func (m *MockDirectory) ListOffices(ctx context.Context) ([]*office.Office, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*office.Office)
	return res, args.Error(1)
}

func (m *MockDirectory) OfficeOccupancy(ctx context.Context, id int64) (office.Occupancy, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(office.Occupancy)
	return res, args.Error(1)
}

func (m *MockDirectory) AddEmployee(ctx context.Context, e employee.Employee) (*employee.Employee, error) {
	args := m.Called(ctx, e)
	res, _ := args.Get(0).(*employee.Employee)
	return res, args.Error(1)
}

func (m *MockDirectory) UpdateEmployee(ctx context.Context, id int64, e employee.Employee) (*employee.Employee, error) {
	args := m.Called(ctx, id, e)
	res, _ := args.Get(0).(*employee.Employee)
	return res, args.Error(1)
}

func (m *MockDirectory) RemoveEmployee(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectory) GetEmployee(ctx context.Context, id int64) (*employee.Employee, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*employee.Employee)
	return res, args.Error(1)
}

func (m *MockDirectory) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*employee.Employee)
	return res, args.Error(1)
}

func (m *MockDirectory) ListEmployeesByOffice(ctx context.Context, officeID int64) ([]*employee.Employee, error) {
	args := m.Called(ctx, officeID)
	res, _ := args.Get(0).([]*employee.Employee)
	return res, args.Error(1)
}

func newRouter(dir httphandler.Directory) http.Handler {
	oh := httphandler.NewOfficeHandler(dir)
	eh := httphandler.NewEmployeeHandler(dir)

	r := chi.NewRouter()
	r.Post("/offices", oh.Create)
	r.Get("/offices", oh.List)
	r.Get("/offices/{id}", oh.Get)
	r.Put("/offices/{id}", oh.Update)
	r.Delete("/offices/{id}", oh.Delete)
	r.Get("/offices/{id}/employees", oh.Employees)
	r.Get("/offices/{id}/occupancy", oh.Occupancy)
	r.Post("/employees", eh.Create)
	r.Get("/employees", eh.List)
	r.Get("/employees/{id}", eh.Get)
	r.Put("/employees/{id}", eh.Update)
	r.Delete("/employees/{id}", eh.Delete)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httphandler.ErrorResponse {
	t.Helper()
	var body httphandler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateOffice(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("AddOffice", mock.Anything, office.Office{Name: "Aalborg", MaxOccupancy: 3}).
		Return(&office.Office{ID: 1, Name: "Aalborg", MaxOccupancy: 3}, nil)

	rec := do(t, newRouter(dir), http.MethodPost, "/offices", `{"name":"Aalborg","max_occupancy":3}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got httphandler.OfficeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, httphandler.OfficeResponse{ID: 1, Name: "Aalborg", MaxOccupancy: 3}, got)
	dir.AssertExpectations(t)
}

func TestCreateOffice_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing capacity", `{"name":"Aalborg"}`},
		{"wrong type", `{"name":"Aalborg","max_occupancy":"three"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := new(MockDirectory)
			rec := do(t, newRouter(dir), http.MethodPost, "/offices", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
			dir.AssertNotCalled(t, "AddOffice", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOffice_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid capacity", validation.New("max_occupancy", validation.ReasonInvalidCapacity), http.StatusBadRequest, "invalid_capacity"},
		{"duplicate name", fmt.Errorf("add office: %w", office.ErrDuplicateName), http.StatusBadRequest, "duplicate_name"},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := new(MockDirectory)
			dir.On("AddOffice", mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := do(t, newRouter(dir), http.MethodPost, "/offices", `{"name":"Aalborg","max_occupancy":0}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, body.Error)
			assert.NotContains(t, body.Message, "connection refused")
		})
	}
}

func TestGetOffice(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("GetOffice", mock.Anything, int64(7)).Return(&office.Office{ID: 7, Name: "Aalborg", MaxOccupancy: 2}, nil)
	dir.On("GetOffice", mock.Anything, int64(8)).Return(nil, nil)
	h := newRouter(dir)

	rec := do(t, h, http.MethodGet, "/offices/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"name":"Aalborg","max_occupancy":2}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/offices/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "office_not_found", decodeError(t, rec).Error)

	rec = do(t, h, http.MethodGet, "/offices/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOffices_EmptyIsArray(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ListOffices", mock.Anything).Return(nil, nil)

	rec := do(t, newRouter(dir), http.MethodGet, "/offices", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateOffice_Shrink(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("UpdateOffice", mock.Anything, int64(3), office.Office{Name: "Aalborg", MaxOccupancy: 1}).
		Return(nil, &office.CapacityError{Current: 2, Max: 1})

	rec := do(t, newRouter(dir), http.MethodPut, "/offices/3", `{"name":"Aalborg","max_occupancy":1}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "office_at_capacity", body.Error)
	require.NotNil(t, body.Current)
	require.NotNil(t, body.Max)
	assert.Equal(t, int64(2), *body.Current)
	assert.Equal(t, int64(1), *body.Max)
}

func TestDeleteOffice(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("RemoveOffice", mock.Anything, int64(1)).Return(true, nil)
	dir.On("RemoveOffice", mock.Anything, int64(2)).Return(false, nil)
	dir.On("RemoveOffice", mock.Anything, int64(3)).Return(false, office.ErrHasEmployees)
	h := newRouter(dir)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/offices/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/offices/2", "").Code)

	rec := do(t, h, http.MethodDelete, "/offices/3", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "office_has_employees", decodeError(t, rec).Error)
}

func TestOfficeOccupancy(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("OfficeOccupancy", mock.Anything, int64(4)).Return(office.Occupancy{OfficeID: 4, Current: 1, Max: 3}, nil)
	dir.On("OfficeOccupancy", mock.Anything, int64(5)).Return(office.Occupancy{}, office.ErrNotFound)
	h := newRouter(dir)

	rec := do(t, h, http.MethodGet, "/offices/4/occupancy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"office_id":4,"current":1,"max_occupancy":3,"available":2}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/offices/5/occupancy", "").Code)
}

func TestOfficeEmployees(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ListEmployeesByOffice", mock.Anything, int64(4)).Return([]*employee.Employee{
		{ID: 9, FirstName: "Kristoffer", LastName: "Første", BirthDate: time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC), OfficeID: 4},
	}, nil)

	rec := do(t, newRouter(dir), http.MethodGet, "/offices/4/employees", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"id":9,"first_name":"Kristoffer","last_name":"Første","birth_date":"1950-01-01","office_id":4}]`,
		rec.Body.String())
}

func TestCreateEmployee(t *testing.T) {
	want := employee.Employee{
		FirstName: "Kristoffer",
		LastName:  "Første",
		BirthDate: time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC),
		OfficeID:  1,
	}
	created := want
	created.ID = 12

	dir := new(MockDirectory)
	dir.On("AddEmployee", mock.Anything, want).Return(&created, nil)

	rec := do(t, newRouter(dir), http.MethodPost, "/employees",
		`{"first_name":"Kristoffer","last_name":"Første","birth_date":"1950-01-01","office_id":1}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t,
		`{"id":12,"first_name":"Kristoffer","last_name":"Første","birth_date":"1950-01-01","office_id":1}`,
		rec.Body.String())
	dir.AssertExpectations(t)
}

func TestCreateEmployee_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing office", `{"first_name":"A","last_name":"B","birth_date":"1950-01-01"}`},
		{"missing birth date", `{"first_name":"A","last_name":"B","office_id":1}`},
		{"unparseable birth date", `{"first_name":"A","last_name":"B","birth_date":"01/01/1950","office_id":1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := new(MockDirectory)
			rec := do(t, newRouter(dir), http.MethodPost, "/employees", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			dir.AssertNotCalled(t, "AddEmployee", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEmployee_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"office full", &office.CapacityError{Current: 1, Max: 1}, http.StatusBadRequest, "office_at_capacity"},
		{"unknown office", office.ErrNotFound, http.StatusNotFound, "office_not_found"},
		{"whitespace in last name", validation.New("last_name", validation.ReasonNameContainsWhitespace), http.StatusBadRequest, "name_contains_whitespace"},
		{"too old", validation.New("birth_date", validation.ReasonBirthDateTooEarly), http.StatusBadRequest, "birth_date_too_early"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := new(MockDirectory)
			dir.On("AddEmployee", mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := do(t, newRouter(dir), http.MethodPost, "/employees",
				`{"first_name":"A","last_name":"B","birth_date":"1950-01-01","office_id":1}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, rec).Error)
		})
	}
}

func TestEmployeeGetUpdateDelete(t *testing.T) {
	stored := &employee.Employee{
		ID:        5,
		FirstName: "Anne",
		LastName:  "Hansen",
		BirthDate: time.Date(1980, time.May, 17, 0, 0, 0, 0, time.UTC),
		OfficeID:  2,
	}

	dir := new(MockDirectory)
	dir.On("GetEmployee", mock.Anything, int64(5)).Return(stored, nil)
	dir.On("GetEmployee", mock.Anything, int64(6)).Return(nil, nil)
	dir.On("UpdateEmployee", mock.Anything, int64(6), mock.Anything).Return(nil, employee.ErrNotFound)
	dir.On("RemoveEmployee", mock.Anything, int64(5)).Return(true, nil)
	dir.On("RemoveEmployee", mock.Anything, int64(6)).Return(false, nil)
	h := newRouter(dir)

	rec := do(t, h, http.MethodGet, "/employees/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"birth_date":"1980-05-17"`)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/employees/6", "").Code)

	rec = do(t, h, http.MethodPut, "/employees/6",
		`{"first_name":"A","last_name":"B","birth_date":"1950-01-01","office_id":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "employee_not_found", decodeError(t, rec).Error)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/employees/5", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/employees/6", "").Code)
}
