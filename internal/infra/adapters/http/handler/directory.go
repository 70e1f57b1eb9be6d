package httphandler

import (
	"context"

	"github.com/ahrav/office-hub/internal/domain/employee"
	"github.com/ahrav/office-hub/internal/domain/office"
)

// Directory is the slice of the directory coordinator the HTTP layer drives.
type Directory interface {
	AddOffice(ctx context.Context, o office.Office) (*office.Office, error)
	UpdateOffice(ctx context.Context, id int64, o office.Office) (*office.Office, error)
	RemoveOffice(ctx context.Context, id int64) (bool, error)
	GetOffice(ctx context.Context, id int64) (*office.Office, error)
	ListOffices(ctx context.Context) ([]*office.Office, error)
	OfficeOccupancy(ctx context.Context, id int64) (office.Occupancy, error)

	AddEmployee(ctx context.Context, e employee.Employee) (*employee.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, e employee.Employee) (*employee.Employee, error)
	RemoveEmployee(ctx context.Context, id int64) (bool, error)
	GetEmployee(ctx context.Context, id int64) (*employee.Employee, error)
	ListEmployees(ctx context.Context) ([]*employee.Employee, error)
	ListEmployeesByOffice(ctx context.Context, officeID int64) ([]*employee.Employee, error)
}
