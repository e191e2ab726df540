package employee

import (
	"context"
)

// EmployeeService covers the payroll-relevant subset of employee master data.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// ProvisionLogin creates a login account bound to the employee.
	ProvisionLogin(ctx context.Context, req ProvisionLoginRequest) (EmployeeResponse, error)

	// DeleteEmployee hard-deletes an employee without payroll history and
	// deactivates one that has any.
	DeleteEmployee(ctx context.Context, id string) (DeleteEmployeeResponse, error)
}
