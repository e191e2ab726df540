package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// LockByID reads the employee with FOR UPDATE; it must run inside a transaction.
	LockByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context) ([]Employee, error)
	CountActive(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id string, active bool) error
	LinkUser(ctx context.Context, id string, userID *string) error
	HasPayrollHistory(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
