package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	transactor    database.Transactor
	employeeRepo  employee.EmployeeRepository
	userRepo      user.UserRepository
	placementRepo placement.PlacementRepository
	now           func() time.Time
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	placementRepo placement.PlacementRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:    transactor,
		employeeRepo:  employeeRepo,
		userRepo:      userRepo,
		placementRepo: placementRepo,
		now:           time.Now,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	hireDate, _ := time.Parse(time.DateOnly, req.HireDate)

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		EmployeeCode:      req.EmployeeCode,
		FullName:          req.FullName,
		HireDate:          hireDate,
		EmploymentType:    employee.EmploymentType(req.EmploymentType),
		PayBasis:          employee.PayBasis(req.PayBasis),
		TaxID:             req.TaxID,
		TaxStatus:         req.TaxStatus,
		Active:            true,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		BankAccountHolder: req.BankAccountHolder,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	filter.Normalize()

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	data := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		data = append(data, employee.NewEmployeeResponse(e))
	}
	return employee.ListEmployeeResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.employeeRepo.Update(ctx, req); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetEmployee(ctx, req.ID)
}

// ProvisionLogin implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ProvisionLogin(ctx context.Context, req employee.ProvisionLoginRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.Role == "" {
		req.Role = string(user.RoleEmployee)
	}
	role, ok := user.ParseRole(req.Role)
	if !ok {
		return employee.EmployeeResponse{}, user.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var linked employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.LockByID(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if emp.UserID != nil {
			return employee.ErrLoginAlreadyProvisioned
		}

		created, err := s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         role,
		})
		if err != nil {
			return err
		}
		if err := s.employeeRepo.LinkUser(txCtx, emp.ID, &created.ID); err != nil {
			return err
		}

		emp.UserID = &created.ID
		linked = emp
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee login provisioned", "employee_id", linked.ID, "role", role)
	return employee.NewEmployeeResponse(linked), nil
}

// DeleteEmployee implements employee.EmployeeService. The open placement is
// closed in both outcomes; a hard delete also removes the linked login.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) (employee.DeleteEmployeeResponse, error) {
	var outcome employee.DeleteOutcome
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.closeOpenPlacement(txCtx, emp.ID); err != nil {
			return err
		}

		hasHistory, err := s.employeeRepo.HasPayrollHistory(txCtx, emp.ID)
		if err != nil {
			return err
		}
		if hasHistory {
			outcome = employee.DeleteOutcomeDeactivated
			return s.employeeRepo.SetActive(txCtx, emp.ID, false)
		}

		if emp.UserID != nil {
			if err := s.userRepo.Delete(txCtx, *emp.UserID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
				return err
			}
		}
		outcome = employee.DeleteOutcomeDeleted
		return s.employeeRepo.Delete(txCtx, emp.ID)
	})
	if err != nil {
		return employee.DeleteEmployeeResponse{}, err
	}

	slog.Info("employee removed", "employee_id", id, "outcome", outcome)
	return employee.DeleteEmployeeResponse{ID: id, Outcome: outcome}, nil
}

func (s *EmployeeServiceImpl) closeOpenPlacement(ctx context.Context, employeeID string) error {
	current, err := s.placementRepo.GetCurrent(ctx, employeeID)
	if err != nil {
		if errors.Is(err, placement.ErrPlacementNotFound) {
			return nil
		}
		return err
	}

	// valid_to may not precede valid_from for a placement starting in the future.
	validTo := s.now().UTC()
	validTo = time.Date(validTo.Year(), validTo.Month(), validTo.Day(), 0, 0, 0, 0, time.UTC)
	if current.ValidFrom.After(validTo) {
		validTo = current.ValidFrom
	}
	return s.placementRepo.Close(ctx, current.ID, validTo)
}
