package placement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/jobtitle"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type PlacementServiceImpl struct {
	transactor    database.Transactor
	placementRepo placement.PlacementRepository
	employeeRepo  employee.EmployeeRepository
	jobTitleRepo  jobtitle.JobTitleRepository
}

func NewPlacementService(
	transactor database.Transactor,
	placementRepo placement.PlacementRepository,
	employeeRepo employee.EmployeeRepository,
	jobTitleRepo jobtitle.JobTitleRepository,
) placement.PlacementService {
	return &PlacementServiceImpl{
		transactor:    transactor,
		placementRepo: placementRepo,
		employeeRepo:  employeeRepo,
		jobTitleRepo:  jobTitleRepo,
	}
}

// CurrentPlacement implements placement.PlacementService.
func (s *PlacementServiceImpl) CurrentPlacement(ctx context.Context, employeeID string) (placement.PlacementResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return placement.PlacementResponse{}, err
	}

	current, err := s.placementRepo.GetCurrent(ctx, employeeID)
	if err != nil {
		if errors.Is(err, placement.ErrPlacementNotFound) {
			return placement.PlacementResponse{}, placement.ErrNoCurrentPlacement
		}
		return placement.PlacementResponse{}, err
	}
	return placement.NewPlacementResponse(current), nil
}

// PlacementEffectiveOn implements placement.PlacementService.
func (s *PlacementServiceImpl) PlacementEffectiveOn(ctx context.Context, employeeID string, date time.Time) (placement.PlacementResponse, error) {
	p, err := s.placementRepo.GetEffectiveOn(ctx, employeeID, date)
	if err != nil {
		return placement.PlacementResponse{}, err
	}
	return placement.NewPlacementResponse(p), nil
}

// ListPlacements implements placement.PlacementService.
func (s *PlacementServiceImpl) ListPlacements(ctx context.Context, employeeID string) ([]placement.PlacementResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	placements, err := s.placementRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]placement.PlacementResponse, 0, len(placements))
	for _, p := range placements {
		resp = append(resp, placement.NewPlacementResponse(p))
	}
	return resp, nil
}

// AddPlacement implements placement.PlacementService.
func (s *PlacementServiceImpl) AddPlacement(ctx context.Context, req placement.AddPlacementRequest) (placement.PlacementResponse, error) {
	if err := req.Validate(); err != nil {
		return placement.PlacementResponse{}, err
	}

	if _, err := s.jobTitleRepo.GetByID(ctx, req.JobTitleID); err != nil {
		return placement.PlacementResponse{}, err
	}

	var created placement.Placement
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		// Serializes concurrent placement changes for the same employee.
		emp, err := s.employeeRepo.LockByID(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !emp.Active {
			return employee.ErrEmployeeInactive
		}

		current, err := s.placementRepo.GetCurrent(txCtx, req.EmployeeID)
		switch {
		case err == nil:
			if !req.ValidFromDate.After(current.ValidFrom) {
				return placement.ErrValidFromNotAfterOpen
			}
			if err := s.placementRepo.Close(txCtx, current.ID, placement.ClosingDate(req.ValidFromDate)); err != nil {
				return err
			}
		case errors.Is(err, placement.ErrPlacementNotFound):
		default:
			return err
		}

		created, err = s.placementRepo.Create(txCtx, placement.Placement{
			EmployeeID: req.EmployeeID,
			JobTitleID: req.JobTitleID,
			BaseSalary: req.BaseSalary,
			ValidFrom:  req.ValidFromDate,
			ChangeType: placement.ChangeType(req.ChangeType),
			Note:       req.Note,
		})
		return err
	})
	if err != nil {
		return placement.PlacementResponse{}, err
	}

	slog.Info("placement added",
		"employee_id", req.EmployeeID,
		"job_title_id", req.JobTitleID,
		"valid_from", req.ValidFromDate.Format(time.DateOnly),
		"change_type", req.ChangeType,
	)
	return placement.NewPlacementResponse(created), nil
}
