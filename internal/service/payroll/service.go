package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/tax"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SkipReasonNoPlacement is recorded for active employees without a placement
// covering the period's last day.
const SkipReasonNoPlacement = "no placement for this period"

// Options tune workflow preconditions.
type Options struct {
	// RequirePaymentProof makes mark-paid fail while any detail lacks a proof.
	RequirePaymentProof bool
}

type PayrollServiceImpl struct {
	transactor    database.Transactor
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	placementRepo placement.PlacementRepository
	rateRepo      tax.RateRepository
	ledgerService ledger.LedgerService
	fileService   file.FileService
	opts          Options
	now           func() time.Time
}

func NewPayrollService(
	transactor database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	placementRepo placement.PlacementRepository,
	rateRepo tax.RateRepository,
	ledgerService ledger.LedgerService,
	fileService file.FileService,
	opts Options,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:    transactor,
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		placementRepo: placementRepo,
		rateRepo:      rateRepo,
		ledgerService: ledgerService,
		fileService:   fileService,
		opts:          opts,
		now:           time.Now,
	}
}

// actorID returns the caller's user id, or nil for unauthenticated contexts
// such as background jobs.
func actorID(ctx context.Context) *string {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil
	}
	return &actor.UserID
}

// ========== PERIODS ==========

// GeneratePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePeriod(ctx context.Context, req payroll.GeneratePeriodRequest) (payroll.GeneratePeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePeriodResponse{}, err
	}

	if existing, err := s.payrollRepo.GetPeriodByKey(ctx, req.PeriodKey); err == nil {
		return payroll.GeneratePeriodResponse{}, &payroll.DuplicatePeriodError{Existing: existing}
	} else if !errors.Is(err, payroll.ErrPeriodNotFound) {
		return payroll.GeneratePeriodResponse{}, err
	}

	year, month, err := payroll.ParsePeriodKey(req.PeriodKey)
	if err != nil {
		return payroll.GeneratePeriodResponse{}, err
	}
	lastDay := payroll.LastDayOfMonth(year, month)

	var (
		period  payroll.Period
		created int64
		skipped = []payroll.SkippedEmployee{}
	)
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		period, err = s.payrollRepo.CreatePeriod(txCtx, payroll.Period{
			PeriodKey: req.PeriodKey,
			Status:    payroll.StatusDraft,
			CreatedBy: actorID(ctx),
		})
		if err != nil {
			return err
		}

		employees, err := s.employeeRepo.ListActive(txCtx)
		if err != nil {
			return err
		}
		placements, err := s.placementRepo.ListEffectiveOn(txCtx, lastDay)
		if err != nil {
			return err
		}

		details := make([]payroll.Detail, 0, len(employees))
		for _, emp := range employees {
			p, ok := placements[emp.ID]
			if !ok {
				skipped = append(skipped, payroll.SkippedEmployee{
					EmployeeID:   emp.ID,
					EmployeeCode: emp.EmployeeCode,
					FullName:     emp.FullName,
					Reason:       SkipReasonNoPlacement,
				})
				continue
			}

			employeeID, jobTitleID := emp.ID, p.JobTitleID
			details = append(details, payroll.Detail{
				PeriodID:   period.ID,
				EmployeeID: &employeeID,
				JobTitleID: &jobTitleID,
				BaseSalary: p.BaseSalary,
				Allowances: decimal.Zero,
				Deductions: decimal.Zero,
				Tax:        decimal.Zero,
				Total:      p.BaseSalary,
			})
		}

		if len(details) > 0 {
			created, err = s.payrollRepo.CreateDetails(txCtx, details)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// A concurrent generator won the unique index; report what it created.
		var dup *payroll.DuplicatePeriodError
		if errors.Is(err, payroll.ErrDuplicatePeriod) && !errors.As(err, &dup) {
			if existing, getErr := s.payrollRepo.GetPeriodByKey(ctx, req.PeriodKey); getErr == nil {
				return payroll.GeneratePeriodResponse{}, &payroll.DuplicatePeriodError{Existing: existing}
			}
		}
		return payroll.GeneratePeriodResponse{}, err
	}

	for _, sk := range skipped {
		slog.Warn("employee skipped during payroll generation",
			"period", period.PeriodKey, "employee_id", sk.EmployeeID, "reason", sk.Reason)
	}
	slog.Info("payroll period generated",
		"period_id", period.ID, "period", period.PeriodKey, "created", created, "skipped", len(skipped))

	period.DetailCount = int(created)
	return payroll.GeneratePeriodResponse{
		Period:  payroll.NewPeriodResponse(period),
		Created: int(created),
		Skipped: skipped,
	}, nil
}

// ListPeriods implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPeriodResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPeriodResponse{}, err
	}

	periods, total, err := s.payrollRepo.ListPeriods(ctx, filter)
	if err != nil {
		return payroll.ListPeriodResponse{}, err
	}

	data := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp := payroll.NewPeriodResponse(p)
		totalCost := p.TotalCost
		resp.TotalCost = &totalCost
		data = append(data, resp)
	}

	return payroll.ListPeriodResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, id string) (payroll.PeriodDetailResponse, error) {
	period, err := s.payrollRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return payroll.PeriodDetailResponse{}, err
	}

	details, err := s.payrollRepo.ListDetailsByPeriod(ctx, id)
	if err != nil {
		return payroll.PeriodDetailResponse{}, err
	}

	totalCost := decimal.Zero
	data := make([]payroll.DetailResponse, 0, len(details))
	for _, d := range details {
		totalCost = totalCost.Add(d.Total)
		data = append(data, s.detailResponse(d))
	}

	period.DetailCount = len(details)
	resp := payroll.NewPeriodResponse(period)
	resp.TotalCost = &totalCost

	return payroll.PeriodDetailResponse{
		Period:    resp,
		Details:   data,
		TotalCost: totalCost,
	}, nil
}

// ListPeriodSummaries implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPeriodSummaries(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPeriodSummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPeriodSummaryResponse{}, err
	}

	periods, total, err := s.payrollRepo.ListPeriods(ctx, filter)
	if err != nil {
		return payroll.ListPeriodSummaryResponse{}, err
	}

	data := make([]payroll.PeriodSummaryResponse, 0, len(periods))
	for _, p := range periods {
		data = append(data, payroll.NewPeriodSummaryResponse(p))
	}

	return payroll.ListPeriodSummaryResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetPeriodSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriodSummary(ctx context.Context, id string) (payroll.PeriodSummaryResponse, error) {
	period, err := s.payrollRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}
	return payroll.NewPeriodSummaryResponse(period), nil
}

// GetStats implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetStats(ctx context.Context) (payroll.StatsResponse, error) {
	var stats payroll.StatsResponse
	year := s.now().Year()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		paid, err := s.payrollRepo.SumPaidNetInYear(gctx, year)
		stats.PaidYearToDate = paid
		return err
	})
	g.Go(func() error {
		n, err := s.payrollRepo.CountPeriodsByStatus(gctx, payroll.StatusDraft, payroll.StatusSubmitted, payroll.StatusApproved)
		stats.ActivePeriods = n
		return err
	})
	g.Go(func() error {
		n, err := s.employeeRepo.CountActive(gctx)
		stats.ActiveEmployees = n
		return err
	})
	g.Go(func() error {
		n, err := s.payrollRepo.CountPeriodsByStatus(gctx, payroll.StatusSubmitted)
		stats.PendingApprovals = n
		return err
	})

	if err := g.Wait(); err != nil {
		return payroll.StatsResponse{}, err
	}
	return stats, nil
}

func (s *PayrollServiceImpl) detailResponse(d payroll.Detail) payroll.DetailResponse {
	resp := payroll.NewDetailResponse(d)
	if d.HasPaymentProof() {
		url := s.fileService.FileURL(*d.PaymentProof)
		resp.PaymentProofURL = &url
	}
	return resp
}
