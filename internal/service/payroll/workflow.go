package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

// transition applies action to the period under a FOR UPDATE lock. check runs
// after the state is validated and before the status is written, inside the
// same transaction.
func (s *PayrollServiceImpl) transition(
	ctx context.Context,
	periodID string,
	action payroll.Action,
	note *string,
	check func(txCtx context.Context, period payroll.Period, actor jwt.Actor) error,
) (payroll.Period, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.Period{}, err
	}
	if !action.CanPerform(actor.Role) {
		return payroll.Period{}, fmt.Errorf("%w: %s requires %s", user.ErrInsufficientPermissions, action, action.Permission())
	}

	var updated payroll.Period
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, err := s.payrollRepo.LockPeriod(txCtx, periodID, payroll.LockForUpdate)
		if err != nil {
			return err
		}

		next, err := payroll.NextStatus(period.Status, action)
		if err != nil {
			return err
		}

		if check != nil {
			if err := check(txCtx, period, actor); err != nil {
				return err
			}
		}

		updated, err = s.payrollRepo.UpdatePeriodStatus(txCtx, payroll.StatusChange{
			PeriodID: period.ID,
			From:     period.Status,
			To:       next,
			ActorID:  actor.UserID,
			At:       s.now().UTC(),
			Note:     note,
		})
		return err
	})
	if err != nil {
		return payroll.Period{}, err
	}

	slog.Info("payroll period status changed",
		"period_id", updated.ID,
		"period", updated.PeriodKey,
		"action", action,
		"status", updated.Status,
		"actor_id", actor.UserID,
	)
	return updated, nil
}

// Submit implements payroll.PayrollService.
func (s *PayrollServiceImpl) Submit(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	updated, err := s.transition(ctx, periodID, payroll.ActionSubmit, nil,
		func(txCtx context.Context, period payroll.Period, _ jwt.Actor) error {
			n, err := s.payrollRepo.CountDetails(txCtx, period.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %s", payroll.ErrNoDetails, period.PeriodKey)
			}
			return nil
		})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(updated), nil
}

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	updated, err := s.transition(ctx, periodID, payroll.ActionApprove, nil, nil)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(updated), nil
}

// Reject implements payroll.PayrollService. The note is kept on the period.
func (s *PayrollServiceImpl) Reject(ctx context.Context, req payroll.RejectRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	note := req.Note
	updated, err := s.transition(ctx, req.PeriodID, payroll.ActionReject, &note, nil)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(updated), nil
}

// MarkPaid implements payroll.PayrollService. The payroll journal is posted
// in the same transaction as the status change; a posting failure leaves the
// period APPROVED.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, periodID string) (payroll.MarkPaidResponse, error) {
	var journal ledger.Journal

	updated, err := s.transition(ctx, periodID, payroll.ActionMarkPaid, nil,
		func(txCtx context.Context, period payroll.Period, actor jwt.Actor) error {
			if s.opts.RequirePaymentProof {
				missing, err := s.payrollRepo.CountDetailsWithoutProof(txCtx, period.ID)
				if err != nil {
					return err
				}
				if missing > 0 {
					return fmt.Errorf("%w: %d of the period's details", payroll.ErrPaymentProofMissing, missing)
				}
			}

			totals, err := s.payrollRepo.PeriodTotals(txCtx, period.ID)
			if err != nil {
				return err
			}

			journal, err = s.ledgerService.PostPayroll(txCtx, ledger.PayrollPosting{
				PeriodID:       period.ID,
				PeriodKey:      period.PeriodKey,
				PeriodSequence: period.Sequence,
				Date:           s.now().UTC(),
				TotalGross:     totals.Gross,
				TotalTax:       totals.Tax,
				TotalNet:       totals.Net,
				PostedBy:       actor.UserID,
			})
			return err
		})
	if err != nil {
		return payroll.MarkPaidResponse{}, err
	}

	return payroll.MarkPaidResponse{
		Period:  payroll.NewPeriodResponse(updated),
		Journal: ledger.NewJournalResponse(journal),
	}, nil
}
