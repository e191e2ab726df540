package payroll

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

// lockDetail takes FOR SHARE on the parent period and FOR UPDATE on the
// detail. It must run inside a transaction.
func (s *PayrollServiceImpl) lockDetail(ctx context.Context, detailID string) (payroll.Period, payroll.Detail, error) {
	d, err := s.payrollRepo.GetDetail(ctx, detailID)
	if err != nil {
		return payroll.Period{}, payroll.Detail{}, err
	}
	period, err := s.payrollRepo.LockPeriod(ctx, d.PeriodID, payroll.LockForShare)
	if err != nil {
		return payroll.Period{}, payroll.Detail{}, err
	}
	d, err = s.payrollRepo.LockDetail(ctx, detailID)
	if err != nil {
		return payroll.Period{}, payroll.Detail{}, err
	}
	return period, d, nil
}

// GetDetail implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetDetail(ctx context.Context, id string) (payroll.DetailResponse, error) {
	d, err := s.payrollRepo.GetDetail(ctx, id)
	if err != nil {
		return payroll.DetailResponse{}, err
	}
	return s.detailWithComponents(ctx, d)
}

func (s *PayrollServiceImpl) detailWithComponents(ctx context.Context, d payroll.Detail) (payroll.DetailResponse, error) {
	components, err := s.payrollRepo.ListComponents(ctx, d.ID)
	if err != nil {
		return payroll.DetailResponse{}, err
	}

	resp := s.detailResponse(d)
	resp.Components = make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		resp.Components = append(resp.Components, payroll.NewComponentResponse(c))
	}
	return resp, nil
}

// UpdateDetail implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateDetail(ctx context.Context, req payroll.UpdateDetailRequest) (payroll.DetailResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DetailResponse{}, err
	}

	var updated payroll.Detail
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, d, err := s.lockDetail(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := payroll.EnsureEditable("update_detail", period.Status, payroll.ErrPeriodLocked); err != nil {
			return err
		}

		if req.Allowances != nil {
			d.Allowances = *req.Allowances
		}
		if req.Deductions != nil {
			d.Deductions = *req.Deductions
		}
		d.Total = d.ComputeTotal()

		updated, err = s.payrollRepo.UpdateDetailAmounts(txCtx, d)
		return err
	})
	if err != nil {
		return payroll.DetailResponse{}, err
	}

	return s.detailResponse(updated), nil
}

// RecomputeDetailTotals implements payroll.PayrollService. Allowances and
// deductions are re-derived from the detail's components.
func (s *PayrollServiceImpl) RecomputeDetailTotals(ctx context.Context, detailID string) (payroll.Detail, error) {
	var updated payroll.Detail
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, d, err := s.lockDetail(txCtx, detailID)
		if err != nil {
			return err
		}
		if err := payroll.EnsureEditable("recompute_totals", period.Status, payroll.ErrPeriodLocked); err != nil {
			return err
		}

		sums, err := s.payrollRepo.SumComponents(txCtx, detailID)
		if err != nil {
			return err
		}
		d.Allowances = sums.Allowances
		d.Deductions = sums.Deductions
		d.Total = d.ComputeTotal()

		updated, err = s.payrollRepo.UpdateDetailAmounts(txCtx, d)
		return err
	})
	if err != nil {
		return payroll.Detail{}, err
	}
	return updated, nil
}

// ListComponents implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListComponents(ctx context.Context, detailID string) ([]payroll.ComponentResponse, error) {
	if _, err := s.payrollRepo.GetDetail(ctx, detailID); err != nil {
		return nil, err
	}

	components, err := s.payrollRepo.ListComponents(ctx, detailID)
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		resp = append(resp, payroll.NewComponentResponse(c))
	}
	return resp, nil
}

// AddComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) AddComponent(ctx context.Context, req payroll.CreateComponentRequest) (payroll.ComponentMutationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	var (
		component payroll.Component
		detail    payroll.Detail
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, _, err := s.lockDetail(txCtx, req.DetailID)
		if err != nil {
			return err
		}
		if err := payroll.EnsureEditable("add_component", period.Status, payroll.ErrPeriodLocked); err != nil {
			return err
		}

		component, err = s.payrollRepo.CreateComponent(txCtx, payroll.Component{
			DetailID:  req.DetailID,
			Kind:      payroll.ComponentKind(req.Kind),
			Name:      req.Name,
			Amount:    req.Amount,
			CreatedBy: actorID(ctx),
		})
		if err != nil {
			return err
		}

		detail, err = s.RecomputeDetailTotals(txCtx, req.DetailID)
		return err
	})
	if err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	resp := payroll.NewComponentResponse(component)
	return payroll.ComponentMutationResponse{
		Component: &resp,
		Detail:    s.detailResponse(detail),
	}, nil
}

// UpdateComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdateComponentRequest) (payroll.ComponentMutationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	existing, err := s.payrollRepo.GetComponent(ctx, req.ID)
	if err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	var (
		component payroll.Component
		detail    payroll.Detail
	)
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, _, err := s.lockDetail(txCtx, existing.DetailID)
		if err != nil {
			return err
		}
		if err := payroll.EnsureEditable("update_component", period.Status, payroll.ErrPeriodLocked); err != nil {
			return err
		}

		c, err := s.payrollRepo.GetComponent(txCtx, req.ID)
		if err != nil {
			return err
		}
		if req.Kind != nil {
			c.Kind = payroll.ComponentKind(*req.Kind)
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Amount != nil {
			c.Amount = *req.Amount
		}

		component, err = s.payrollRepo.UpdateComponent(txCtx, c)
		if err != nil {
			return err
		}

		detail, err = s.RecomputeDetailTotals(txCtx, c.DetailID)
		return err
	})
	if err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	resp := payroll.NewComponentResponse(component)
	return payroll.ComponentMutationResponse{
		Component: &resp,
		Detail:    s.detailResponse(detail),
	}, nil
}

// DeleteComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeleteComponent(ctx context.Context, id string) (payroll.ComponentMutationResponse, error) {
	existing, err := s.payrollRepo.GetComponent(ctx, id)
	if err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	var detail payroll.Detail
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, _, err := s.lockDetail(txCtx, existing.DetailID)
		if err != nil {
			return err
		}
		if err := payroll.EnsureEditable("delete_component", period.Status, payroll.ErrPeriodLocked); err != nil {
			return err
		}

		if err := s.payrollRepo.DeleteComponent(txCtx, id); err != nil {
			return err
		}

		detail, err = s.RecomputeDetailTotals(txCtx, existing.DetailID)
		return err
	})
	if err != nil {
		return payroll.ComponentMutationResponse{}, err
	}

	return payroll.ComponentMutationResponse{Detail: s.detailResponse(detail)}, nil
}

// UploadPaymentProof implements payroll.PayrollService. The stored file
// replaces any previous proof; it is removed again when attaching fails.
func (s *PayrollServiceImpl) UploadPaymentProof(ctx context.Context, req payroll.UploadPaymentProofRequest) (payroll.PaymentProofResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentProofResponse{}, err
	}

	d, err := s.payrollRepo.GetDetail(ctx, req.DetailID)
	if err != nil {
		return payroll.PaymentProofResponse{}, err
	}
	period, err := s.payrollRepo.GetPeriodByID(ctx, d.PeriodID)
	if err != nil {
		return payroll.PaymentProofResponse{}, err
	}
	if err := payroll.EnsureProofAttachable(period.Status); err != nil {
		return payroll.PaymentProofResponse{}, err
	}

	key, err := s.fileService.UploadPaymentProof(ctx, period.PeriodKey, d.ID, req.File, req.Filename, payroll.MaxPaymentProofSize)
	if err != nil {
		return payroll.PaymentProofResponse{}, err
	}

	var previous *string
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		locked, err := s.payrollRepo.LockPeriod(txCtx, d.PeriodID, payroll.LockForShare)
		if err != nil {
			return err
		}
		if err := payroll.EnsureProofAttachable(locked.Status); err != nil {
			return err
		}

		current, err := s.payrollRepo.LockDetail(txCtx, d.ID)
		if err != nil {
			return err
		}
		previous = current.PaymentProof

		return s.payrollRepo.UpdateDetailPaymentProof(txCtx, d.ID, key)
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned payment proof", "key", key, "error", delErr)
		}
		return payroll.PaymentProofResponse{}, err
	}

	if previous != nil && *previous != "" && *previous != key {
		if err := s.fileService.DeleteFile(ctx, *previous); err != nil {
			slog.Warn("failed to remove replaced payment proof", "key", *previous, "error", err)
		}
	}

	slog.Info("payment proof attached", "detail_id", d.ID, "period", period.PeriodKey, "key", key)
	return payroll.PaymentProofResponse{
		DetailID: d.ID,
		Path:     key,
		URL:      s.fileService.FileURL(key),
	}, nil
}
