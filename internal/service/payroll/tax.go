package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// SkipReasonNoEmployee is recorded for details whose employee record is gone.
const SkipReasonNoEmployee = "detail has no employee record"

var (
	occupationalRate       = decimal.RequireFromString("0.05")
	monthlyOccupationalCap = decimal.NewFromInt(500_000)
	annualOccupationalCap  = decimal.NewFromInt(6_000_000)
	noTaxIDSurcharge       = decimal.RequireFromString("1.2")
	monthsPerYear          = decimal.NewFromInt(12)
)

func taxStatusOf(d payroll.Detail) string {
	if d.TaxStatus == nil {
		return tax.NormalizeStatus("")
	}
	return tax.NormalizeStatus(*d.TaxStatus)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

// progressiveBreakdown annualizes one month's gross and withholds a twelfth
// of the progressive annual tax, truncated to a whole amount.
func progressiveBreakdown(d payroll.Detail) payroll.TaxBreakdown {
	status := taxStatusOf(d)
	gross := d.Gross()

	occupational := decimal.Min(gross.Mul(occupationalRate), monthlyOccupationalCap)
	netMonthly := decimal.Max(gross.Sub(occupational), decimal.Zero)
	netAnnual := netMonthly.Mul(monthsPerYear)
	ptkp := tax.PTKPAnnual(status)
	taxable := tax.FloorThousand(decimal.Max(netAnnual.Sub(ptkp), decimal.Zero))

	annualTax := tax.ProgressiveAnnual(taxable)
	if !d.HasTaxID() {
		annualTax = annualTax.Mul(noTaxIDSurcharge)
	}
	monthlyTax := annualTax.Div(monthsPerYear).Floor()

	return payroll.TaxBreakdown{
		Method:                payroll.TaxMethodProgressive,
		TaxStatus:             status,
		HasTaxID:              d.HasTaxID(),
		Gross:                 gross,
		OccupationalDeduction: ptr(occupational),
		NetMonthly:            ptr(netMonthly),
		NetAnnual:             ptr(netAnnual),
		PTKP:                  ptr(ptkp),
		TaxableAnnual:         ptr(taxable),
		AnnualTax:             ptr(annualTax),
		Tax:                   monthlyTax,
	}
}

// terBreakdown applies the monthly effective rate of the employee's category.
func terBreakdown(d payroll.Detail, table tax.TERTable) payroll.TaxBreakdown {
	status := taxStatusOf(d)
	gross := decimal.Max(d.Gross().Floor(), decimal.Zero)
	category := tax.TERCategoryOf(status)
	rate := table.Rate(category, gross)
	categoryName := string(category)

	return payroll.TaxBreakdown{
		Method:    payroll.TaxMethodTER,
		TaxStatus: status,
		HasTaxID:  d.HasTaxID(),
		Gross:     gross,
		Category:  &categoryName,
		Rate:      ptr(rate),
		Tax:       gross.Mul(rate).Round(2),
	}
}

// reconciliationBreakdown settles the year in December: the annual liability
// minus what was withheld January to November, never below zero.
func reconciliationBreakdown(d payroll.Detail, totals payroll.AnnualTotals) payroll.TaxBreakdown {
	status := taxStatusOf(d)
	annualGross := totals.Gross

	occupational := decimal.Min(annualGross.Mul(occupationalRate), annualOccupationalCap)
	netAnnual := decimal.Max(annualGross.Sub(occupational), decimal.Zero)
	ptkp := tax.PTKPAnnual(status)
	taxable := tax.FloorThousand(decimal.Max(netAnnual.Sub(ptkp), decimal.Zero))

	annualTax := tax.ProgressiveAnnual(taxable)
	if !d.HasTaxID() {
		annualTax = annualTax.Mul(noTaxIDSurcharge)
	}
	difference := annualTax.Sub(totals.WithheldBefore).Round(2)

	return payroll.TaxBreakdown{
		Method:                payroll.TaxMethodReconciliation,
		TaxStatus:             status,
		HasTaxID:              d.HasTaxID(),
		Gross:                 annualGross,
		OccupationalDeduction: ptr(occupational),
		NetAnnual:             ptr(netAnnual),
		PTKP:                  ptr(ptkp),
		TaxableAnnual:         ptr(taxable),
		AnnualTax:             ptr(annualTax),
		WithheldBefore:        ptr(totals.WithheldBefore),
		Difference:            ptr(difference),
		Tax:                   decimal.Max(difference, decimal.Zero),
	}
}

// terTable prefers the seeded pph21_ter_rates bands and falls back to the
// built-in schedule when none are seeded.
func (s *PayrollServiceImpl) terTable(ctx context.Context) (tax.TERTable, error) {
	if s.rateRepo == nil {
		return tax.DefaultTERTable(), nil
	}
	bands, err := s.rateRepo.ListTERBands(ctx)
	if err != nil {
		return tax.TERTable{}, err
	}
	if len(bands) == 0 {
		return tax.DefaultTERTable(), nil
	}
	return tax.NewTERTable(bands), nil
}

// applyTax writes the computed tax onto a locked detail and recomputes total.
func (s *PayrollServiceImpl) applyTax(ctx context.Context, d payroll.Detail, b payroll.TaxBreakdown) (payroll.TaxResult, error) {
	d.Tax = b.Tax
	d.Total = d.ComputeTotal()

	updated, err := s.payrollRepo.UpdateDetailAmounts(ctx, d)
	if err != nil {
		return payroll.TaxResult{}, err
	}
	b.Total = updated.Total

	return payroll.TaxResult{
		DetailID:  updated.ID,
		Tax:       updated.Tax,
		Total:     updated.Total,
		Breakdown: b,
	}, nil
}

// calculateOne runs compute against a single locked detail of a DRAFT period.
func (s *PayrollServiceImpl) calculateOne(ctx context.Context, op, detailID string, compute func(context.Context, payroll.Detail) (payroll.TaxBreakdown, error)) (payroll.TaxResult, error) {
	var result payroll.TaxResult
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, d, err := s.lockDetail(txCtx, detailID)
		if err != nil {
			return err
		}
		if err := payroll.EnsureEditable(op, period.Status, payroll.ErrInvalidPeriodState); err != nil {
			return err
		}
		if !d.HasEmployee() {
			return fmt.Errorf("%w: %s", payroll.ErrDetailWithoutEmployee, d.ID)
		}

		b, err := compute(txCtx, d)
		if err != nil {
			return err
		}
		result, err = s.applyTax(txCtx, d, b)
		return err
	})
	if err != nil {
		return payroll.TaxResult{}, err
	}
	return result, nil
}

// calculatePeriod runs compute over every detail of a period, holding the
// period FOR UPDATE so no detail edit interleaves. Details without an
// employee are skipped.
func (s *PayrollServiceImpl) calculatePeriod(ctx context.Context, periodID string, method payroll.TaxMethod, guard func(payroll.Period) error, compute func(context.Context, payroll.Period, payroll.Detail) (payroll.TaxBreakdown, error)) (payroll.BulkTaxResponse, error) {
	resp := payroll.BulkTaxResponse{
		PeriodID: periodID,
		Method:   method,
		Skipped:  []payroll.SkippedDetail{},
		Results:  []payroll.TaxResult{},
	}

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, err := s.payrollRepo.LockPeriod(txCtx, periodID, payroll.LockForUpdate)
		if err != nil {
			return err
		}
		if err := guard(period); err != nil {
			return err
		}

		details, err := s.payrollRepo.ListDetailsByPeriod(txCtx, periodID)
		if err != nil {
			return err
		}

		for _, d := range details {
			if !d.HasEmployee() {
				resp.Skipped = append(resp.Skipped, payroll.SkippedDetail{DetailID: d.ID, Reason: SkipReasonNoEmployee})
				continue
			}

			b, err := compute(txCtx, period, d)
			if err != nil {
				return err
			}
			result, err := s.applyTax(txCtx, d, b)
			if err != nil {
				return err
			}
			resp.Results = append(resp.Results, result)
		}
		return nil
	})
	if err != nil {
		return payroll.BulkTaxResponse{}, err
	}

	resp.Updated = len(resp.Results)
	for _, sk := range resp.Skipped {
		slog.Warn("payroll detail skipped during tax calculation",
			"period_id", periodID, "detail_id", sk.DetailID, "method", method, "reason", sk.Reason)
	}
	slog.Info("payroll tax calculated",
		"period_id", periodID, "method", method, "updated", resp.Updated, "skipped", len(resp.Skipped))
	return resp, nil
}

func draftOnly(op string) func(payroll.Period) error {
	return func(p payroll.Period) error {
		return payroll.EnsureEditable(op, p.Status, payroll.ErrInvalidPeriodState)
	}
}

// CalculateProgressiveTax implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateProgressiveTax(ctx context.Context, detailID string) (payroll.TaxResult, error) {
	return s.calculateOne(ctx, "calculate_progressive_tax", detailID,
		func(_ context.Context, d payroll.Detail) (payroll.TaxBreakdown, error) {
			return progressiveBreakdown(d), nil
		})
}

// CalculateProgressiveTaxForPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateProgressiveTaxForPeriod(ctx context.Context, periodID string) (payroll.BulkTaxResponse, error) {
	return s.calculatePeriod(ctx, periodID, payroll.TaxMethodProgressive, draftOnly("calculate_progressive_tax"),
		func(_ context.Context, _ payroll.Period, d payroll.Detail) (payroll.TaxBreakdown, error) {
			return progressiveBreakdown(d), nil
		})
}

// CalculateTERTax implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateTERTax(ctx context.Context, detailID string) (payroll.TaxResult, error) {
	return s.calculateOne(ctx, "calculate_ter_tax", detailID,
		func(ctx context.Context, d payroll.Detail) (payroll.TaxBreakdown, error) {
			table, err := s.terTable(ctx)
			if err != nil {
				return payroll.TaxBreakdown{}, err
			}
			return terBreakdown(d, table), nil
		})
}

// CalculateTERTaxForPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateTERTaxForPeriod(ctx context.Context, periodID string) (payroll.BulkTaxResponse, error) {
	table, err := s.terTable(ctx)
	if err != nil {
		return payroll.BulkTaxResponse{}, err
	}
	return s.calculatePeriod(ctx, periodID, payroll.TaxMethodTER, draftOnly("calculate_ter_tax"),
		func(_ context.Context, _ payroll.Period, d payroll.Detail) (payroll.TaxBreakdown, error) {
			return terBreakdown(d, table), nil
		})
}

// ReconcileAnnualTax implements payroll.PayrollService. Only a DRAFT
// December period can be reconciled.
func (s *PayrollServiceImpl) ReconcileAnnualTax(ctx context.Context, periodID string) (payroll.BulkTaxResponse, error) {
	var year int
	guard := func(p payroll.Period) error {
		year = p.Year()
		if !p.IsDecember() {
			return fmt.Errorf("%w: annual reconciliation runs on December only, got %s", payroll.ErrInvalidPeriod, p.PeriodKey)
		}
		if p.Status != payroll.StatusDraft {
			return &payroll.StateError{Op: "reconcile_annual_tax", Current: p.Status, Kind: payroll.ErrInvalidPeriod}
		}
		return nil
	}

	resp, err := s.calculatePeriod(ctx, periodID, payroll.TaxMethodReconciliation, guard,
		func(ctx context.Context, p payroll.Period, d payroll.Detail) (payroll.TaxBreakdown, error) {
			totals, err := s.payrollRepo.AnnualTotals(ctx, *d.EmployeeID, p.Year(), p.PeriodKey)
			if err != nil {
				return payroll.TaxBreakdown{}, err
			}
			return reconciliationBreakdown(d, totals), nil
		})
	if err != nil {
		return payroll.BulkTaxResponse{}, err
	}

	for _, r := range resp.Results {
		if r.Breakdown.Difference != nil && r.Breakdown.Difference.IsNegative() {
			slog.Warn("annual tax over-withheld, december tax clamped to zero",
				"period_id", periodID, "detail_id", r.DetailID, "difference", r.Breakdown.Difference.StringFixed(2))
		}
	}
	resp.Year = year
	return resp, nil
}
