package payroll

import (
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressiveBreakdown_WorkedExample(t *testing.T) {
	b := progressiveBreakdown(payroll.Detail{
		BaseSalary: dec("10000000"),
		Allowances: dec("0"),
		Deductions: dec("0"),
		TaxID:      strPtr("09.254.294.3-407.000"),
		TaxStatus:  strPtr("TK/0"),
	})

	assert.True(t, b.OccupationalDeduction.Equal(dec("500000")))
	assert.True(t, b.NetMonthly.Equal(dec("9500000")))
	assert.True(t, b.NetAnnual.Equal(dec("114000000")))
	assert.True(t, b.PTKP.Equal(dec("54000000")))
	assert.True(t, b.TaxableAnnual.Equal(dec("60000000")))
	assert.True(t, b.AnnualTax.Equal(dec("3000000")))
	assert.True(t, b.Tax.Equal(dec("250000")), "got %s", b.Tax)
}

func TestProgressiveBreakdown(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		allow     string
		taxID     *string
		status    *string
		wantTax   string
		wantState string
	}{
		{"no tax id adds twenty percent", "10000000", "0", nil, strPtr("TK/0"), "300000", "TK/0"},
		{"compact status is normalized", "10000000", "0", strPtr("1"), strPtr("k1"), "212500", "K/1"},
		{"missing status defaults to TK/0", "10000000", "0", strPtr("1"), nil, "250000", "TK/0"},
		{"below PTKP pays nothing", "4000000", "0", strPtr("1"), strPtr("TK/0"), "0", "TK/0"},
		{"allowances count toward gross", "9000000", "1000000", strPtr("1"), strPtr("TK/0"), "250000", "TK/0"},
		{"monthly tax is truncated", "10000100", "0", strPtr("1"), strPtr("TK/0"), "250012", "TK/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := progressiveBreakdown(payroll.Detail{
				BaseSalary: dec(tt.base),
				Allowances: dec(tt.allow),
				TaxID:      tt.taxID,
				TaxStatus:  tt.status,
			})
			assert.True(t, b.Tax.Equal(dec(tt.wantTax)), "got %s", b.Tax)
			assert.Equal(t, tt.wantState, b.TaxStatus)
		})
	}
}

func TestTERBreakdown_DefaultTable(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		gross        string
		wantCategory string
		wantTax      string
	}{
		{"category A worked example", "TK/0", "8000000", "A", "120000"},
		{"category B", "K/1", "8000000", "B", "80000"},
		{"category C", "K/3", "8000000", "C", "80000"},
		{"fraction floored before rate", "TK/0", "8000000.75", "A", "120000"},
		{"below first band", "TK/0", "5000000", "A", "0"},
	}

	table := tax.DefaultTERTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := terBreakdown(payroll.Detail{
				BaseSalary: dec(tt.gross),
				Allowances: dec("0"),
				TaxStatus:  strPtr(tt.status),
			}, table)
			require.NotNil(t, b.Category)
			assert.Equal(t, tt.wantCategory, *b.Category)
			assert.True(t, b.Tax.Equal(dec(tt.wantTax)), "got %s", b.Tax)
		})
	}
}

func TestReconciliationBreakdown_ClampsOverWithholding(t *testing.T) {
	b := reconciliationBreakdown(
		payroll.Detail{TaxID: strPtr("1"), TaxStatus: strPtr("TK/0")},
		payroll.AnnualTotals{Gross: dec("50000000"), WithheldBefore: dec("1200000")},
	)

	assert.True(t, b.AnnualTax.IsZero())
	require.NotNil(t, b.Difference)
	assert.True(t, b.Difference.Equal(dec("-1200000")))
	assert.True(t, b.Tax.IsZero())
	assert.False(t, b.Tax.IsNegative())
}

func TestReconciliationBreakdown_OccupationalCap(t *testing.T) {
	b := reconciliationBreakdown(
		payroll.Detail{TaxID: strPtr("1"), TaxStatus: strPtr("TK/0")},
		payroll.AnnualTotals{Gross: dec("240000000"), WithheldBefore: dec("0")},
	)

	assert.True(t, b.OccupationalDeduction.Equal(dec("6000000")))
	assert.True(t, b.NetAnnual.Equal(dec("234000000")))
	// 60M at 5% plus 120M at 15%
	assert.True(t, b.Tax.Equal(dec("21000000")), "got %s", b.Tax)
}

func TestCalculateProgressiveTax_WritesDetail(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", strPtr("09.254.294.3-407.000"), "10000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)

	result, err := f.svc.CalculateProgressiveTax(context.Background(), d.ID)
	require.NoError(t, err)

	assert.True(t, result.Tax.Equal(dec("250000")))
	assert.True(t, result.Total.Equal(dec("9750000")))
	assert.True(t, result.Breakdown.Total.Equal(dec("9750000")))

	stored := f.detailOf(t, gen.Period.ID, emp.ID)
	assert.True(t, stored.Tax.Equal(dec("250000")))
	assert.True(t, stored.Total.Equal(stored.ComputeTotal()))
}

func TestCalculateTERTaxForPeriod_SeededTableOverridesDefault(t *testing.T) {
	f := newFixture(Options{})
	upper := int64(10_000_000)
	f.svc.rateRepo = fakeRateRepo{bands: []tax.TERBand{
		{Category: tax.TERCategoryA, Lower: 0, Upper: &upper, Rate: dec("0.02")},
		{Category: tax.TERCategoryA, Lower: upper, Rate: dec("0.05")},
	}}
	emp := f.addEmployee("EMP-001", "TK/0", nil, "8000000")
	gen := f.generate(t, "2025-03")

	resp, err := f.svc.CalculateTERTaxForPeriod(context.Background(), gen.Period.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Updated)
	assert.Empty(t, resp.Skipped)
	d := f.detailOf(t, gen.Period.ID, emp.ID)
	assert.True(t, d.Tax.Equal(dec("160000")), "got %s", d.Tax)
	assert.True(t, d.Total.Equal(dec("7840000")))
}

func TestCalculateTERTax_DefaultTableWhenNoneSeeded(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "8000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)

	result, err := f.svc.CalculateTERTax(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, result.Tax.Equal(dec("120000")))
	assert.True(t, result.Breakdown.Rate.Equal(dec("0.015")))
}

func TestBulkTax_SkipsDetailsWithoutEmployee(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", strPtr("1"), "10000000")
	gen := f.generate(t, "2025-03")
	_, err := f.payroll.CreateDetails(context.Background(), []payroll.Detail{{
		PeriodID:   gen.Period.ID,
		BaseSalary: dec("5000000"),
		Total:      dec("5000000"),
	}})
	require.NoError(t, err)

	resp, err := f.svc.CalculateProgressiveTaxForPeriod(context.Background(), gen.Period.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Updated)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, SkipReasonNoEmployee, resp.Skipped[0].Reason)
}

func TestTaxCalculation_RequiresDraft(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)
	f.setStatus(gen.Period.ID, payroll.StatusSubmitted)

	_, err := f.svc.CalculateProgressiveTax(context.Background(), d.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriodState)

	_, err = f.svc.CalculateTERTaxForPeriod(context.Background(), gen.Period.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriodState)

	var stateErr *payroll.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, payroll.StatusSubmitted, stateErr.Current)

	stored := f.detailOf(t, gen.Period.ID, emp.ID)
	assert.True(t, stored.Tax.IsZero())
}

func TestReconcileAnnualTax_FullYear(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", strPtr("1"), "10000000")
	ctx := context.Background()

	var december string
	for m := 1; m <= 12; m++ {
		gen := f.generate(t, fmt.Sprintf("2024-%02d", m))
		if m == 12 {
			december = gen.Period.ID
			break
		}
		_, err := f.svc.CalculateProgressiveTaxForPeriod(ctx, gen.Period.ID)
		require.NoError(t, err)
	}

	resp, err := f.svc.ReconcileAnnualTax(ctx, december)
	require.NoError(t, err)

	assert.Equal(t, 2024, resp.Year)
	require.Len(t, resp.Results, 1)
	b := resp.Results[0].Breakdown
	assert.True(t, b.Gross.Equal(dec("120000000")))
	assert.True(t, b.WithheldBefore.Equal(dec("2750000")))
	assert.True(t, b.AnnualTax.Equal(dec("3000000")))

	d := f.detailOf(t, december, emp.ID)
	assert.True(t, d.Tax.Equal(dec("250000")), "got %s", d.Tax)
	assert.True(t, d.Total.Equal(dec("9750000")))
}

func TestReconcileAnnualTax_ClampsToZero(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", strPtr("1"), "5000000")
	ctx := context.Background()

	nov := f.generate(t, "2024-11")
	d := f.detailOf(t, nov.Period.ID, emp.ID)
	d.Tax = dec("400000")
	d.Total = d.ComputeTotal()
	_, err := f.payroll.UpdateDetailAmounts(ctx, d)
	require.NoError(t, err)

	dec2024 := f.generate(t, "2024-12")
	resp, err := f.svc.ReconcileAnnualTax(ctx, dec2024.Period.ID)
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Breakdown.Difference.Equal(dec("-400000")))

	stored := f.detailOf(t, dec2024.Period.ID, emp.ID)
	assert.True(t, stored.Tax.IsZero(), "december tax must not go negative, got %s", stored.Tax)
	assert.True(t, stored.Total.Equal(dec("5000000")))
}

func TestReconcileAnnualTax_InvalidPeriod(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", strPtr("1"), "10000000")
	ctx := context.Background()

	nov := f.generate(t, "2024-11")
	_, err := f.svc.ReconcileAnnualTax(ctx, nov.Period.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	december := f.generate(t, "2024-12")
	f.setStatus(december.Period.ID, payroll.StatusApproved)
	_, err = f.svc.ReconcileAnnualTax(ctx, december.Period.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}
