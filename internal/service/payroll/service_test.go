package payroll

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f fixture) setStatus(periodID string, status payroll.PeriodStatus) {
	p := f.payroll.periods[periodID]
	p.Status = status
	f.payroll.periods[periodID] = p
}

func TestGeneratePeriod(t *testing.T) {
	f := newFixture(Options{})
	a := f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	b := f.addEmployee("EMP-002", "K/1", nil, "7500000")

	resp := f.generate(t, "2025-03")

	assert.Equal(t, 2, resp.Created)
	assert.Empty(t, resp.Skipped)
	assert.Equal(t, string(payroll.StatusDraft), resp.Period.Status)
	assert.Equal(t, 2, resp.Period.DetailCount)

	for _, emp := range []struct {
		id     string
		salary string
	}{{a.ID, "10000000"}, {b.ID, "7500000"}} {
		d := f.detailOf(t, resp.Period.ID, emp.id)
		assert.True(t, d.BaseSalary.Equal(dec(emp.salary)))
		assert.True(t, d.Allowances.IsZero())
		assert.True(t, d.Deductions.IsZero())
		assert.True(t, d.Tax.IsZero())
		assert.True(t, d.Total.Equal(d.BaseSalary))
	}
}

func TestGeneratePeriod_UsesPlacementOnLastDay(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "8000000")
	open := &f.placements.placements[0]
	closed := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	open.ValidTo = &closed
	f.placements.placements = append(f.placements.placements, placement.Placement{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		JobTitleID: uuid.NewString(),
		BaseSalary: dec("9500000"),
		ValidFrom:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	})

	resp := f.generate(t, "2025-03")

	d := f.detailOf(t, resp.Period.ID, emp.ID)
	assert.True(t, d.BaseSalary.Equal(dec("9500000")))
}

func TestGeneratePeriod_SkipsEmployeesWithoutPlacement(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", nil, "8000000")
	late := f.addEmployee("EMP-002", "TK/0", nil, "8000000")
	f.placements.placements[1].ValidFrom = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	resp := f.generate(t, "2025-03")

	assert.Equal(t, 1, resp.Created)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, late.ID, resp.Skipped[0].EmployeeID)
	assert.Equal(t, SkipReasonNoPlacement, resp.Skipped[0].Reason)
}

func TestGeneratePeriod_IgnoresInactiveEmployees(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", nil, "8000000")
	gone := f.addEmployee("EMP-002", "TK/0", nil, "8000000")
	gone.Active = false
	f.employees.employees[gone.ID] = gone

	resp := f.generate(t, "2025-03")

	assert.Equal(t, 1, resp.Created)
	assert.Empty(t, resp.Skipped)
}

func TestGeneratePeriod_Duplicate(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", nil, "8000000")
	first := f.generate(t, "2025-03")
	f.addEmployee("EMP-002", "TK/0", nil, "8000000")

	_, err := f.svc.GeneratePeriod(context.Background(), payroll.GeneratePeriodRequest{PeriodKey: "2025-03"})

	require.ErrorIs(t, err, payroll.ErrDuplicatePeriod)
	var dup *payroll.DuplicatePeriodError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.Period.ID, dup.Existing.ID)
	assert.Equal(t, 1, dup.Existing.DetailCount)

	n, err := f.payroll.CountDetails(context.Background(), first.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGeneratePeriod_InvalidKey(t *testing.T) {
	f := newFixture(Options{})

	_, err := f.svc.GeneratePeriod(context.Background(), payroll.GeneratePeriodRequest{PeriodKey: "2025-13"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, f.payroll.periods)
}

func TestGetPeriod_TotalsDetails(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	f.addEmployee("EMP-002", "TK/0", nil, "5000000")
	gen := f.generate(t, "2025-03")

	resp, err := f.svc.GetPeriod(context.Background(), gen.Period.ID)
	require.NoError(t, err)

	assert.Len(t, resp.Details, 2)
	assert.True(t, resp.TotalCost.Equal(dec("15000000")))
	require.NotNil(t, resp.Period.TotalCost)
	assert.True(t, resp.Period.TotalCost.Equal(dec("15000000")))
}

func TestPeriodSummaries_OmitAmounts(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	f.addEmployee("EMP-002", "TK/0", nil, "5000000")
	gen := f.generate(t, "2025-03")

	summary, err := f.svc.GetPeriodSummary(context.Background(), gen.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03", summary.PeriodKey)
	assert.Equal(t, string(payroll.StatusDraft), summary.Status)
	assert.Equal(t, 2, summary.DetailCount)

	list, err := f.svc.ListPeriodSummaries(context.Background(), payroll.PeriodFilter{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, 2, list.Data[0].DetailCount)
	assert.Equal(t, 1, list.Page)

	_, err = f.svc.GetPeriodSummary(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)
}

func TestGetStats(t *testing.T) {
	f := newFixture(Options{})
	f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	paid := f.generate(t, "2025-01")
	f.setStatus(paid.Period.ID, payroll.StatusPaid)
	pending := f.generate(t, "2025-02")
	f.setStatus(pending.Period.ID, payroll.StatusSubmitted)
	f.generate(t, "2025-03")

	stats, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.PaidYearToDate.Equal(dec("10000000")))
	assert.Equal(t, int64(2), stats.ActivePeriods)
	assert.Equal(t, int64(1), stats.ActiveEmployees)
	assert.Equal(t, int64(1), stats.PendingApprovals)
}

// ========== DETAILS AND COMPONENTS ==========

func assertTotalInvariant(t *testing.T, d payroll.DetailResponse) {
	t.Helper()
	want := d.BaseSalary.Add(d.Allowances).Sub(d.Deductions).Sub(d.Tax)
	assert.True(t, d.Total.Equal(want), "total %s, want %s", d.Total, want)
}

func TestComponents_RecomputeTotals(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", strPtr("1"), "10000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)
	ctx := context.Background()

	_, err := f.svc.CalculateProgressiveTax(ctx, d.ID)
	require.NoError(t, err)

	meal, err := f.svc.AddComponent(ctx, payroll.CreateComponentRequest{
		DetailID: d.ID, Kind: "allowance", Name: "Meal allowance", Amount: dec("750000"),
	})
	require.NoError(t, err)
	assert.True(t, meal.Detail.Allowances.Equal(dec("750000")))
	assertTotalInvariant(t, meal.Detail)

	loan, err := f.svc.AddComponent(ctx, payroll.CreateComponentRequest{
		DetailID: d.ID, Kind: "DEDUCTION", Name: "Cooperative loan", Amount: dec("200000"),
	})
	require.NoError(t, err)
	assert.True(t, loan.Detail.Deductions.Equal(dec("200000")))
	assert.True(t, loan.Detail.Total.Equal(dec("10300000")))
	assertTotalInvariant(t, loan.Detail)

	amount := dec("500000")
	updated, err := f.svc.UpdateComponent(ctx, payroll.UpdateComponentRequest{ID: meal.Component.ID, Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.Detail.Allowances.Equal(dec("500000")))
	assertTotalInvariant(t, updated.Detail)

	deleted, err := f.svc.DeleteComponent(ctx, loan.Component.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted.Component)
	assert.True(t, deleted.Detail.Deductions.IsZero())
	assert.True(t, deleted.Detail.Total.Equal(dec("10250000")))
	assertTotalInvariant(t, deleted.Detail)

	list, err := f.svc.ListComponents(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Meal allowance", list[0].Name)
}

func TestComponents_LockedOutsideDraft(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)
	ctx := context.Background()

	added, err := f.svc.AddComponent(ctx, payroll.CreateComponentRequest{
		DetailID: d.ID, Kind: "ALLOWANCE", Name: "Transport", Amount: dec("300000"),
	})
	require.NoError(t, err)

	for _, status := range []payroll.PeriodStatus{payroll.StatusSubmitted, payroll.StatusApproved, payroll.StatusPaid} {
		f.setStatus(gen.Period.ID, status)

		_, err = f.svc.AddComponent(ctx, payroll.CreateComponentRequest{
			DetailID: d.ID, Kind: "ALLOWANCE", Name: "Bonus", Amount: dec("1"),
		})
		assert.ErrorIs(t, err, payroll.ErrPeriodLocked, status)

		_, err = f.svc.DeleteComponent(ctx, added.Component.ID)
		assert.ErrorIs(t, err, payroll.ErrPeriodLocked, status)

		allowances := dec("1")
		_, err = f.svc.UpdateDetail(ctx, payroll.UpdateDetailRequest{ID: d.ID, Allowances: &allowances})
		assert.ErrorIs(t, err, payroll.ErrPeriodLocked, status)

		_, err = f.svc.RecomputeDetailTotals(ctx, d.ID)
		assert.ErrorIs(t, err, payroll.ErrPeriodLocked, status)
	}

	stored := f.detailOf(t, gen.Period.ID, emp.ID)
	assert.True(t, stored.Allowances.Equal(dec("300000")))
	assert.Len(t, f.payroll.components, 1)
}

func TestUpdateDetail_DirectEdit(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)

	deductions := dec("125000")
	resp, err := f.svc.UpdateDetail(context.Background(), payroll.UpdateDetailRequest{ID: d.ID, Deductions: &deductions})
	require.NoError(t, err)

	assert.True(t, resp.Deductions.Equal(deductions))
	assert.True(t, resp.Allowances.IsZero())
	assert.True(t, resp.Total.Equal(dec("9875000")))
	assertTotalInvariant(t, resp)
}

func TestUpdateDetail_RejectsSubCentAmounts(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "100")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)

	allowances, deductions := dec("0.004"), dec("0.006")
	_, err := f.svc.UpdateDetail(context.Background(), payroll.UpdateDetailRequest{
		ID:         d.ID,
		Allowances: &allowances,
		Deductions: &deductions,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "allowances")
	assert.Contains(t, verrs.ToMap(), "deductions")

	stored, err := f.svc.GetDetail(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, stored.Allowances.IsZero())
	assert.True(t, stored.Deductions.IsZero())
	assertTotalInvariant(t, stored)
}

func TestGetDetail_NotFound(t *testing.T) {
	f := newFixture(Options{})

	_, err := f.svc.GetDetail(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, payroll.ErrDetailNotFound)
}

// ========== PAYMENT PROOF ==========

func TestUploadPaymentProof(t *testing.T) {
	f := newFixture(Options{})
	emp := f.addEmployee("EMP-001", "TK/0", nil, "10000000")
	gen := f.generate(t, "2025-03")
	d := f.detailOf(t, gen.Period.ID, emp.ID)
	ctx := context.Background()

	upload := func() (payroll.PaymentProofResponse, error) {
		return f.svc.UploadPaymentProof(ctx, payroll.UploadPaymentProofRequest{
			DetailID: d.ID,
			File:     bytes.NewReader([]byte("%PDF-1.4 receipt")),
			Filename: "receipt.PDF",
			Size:     16,
		})
	}

	_, err := upload()
	require.ErrorIs(t, err, payroll.ErrPeriodLocked)
	assert.Empty(t, f.files.stored)

	f.setStatus(gen.Period.ID, payroll.StatusApproved)
	first, err := upload()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Path, "payment-proofs/2025-03/"+d.ID))
	assert.Equal(t, "http://files.test/"+first.Path, first.URL)

	second, err := upload()
	require.NoError(t, err)
	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, []string{first.Path}, f.files.deleted)

	stored := f.detailOf(t, gen.Period.ID, emp.ID)
	require.NotNil(t, stored.PaymentProof)
	assert.Equal(t, second.Path, *stored.PaymentProof)
}

func TestUploadPaymentProof_RejectsFileType(t *testing.T) {
	f := newFixture(Options{})

	_, err := f.svc.UploadPaymentProof(context.Background(), payroll.UploadPaymentProofRequest{
		DetailID: uuid.NewString(),
		File:     bytes.NewReader([]byte("MZ")),
		Filename: "receipt.exe",
		Size:     2,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}
