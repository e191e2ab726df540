package payroll

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/tax"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
	ledgersvc "github.com/cmlabs-hris/hris-payroll-go/internal/service/ledger"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type passThroughTransactor struct{}

func (passThroughTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

// ========== PAYROLL REPOSITORY ==========

type fakePayrollRepo struct {
	employees  map[string]employee.Employee
	periods    map[string]payroll.Period
	details    map[string]payroll.Detail
	detailIDs  []string
	components map[string]payroll.Component
	compIDs    []string
	sequence   int64
}

func newFakePayrollRepo(employees map[string]employee.Employee) *fakePayrollRepo {
	return &fakePayrollRepo{
		employees:  employees,
		periods:    map[string]payroll.Period{},
		details:    map[string]payroll.Detail{},
		components: map[string]payroll.Component{},
	}
}

func (r *fakePayrollRepo) withAggregates(p payroll.Period) payroll.Period {
	p.DetailCount = 0
	p.TotalCost = decimal.Zero
	for _, id := range r.detailIDs {
		if d := r.details[id]; d.PeriodID == p.ID {
			p.DetailCount++
			p.TotalCost = p.TotalCost.Add(d.Total)
		}
	}
	return p
}

func (r *fakePayrollRepo) CreatePeriod(_ context.Context, p payroll.Period) (payroll.Period, error) {
	for _, existing := range r.periods {
		if existing.PeriodKey == p.PeriodKey {
			return payroll.Period{}, payroll.ErrDuplicatePeriod
		}
	}
	r.sequence++
	p.ID = uuid.NewString()
	p.Sequence = r.sequence
	p.CreatedAt = time.Now()
	r.periods[p.ID] = p
	return p, nil
}

func (r *fakePayrollRepo) GetPeriodByID(_ context.Context, id string) (payroll.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return r.withAggregates(p), nil
}

func (r *fakePayrollRepo) GetPeriodByKey(_ context.Context, key string) (payroll.Period, error) {
	for _, p := range r.periods {
		if p.PeriodKey == key {
			return r.withAggregates(p), nil
		}
	}
	return payroll.Period{}, payroll.ErrPeriodNotFound
}

func (r *fakePayrollRepo) LockPeriod(ctx context.Context, id string, _ payroll.LockMode) (payroll.Period, error) {
	return r.GetPeriodByID(ctx, id)
}

func (r *fakePayrollRepo) ListPeriods(_ context.Context, filter payroll.PeriodFilter) ([]payroll.Period, int64, error) {
	var out []payroll.Period
	for _, p := range r.periods {
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, r.withAggregates(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey > out[j].PeriodKey })
	return out, int64(len(out)), nil
}

func (r *fakePayrollRepo) UpdatePeriodStatus(_ context.Context, c payroll.StatusChange) (payroll.Period, error) {
	p, ok := r.periods[c.PeriodID]
	if !ok || p.Status != c.From {
		return payroll.Period{}, &payroll.StateError{Op: "update status", Current: c.From, Kind: payroll.ErrInvalidTransition}
	}
	at, actor := c.At, c.ActorID
	p.Status = c.To
	switch c.To {
	case payroll.StatusDraft:
		p.Note = c.Note
	case payroll.StatusSubmitted:
		p.SubmittedBy, p.SubmittedAt = &actor, &at
	case payroll.StatusApproved:
		p.ApprovedBy, p.ApprovedAt = &actor, &at
	case payroll.StatusPaid:
		p.PaidBy, p.PaidAt = &actor, &at
	}
	r.periods[p.ID] = p
	return p, nil
}

func (r *fakePayrollRepo) CountPeriodsByStatus(_ context.Context, statuses ...payroll.PeriodStatus) (int64, error) {
	var n int64
	for _, p := range r.periods {
		for _, s := range statuses {
			if p.Status == s {
				n++
			}
		}
	}
	return n, nil
}

func (r *fakePayrollRepo) enrich(d payroll.Detail) payroll.Detail {
	if p, ok := r.periods[d.PeriodID]; ok {
		key, status := p.PeriodKey, p.Status
		d.PeriodKey, d.PeriodStatus = &key, &status
	}
	if d.EmployeeID != nil {
		if e, ok := r.employees[*d.EmployeeID]; ok {
			code, name, status := e.EmployeeCode, e.FullName, e.TaxStatus
			d.EmployeeCode, d.EmployeeName, d.TaxStatus = &code, &name, &status
			d.TaxID = e.TaxID
		}
	}
	return d
}

func (r *fakePayrollRepo) CreateDetails(_ context.Context, details []payroll.Detail) (int64, error) {
	for _, d := range details {
		d.ID = uuid.NewString()
		r.details[d.ID] = d
		r.detailIDs = append(r.detailIDs, d.ID)
	}
	return int64(len(details)), nil
}

func (r *fakePayrollRepo) CountDetails(_ context.Context, periodID string) (int, error) {
	n := 0
	for _, d := range r.details {
		if d.PeriodID == periodID {
			n++
		}
	}
	return n, nil
}

func (r *fakePayrollRepo) GetDetail(_ context.Context, id string) (payroll.Detail, error) {
	d, ok := r.details[id]
	if !ok {
		return payroll.Detail{}, payroll.ErrDetailNotFound
	}
	return r.enrich(d), nil
}

func (r *fakePayrollRepo) LockDetail(ctx context.Context, id string) (payroll.Detail, error) {
	return r.GetDetail(ctx, id)
}

func (r *fakePayrollRepo) ListDetailsByPeriod(_ context.Context, periodID string) ([]payroll.Detail, error) {
	var out []payroll.Detail
	for _, id := range r.detailIDs {
		if d := r.details[id]; d.PeriodID == periodID {
			out = append(out, r.enrich(d))
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) ListDetailsByEmployee(_ context.Context, employeeID string, periodKey *string) ([]payroll.Detail, error) {
	var out []payroll.Detail
	for _, id := range r.detailIDs {
		d := r.enrich(r.details[id])
		if d.EmployeeID == nil || *d.EmployeeID != employeeID {
			continue
		}
		if periodKey != nil && (d.PeriodKey == nil || *d.PeriodKey != *periodKey) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakePayrollRepo) GetDetailByEmployeeAndPeriod(_ context.Context, employeeID, periodID string) (payroll.Detail, error) {
	for _, id := range r.detailIDs {
		d := r.details[id]
		if d.PeriodID == periodID && d.EmployeeID != nil && *d.EmployeeID == employeeID {
			return r.enrich(d), nil
		}
	}
	return payroll.Detail{}, payroll.ErrPayslipNotFound
}

func (r *fakePayrollRepo) UpdateDetailAmounts(ctx context.Context, d payroll.Detail) (payroll.Detail, error) {
	existing, ok := r.details[d.ID]
	if !ok {
		return payroll.Detail{}, payroll.ErrDetailNotFound
	}
	existing.Allowances, existing.Deductions = d.Allowances, d.Deductions
	existing.Tax, existing.Total = d.Tax, d.Total
	r.details[d.ID] = existing
	return r.GetDetail(ctx, d.ID)
}

func (r *fakePayrollRepo) UpdateDetailPaymentProof(_ context.Context, id, path string) error {
	d, ok := r.details[id]
	if !ok {
		return payroll.ErrDetailNotFound
	}
	d.PaymentProof = &path
	r.details[id] = d
	return nil
}

func (r *fakePayrollRepo) CountDetailsWithoutProof(_ context.Context, periodID string) (int, error) {
	n := 0
	for _, d := range r.details {
		if d.PeriodID == periodID && !d.HasPaymentProof() {
			n++
		}
	}
	return n, nil
}

func (r *fakePayrollRepo) HasDetailsForEmployee(_ context.Context, employeeID string) (bool, error) {
	for _, d := range r.details {
		if d.EmployeeID != nil && *d.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePayrollRepo) CreateComponent(_ context.Context, c payroll.Component) (payroll.Component, error) {
	c.ID = uuid.NewString()
	r.components[c.ID] = c
	r.compIDs = append(r.compIDs, c.ID)
	return c, nil
}

func (r *fakePayrollRepo) GetComponent(_ context.Context, id string) (payroll.Component, error) {
	c, ok := r.components[id]
	if !ok {
		return payroll.Component{}, payroll.ErrComponentNotFound
	}
	return c, nil
}

func (r *fakePayrollRepo) UpdateComponent(_ context.Context, c payroll.Component) (payroll.Component, error) {
	if _, ok := r.components[c.ID]; !ok {
		return payroll.Component{}, payroll.ErrComponentNotFound
	}
	r.components[c.ID] = c
	return c, nil
}

func (r *fakePayrollRepo) DeleteComponent(_ context.Context, id string) error {
	if _, ok := r.components[id]; !ok {
		return payroll.ErrComponentNotFound
	}
	delete(r.components, id)
	return nil
}

func (r *fakePayrollRepo) ListComponents(_ context.Context, detailID string) ([]payroll.Component, error) {
	var out []payroll.Component
	for _, id := range r.compIDs {
		if c, ok := r.components[id]; ok && c.DetailID == detailID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) SumComponents(_ context.Context, detailID string) (payroll.ComponentSums, error) {
	sums := payroll.ComponentSums{Allowances: decimal.Zero, Deductions: decimal.Zero}
	for _, c := range r.components {
		if c.DetailID != detailID {
			continue
		}
		if c.Kind == payroll.ComponentAllowance {
			sums.Allowances = sums.Allowances.Add(c.Amount)
		} else {
			sums.Deductions = sums.Deductions.Add(c.Amount)
		}
	}
	return sums, nil
}

func (r *fakePayrollRepo) PeriodTotals(_ context.Context, periodID string) (payroll.PeriodTotals, error) {
	t := payroll.PeriodTotals{Gross: decimal.Zero, Tax: decimal.Zero, Net: decimal.Zero}
	for _, d := range r.details {
		if d.PeriodID != periodID {
			continue
		}
		t.DetailCount++
		t.Gross = t.Gross.Add(d.Gross())
		t.Tax = t.Tax.Add(d.Tax)
		t.Net = t.Net.Add(d.Total)
	}
	return t, nil
}

func (r *fakePayrollRepo) AnnualTotals(_ context.Context, employeeID string, year int, beforeKey string) (payroll.AnnualTotals, error) {
	t := payroll.AnnualTotals{Gross: decimal.Zero, WithheldBefore: decimal.Zero}
	for _, d := range r.details {
		p := r.periods[d.PeriodID]
		if d.EmployeeID == nil || *d.EmployeeID != employeeID || p.Year() != year {
			continue
		}
		t.Gross = t.Gross.Add(d.Gross())
		if strings.Compare(p.PeriodKey, beforeKey) < 0 {
			t.WithheldBefore = t.WithheldBefore.Add(d.Tax)
		}
	}
	return t, nil
}

func (r *fakePayrollRepo) SumPaidNetInYear(_ context.Context, year int) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, d := range r.details {
		p := r.periods[d.PeriodID]
		if p.Status == payroll.StatusPaid && p.Year() == year {
			sum = sum.Add(d.Total)
		}
	}
	return sum, nil
}

// ========== OTHER COLLABORATORS ==========

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.Active {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r *fakeEmployeeRepo) CountActive(ctx context.Context) (int64, error) {
	active, _ := r.ListActive(ctx)
	return int64(len(active)), nil
}

type fakePlacementRepo struct {
	placement.PlacementRepository
	placements []placement.Placement
}

func (r *fakePlacementRepo) ListEffectiveOn(_ context.Context, date time.Time) (map[string]placement.Placement, error) {
	byEmployee := map[string][]placement.Placement{}
	for _, p := range r.placements {
		byEmployee[p.EmployeeID] = append(byEmployee[p.EmployeeID], p)
	}
	out := map[string]placement.Placement{}
	for id, ps := range byEmployee {
		if p, ok := placement.EffectiveOn(ps, date); ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeRateRepo struct {
	bands []tax.TERBand
}

func (r fakeRateRepo) ListTERBands(context.Context) ([]tax.TERBand, error) {
	return r.bands, nil
}

type fakeFileService struct {
	file.FileService
	stored  map[string]bool
	deleted []string
}

func (f *fakeFileService) UploadPaymentProof(_ context.Context, periodKey, detailID string, r io.Reader, filename string, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	key := "payment-proofs/" + periodKey + "/" + detailID + "-" + uuid.NewString() + strings.ToLower(filename[strings.LastIndexByte(filename, '.'):])
	f.stored[key] = true
	return key, nil
}

func (f *fakeFileService) DeleteFile(_ context.Context, key string) error {
	delete(f.stored, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileService) FileURL(key string) string {
	return "http://files.test/" + key
}

type fakeLedgerRepo struct {
	ledger.LedgerRepository
	accounts map[string]ledger.Account
	journals []ledger.Journal
}

func (r *fakeLedgerRepo) GetAccountsByCode(_ context.Context, codes []string) (map[string]ledger.Account, error) {
	out := map[string]ledger.Account{}
	for _, c := range codes {
		if a, ok := r.accounts[c]; ok {
			out[c] = a
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) CreateJournal(_ context.Context, j ledger.Journal) (ledger.Journal, error) {
	j.ID = uuid.NewString()
	r.journals = append(r.journals, j)
	return j, nil
}

// ========== FIXTURE ==========

type fixture struct {
	svc        *PayrollServiceImpl
	payroll    *fakePayrollRepo
	employees  *fakeEmployeeRepo
	placements *fakePlacementRepo
	files      *fakeFileService
	ledger     *fakeLedgerRepo
}

func newFixture(opts Options) fixture {
	employees := map[string]employee.Employee{}
	f := fixture{
		payroll:    newFakePayrollRepo(employees),
		employees:  &fakeEmployeeRepo{employees: employees},
		placements: &fakePlacementRepo{},
		files:      &fakeFileService{stored: map[string]bool{}},
		ledger:     &fakeLedgerRepo{accounts: map[string]ledger.Account{}},
	}
	for _, code := range []string{ledger.AccountSalaryExpense, ledger.AccountCashBank, ledger.AccountSalaryPayable, ledger.AccountIncomeTaxPayable} {
		f.ledger.accounts[code] = ledger.Account{ID: uuid.NewString(), Code: code, Name: "account " + code}
	}

	ledgerService := ledgersvc.NewLedgerService(f.ledger, passThroughTransactor{})
	f.svc = NewPayrollService(
		passThroughTransactor{},
		f.payroll,
		f.employees,
		f.placements,
		fakeRateRepo{},
		ledgerService,
		f.files,
		opts,
	).(*PayrollServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC) }
	return f
}

// addEmployee registers an active employee with an open placement starting
// in 2024.
func (f fixture) addEmployee(code, taxStatus string, taxID *string, salary string) employee.Employee {
	e := employee.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: code,
		FullName:     "Employee " + code,
		TaxID:        taxID,
		TaxStatus:    taxStatus,
		Active:       true,
	}
	f.employees.employees[e.ID] = e
	f.placements.placements = append(f.placements.placements, placement.Placement{
		ID:         uuid.NewString(),
		EmployeeID: e.ID,
		JobTitleID: uuid.NewString(),
		BaseSalary: dec(salary),
		ValidFrom:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return e
}

func (f fixture) generate(t *testing.T, key string) payroll.GeneratePeriodResponse {
	t.Helper()
	resp, err := f.svc.GeneratePeriod(context.Background(), payroll.GeneratePeriodRequest{PeriodKey: key})
	require.NoError(t, err)
	return resp
}

func (f fixture) detailOf(t *testing.T, periodID, employeeID string) payroll.Detail {
	t.Helper()
	d, err := f.payroll.GetDetailByEmployeeAndPeriod(context.Background(), employeeID, periodID)
	require.NoError(t, err)
	return d
}

func actorCtx(t *testing.T, role user.Role, employeeID *string) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "15m")
	tokenString, _, err := svc.GenerateAccessToken(uuid.NewString(), "actor@example.com", employeeID, role)
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}
