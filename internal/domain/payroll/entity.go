package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the lifecycle state of a payroll period.
type PeriodStatus string

const (
	StatusDraft     PeriodStatus = "DRAFT"
	StatusSubmitted PeriodStatus = "SUBMITTED_FOR_APPROVAL"
	StatusApproved  PeriodStatus = "APPROVED"
	StatusPaid      PeriodStatus = "PAID"
)

func (s PeriodStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// Period is one calendar month's payroll run keyed by "YYYY-MM".
type Period struct {
	ID          string
	Sequence    int64
	PeriodKey   string
	Status      PeriodStatus
	Note        *string
	CreatedBy   *string
	SubmittedBy *string
	SubmittedAt *time.Time
	ApprovedBy  *string
	ApprovedAt  *time.Time
	PaidBy      *string
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Aggregates, filled by list queries
	DetailCount int
	TotalCost   decimal.Decimal
}

// Year and Month are parsed from PeriodKey; both are zero for a malformed key.
func (p Period) Year() int {
	y, _, _ := ParsePeriodKey(p.PeriodKey)
	return y
}

func (p Period) Month() time.Month {
	_, m, _ := ParsePeriodKey(p.PeriodKey)
	return m
}

func (p Period) IsDecember() bool {
	return p.Month() == time.December
}

// LastDay is the last calendar day of the period's month.
func (p Period) LastDay() time.Time {
	y, m, err := ParsePeriodKey(p.PeriodKey)
	if err != nil {
		return time.Time{}
	}
	return LastDayOfMonth(y, m)
}

// ParsePeriodKey splits "YYYY-MM" into year and month.
func ParsePeriodKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil || len(key) != 7 {
		return 0, 0, fmt.Errorf("%w: %q is not in YYYY-MM form", ErrInvalidPeriod, key)
	}
	return t.Year(), t.Month(), nil
}

func LastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Detail is one employee's row inside a period. EmployeeID becomes nil when
// the employee record no longer exists.
type Detail struct {
	ID           string
	PeriodID     string
	EmployeeID   *string
	JobTitleID   *string
	BaseSalary   decimal.Decimal
	Allowances   decimal.Decimal
	Deductions   decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	PaymentProof *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	PeriodKey         *string
	PeriodStatus      *PeriodStatus
	EmployeeCode      *string
	EmployeeName      *string
	TaxID             *string
	TaxStatus         *string
	BankName          *string
	BankAccountNumber *string
	BankAccountHolder *string
	JobTitleName      *string
}

// Gross is base salary plus allowances.
func (d Detail) Gross() decimal.Decimal {
	return d.BaseSalary.Add(d.Allowances)
}

// ComputeTotal applies total = base + allowances - deductions - tax.
func (d Detail) ComputeTotal() decimal.Decimal {
	return d.BaseSalary.Add(d.Allowances).Sub(d.Deductions).Sub(d.Tax)
}

// HasEmployee reports whether the detail still links to an employee record.
func (d Detail) HasEmployee() bool {
	return d.EmployeeID != nil && *d.EmployeeID != ""
}

func (d Detail) HasTaxID() bool {
	return d.TaxID != nil && *d.TaxID != ""
}

func (d Detail) HasPaymentProof() bool {
	return d.PaymentProof != nil && *d.PaymentProof != ""
}

type ComponentKind string

const (
	ComponentAllowance ComponentKind = "ALLOWANCE"
	ComponentDeduction ComponentKind = "DEDUCTION"
)

func (k ComponentKind) IsValid() bool {
	return k == ComponentAllowance || k == ComponentDeduction
}

// Component is an ad-hoc adjustment attached to a detail.
type Component struct {
	ID        string
	DetailID  string
	Kind      ComponentKind
	Name      string
	Amount    decimal.Decimal
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComponentSums are the per-kind totals of a detail's components.
type ComponentSums struct {
	Allowances decimal.Decimal
	Deductions decimal.Decimal
}

// PeriodTotals aggregates a period's details for ledger posting.
type PeriodTotals struct {
	DetailCount int
	Gross       decimal.Decimal
	Tax         decimal.Decimal
	Net         decimal.Decimal
}

// AnnualTotals aggregates one employee's details over a calendar year.
type AnnualTotals struct {
	Gross          decimal.Decimal
	WithheldBefore decimal.Decimal
}

// LockMode selects the row lock taken by LockPeriod.
type LockMode int

const (
	LockForShare LockMode = iota
	LockForUpdate
)

// StatusChange describes one persisted transition.
type StatusChange struct {
	PeriodID string
	From     PeriodStatus
	To       PeriodStatus
	ActorID  string
	At       time.Time
	Note     *string
}
