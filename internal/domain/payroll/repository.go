package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access for periods, details and components.
// Lock methods must run inside a transaction.
type PayrollRepository interface {
	// Periods
	// CreatePeriod returns ErrDuplicatePeriod when the period key is taken.
	CreatePeriod(ctx context.Context, p Period) (Period, error)
	GetPeriodByID(ctx context.Context, id string) (Period, error)
	GetPeriodByKey(ctx context.Context, periodKey string) (Period, error)
	LockPeriod(ctx context.Context, id string, mode LockMode) (Period, error)
	ListPeriods(ctx context.Context, filter PeriodFilter) ([]Period, int64, error)
	UpdatePeriodStatus(ctx context.Context, change StatusChange) (Period, error)
	CountPeriodsByStatus(ctx context.Context, statuses ...PeriodStatus) (int64, error)

	// Details
	CreateDetails(ctx context.Context, details []Detail) (int64, error)
	CountDetails(ctx context.Context, periodID string) (int, error)
	GetDetail(ctx context.Context, id string) (Detail, error)
	LockDetail(ctx context.Context, id string) (Detail, error)
	ListDetailsByPeriod(ctx context.Context, periodID string) ([]Detail, error)
	ListDetailsByEmployee(ctx context.Context, employeeID string, periodKey *string) ([]Detail, error)
	GetDetailByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) (Detail, error)
	UpdateDetailAmounts(ctx context.Context, d Detail) (Detail, error)
	UpdateDetailPaymentProof(ctx context.Context, id string, path string) error
	CountDetailsWithoutProof(ctx context.Context, periodID string) (int, error)
	HasDetailsForEmployee(ctx context.Context, employeeID string) (bool, error)

	// Components
	CreateComponent(ctx context.Context, c Component) (Component, error)
	GetComponent(ctx context.Context, id string) (Component, error)
	UpdateComponent(ctx context.Context, c Component) (Component, error)
	DeleteComponent(ctx context.Context, id string) error
	ListComponents(ctx context.Context, detailID string) ([]Component, error)
	SumComponents(ctx context.Context, detailID string) (ComponentSums, error)

	// Aggregates
	PeriodTotals(ctx context.Context, periodID string) (PeriodTotals, error)
	// AnnualTotals sums gross over every period of year and tax over the
	// periods of year strictly before beforeKey.
	AnnualTotals(ctx context.Context, employeeID string, year int, beforeKey string) (AnnualTotals, error)
	SumPaidNetInYear(ctx context.Context, year int) (decimal.Decimal, error)
}
