package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPosting is the input to a payroll journal.
type PayrollPosting struct {
	PeriodID       string
	PeriodKey      string
	PeriodSequence int64
	Date           time.Time
	TotalGross     decimal.Decimal
	TotalTax       decimal.Decimal
	TotalNet       decimal.Decimal
	PostedBy       string
}

type LedgerService interface {
	// PostPayroll writes the balanced payroll journal. It runs inside the
	// caller's transaction when ctx carries one.
	PostPayroll(ctx context.Context, posting PayrollPosting) (Journal, error)
	ListJournals(ctx context.Context, filter JournalFilter) (ListJournalResponse, error)
	GetJournal(ctx context.Context, id string) (JournalResponse, error)
}
