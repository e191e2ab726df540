package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account codes used by payroll posting.
const (
	AccountSalaryExpense    = "5101"
	AccountCashBank         = "1101"
	AccountSalaryPayable    = "2101" // credited with withheld deductions
	AccountIncomeTaxPayable = "2102"
)

const ReferencePayrollPeriod = "PAYROLL_PERIOD"

// JournalNumber formats JU-YYYYMM-NNNN from a period key and the period's
// sequence number.
func JournalNumber(periodKey string, sequence int64) string {
	return fmt.Sprintf("JU-%s-%04d", strings.ReplaceAll(periodKey, "-", ""), sequence)
}

type Account struct {
	ID         string
	Code       string
	Name       string
	Category   string
	NormalSide string
}

type Journal struct {
	ID            string
	Number        string
	Date          time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	CreatedBy     *string
	CreatedAt     time.Time
	Lines         []JournalLine
}

type JournalLine struct {
	ID          string
	JournalID   string
	AccountID   string
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// Sums returns the total debit and credit across lines.
func (j Journal) Sums() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range j.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether the lines balance and match the header totals.
func (j Journal) IsBalanced() bool {
	debit, credit := j.Sums()
	return debit.Equal(credit) && debit.Equal(j.TotalDebit) && credit.Equal(j.TotalCredit)
}
