package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// PostPayroll implements ledger.LedgerService.
//
// Lines: debit salary expense for gross, credit cash for net, credit PPh21
// payable for tax and credit salaries payable for withheld deductions. The
// last two are written only when non-zero.
func (s *LedgerServiceImpl) PostPayroll(ctx context.Context, posting ledger.PayrollPosting) (ledger.Journal, error) {
	// Journal lines are one-sided and non-negative.
	if posting.TotalNet.IsNegative() || posting.TotalTax.IsNegative() {
		return ledger.Journal{}, fmt.Errorf("%w: negative net %s or tax %s for period %s",
			ledger.ErrUnbalancedJournal, posting.TotalNet, posting.TotalTax, posting.PeriodKey)
	}

	deductions := posting.TotalGross.Sub(posting.TotalNet).Sub(posting.TotalTax)
	if deductions.IsNegative() {
		return ledger.Journal{}, fmt.Errorf("%w: net %s plus tax %s exceeds gross %s",
			ledger.ErrUnbalancedJournal, posting.TotalNet, posting.TotalTax, posting.TotalGross)
	}

	codes := []string{ledger.AccountSalaryExpense, ledger.AccountCashBank}
	if posting.TotalTax.IsPositive() {
		codes = append(codes, ledger.AccountIncomeTaxPayable)
	}
	if deductions.IsPositive() {
		codes = append(codes, ledger.AccountSalaryPayable)
	}

	var posted ledger.Journal
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		accounts, err := s.ledgerRepo.GetAccountsByCode(txCtx, codes)
		if err != nil {
			return err
		}
		for _, code := range codes {
			if _, ok := accounts[code]; !ok {
				slog.Error("chart of account entry missing, payroll posting aborted",
					"account_code", code, "period_id", posting.PeriodID, "period", posting.PeriodKey)
				return &ledger.DataIntegrityError{AccountCode: code, Err: ledger.ErrChartOfAccountMissing}
			}
		}

		journal := buildPayrollJournal(posting, deductions, accounts)
		if !journal.IsBalanced() {
			debit, credit := journal.Sums()
			return fmt.Errorf("%w: debit %s, credit %s", ledger.ErrUnbalancedJournal, debit, credit)
		}

		posted, err = s.ledgerRepo.CreateJournal(txCtx, journal)
		return err
	})
	if err != nil {
		return ledger.Journal{}, err
	}

	slog.Info("payroll journal posted",
		"journal_number", posted.Number,
		"period", posting.PeriodKey,
		"total_debit", posted.TotalDebit.StringFixed(2),
	)
	return posted, nil
}

func buildPayrollJournal(posting ledger.PayrollPosting, deductions decimal.Decimal, accounts map[string]ledger.Account) ledger.Journal {
	line := func(code string, debit, credit decimal.Decimal, description string) ledger.JournalLine {
		a := accounts[code]
		return ledger.JournalLine{
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
			Debit:       debit,
			Credit:      credit,
			Description: description,
		}
	}

	lines := []ledger.JournalLine{
		line(ledger.AccountSalaryExpense, posting.TotalGross, decimal.Zero, "Salary expense"),
		line(ledger.AccountCashBank, decimal.Zero, posting.TotalNet, "Net salary paid"),
	}
	if posting.TotalTax.IsPositive() {
		lines = append(lines, line(ledger.AccountIncomeTaxPayable, decimal.Zero, posting.TotalTax, "PPh21 withheld"))
	}
	if deductions.IsPositive() {
		lines = append(lines, line(ledger.AccountSalaryPayable, decimal.Zero, deductions, "Salary deductions withheld"))
	}

	postedBy := posting.PostedBy
	return ledger.Journal{
		Number:        ledger.JournalNumber(posting.PeriodKey, posting.PeriodSequence),
		Date:          posting.Date,
		Description:   fmt.Sprintf("Payroll payment for period %s", posting.PeriodKey),
		ReferenceType: ledger.ReferencePayrollPeriod,
		ReferenceID:   posting.PeriodID,
		TotalDebit:    posting.TotalGross,
		TotalCredit:   posting.TotalGross,
		CreatedBy:     &postedBy,
		Lines:         lines,
	}
}
