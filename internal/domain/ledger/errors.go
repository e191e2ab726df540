package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrJournalNotFound       = errors.New("journal not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrJournalExists         = errors.New("journal already posted for this reference")
	ErrUnbalancedJournal     = errors.New("journal debit and credit do not balance")
	ErrChartOfAccountMissing = errors.New("required chart of account entry is missing")
)

// DataIntegrityError is a fatal posting failure caused by missing or
// inconsistent reference data.
type DataIntegrityError struct {
	AccountCode string
	Err         error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: account %s: %v", e.AccountCode, e.Err)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
