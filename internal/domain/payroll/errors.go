package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPeriodNotFound        = errors.New("payroll period not found")
	ErrDetailNotFound        = errors.New("payroll detail not found")
	ErrComponentNotFound     = errors.New("payroll component not found")
	ErrPayslipNotFound       = errors.New("payslip not found for this employee and period")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrDuplicatePeriod       = errors.New("payroll period already generated")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidPeriodState    = errors.New("operation not allowed in current period status")
	ErrPeriodLocked          = errors.New("payroll period is locked")
	ErrNoDetails             = errors.New("payroll period has no details")
	ErrPaymentProofMissing   = errors.New("payment proof is missing for one or more details")
	ErrNoEmployeeLink        = errors.New("account is not linked to an employee")
	ErrDetailWithoutEmployee = errors.New("payroll detail has no employee record")
	ErrInvalidProofFile      = errors.New("payment proof must be a jpg, jpeg, png or pdf file up to 2 MB")
)

// StateError reports an operation refused because of the period's status.
// errors.Is matches it against Kind.
type StateError struct {
	Op      string
	Current PeriodStatus
	Kind    error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v (current status %s)", e.Op, e.Kind, e.Current)
}

func (e *StateError) Unwrap() error {
	return e.Kind
}

// DuplicatePeriodError carries the period that already holds the key.
type DuplicatePeriodError struct {
	Existing Period
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicatePeriod, e.Existing.PeriodKey)
}

func (e *DuplicatePeriodError) Unwrap() error {
	return ErrDuplicatePeriod
}
