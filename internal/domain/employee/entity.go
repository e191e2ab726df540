package employee

import (
	"time"
)

type Employee struct {
	ID                string
	UserID            *string
	EmployeeCode      string
	FullName          string
	HireDate          time.Time
	EmploymentType    EmploymentType
	PayBasis          PayBasis
	TaxID             *string
	TaxStatus         string
	Active            bool
	BankName          *string
	BankAccountNumber *string
	BankAccountHolder *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasTaxID reports whether a tax registration number (NPWP) is on file.
func (e Employee) HasTaxID() bool {
	return e.TaxID != nil && *e.TaxID != ""
}

type EmploymentType string

const (
	EmploymentTypePermanent  EmploymentType = "PERMANENT"
	EmploymentTypeContract   EmploymentType = "CONTRACT"
	EmploymentTypeInternship EmploymentType = "INTERNSHIP"
	EmploymentTypeProbation  EmploymentType = "PROBATION"
)

func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentTypePermanent, EmploymentTypeContract, EmploymentTypeInternship, EmploymentTypeProbation:
		return true
	}
	return false
}

type PayBasis string

const (
	PayBasisMonthly PayBasis = "MONTHLY"
	PayBasisProject PayBasis = "PROJECT"
)

func (b PayBasis) IsValid() bool {
	return b == PayBasisMonthly || b == PayBasisProject
}

// DeleteOutcome tells the caller what DeleteEmployee actually did.
type DeleteOutcome string

const (
	DeleteOutcomeDeactivated DeleteOutcome = "deactivated"
	DeleteOutcomeDeleted     DeleteOutcome = "deleted"
)
