package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/tax"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode      string  `json:"employee_code"`
	FullName          string  `json:"full_name"`
	HireDate          string  `json:"hire_date"`
	EmploymentType    string  `json:"employment_type"`
	PayBasis          string  `json:"pay_basis"`
	TaxID             *string `json:"tax_id,omitempty"`
	TaxStatus         string  `json:"tax_status"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	BankAccountHolder *string `json:"bank_account_holder,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.FullName = strings.TrimSpace(r.FullName)

	if r.EmployeeCode == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	} else if len(r.EmployeeCode) > 50 {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "must be at most 50 characters"})
	}
	if r.FullName == "" {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.EmploymentType == "" {
		r.EmploymentType = string(EmploymentTypePermanent)
	}
	if !EmploymentType(r.EmploymentType).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "must be PERMANENT, CONTRACT, INTERNSHIP or PROBATION"})
	}
	if r.PayBasis == "" {
		r.PayBasis = string(PayBasisMonthly)
	}
	if !PayBasis(r.PayBasis).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pay_basis", Message: "must be MONTHLY or PROJECT"})
	}
	r.TaxStatus = tax.NormalizeStatus(r.TaxStatus)
	if r.TaxID != nil {
		taxID, msg := normalizeTaxID(*r.TaxID)
		if msg != "" {
			errs = append(errs, validator.ValidationError{Field: "tax_id", Message: msg})
		}
		r.TaxID = &taxID
		if taxID == "" {
			r.TaxID = nil
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest edits payroll attributes only. Nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	ID                string  `json:"-"`
	FullName          *string `json:"full_name,omitempty"`
	EmploymentType    *string `json:"employment_type,omitempty"`
	PayBasis          *string `json:"pay_basis,omitempty"`
	TaxID             *string `json:"tax_id,omitempty"`
	TaxStatus         *string `json:"tax_status,omitempty"`
	Active            *bool   `json:"active,omitempty"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	BankAccountHolder *string `json:"bank_account_holder,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "cannot be empty"})
	}
	if r.EmploymentType != nil && !EmploymentType(*r.EmploymentType).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "must be PERMANENT, CONTRACT, INTERNSHIP or PROBATION"})
	}
	if r.PayBasis != nil && !PayBasis(*r.PayBasis).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pay_basis", Message: "must be MONTHLY or PROJECT"})
	}
	if r.TaxStatus != nil {
		normalized := tax.NormalizeStatus(*r.TaxStatus)
		r.TaxStatus = &normalized
	}
	// An empty tax_id clears the registration number.
	if r.TaxID != nil {
		taxID, msg := normalizeTaxID(*r.TaxID)
		if msg != "" {
			errs = append(errs, validator.ValidationError{Field: "tax_id", Message: msg})
		}
		r.TaxID = &taxID
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

var taxIDSeparators = strings.NewReplacer(".", "", "-", "", " ", "")

// normalizeTaxID strips NPWP punctuation. Both the 15-digit NPWP and the
// 16-digit NIK form are accepted.
func normalizeTaxID(raw string) (string, string) {
	taxID := taxIDSeparators.Replace(strings.TrimSpace(raw))
	if taxID == "" {
		return "", ""
	}
	if !validator.IsNumeric(taxID) || (len(taxID) != 15 && len(taxID) != 16) {
		return taxID, "must be a 15 or 16 digit tax number"
	}
	return taxID, ""
}

type ProvisionLoginRequest struct {
	EmployeeID string `json:"-"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

func (r *ProvisionLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "must be at least 8 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Search *string
	Active *bool
	Page   int
	Limit  int
}

func (f *EmployeeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type EmployeeResponse struct {
	ID                string  `json:"id"`
	UserID            *string `json:"user_id,omitempty"`
	EmployeeCode      string  `json:"employee_code"`
	FullName          string  `json:"full_name"`
	HireDate          string  `json:"hire_date"`
	EmploymentType    string  `json:"employment_type"`
	PayBasis          string  `json:"pay_basis"`
	TaxID             *string `json:"tax_id,omitempty"`
	TaxStatus         string  `json:"tax_status"`
	Active            bool    `json:"active"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	BankAccountHolder *string `json:"bank_account_holder,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		UserID:            e.UserID,
		EmployeeCode:      e.EmployeeCode,
		FullName:          e.FullName,
		HireDate:          e.HireDate.Format(time.DateOnly),
		EmploymentType:    string(e.EmploymentType),
		PayBasis:          string(e.PayBasis),
		TaxID:             e.TaxID,
		TaxStatus:         e.TaxStatus,
		Active:            e.Active,
		BankName:          e.BankName,
		BankAccountNumber: e.BankAccountNumber,
		BankAccountHolder: e.BankAccountHolder,
	}
}

type ListEmployeeResponse struct {
	Data       []EmployeeResponse `json:"data"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

type DeleteEmployeeResponse struct {
	ID      string        `json:"id"`
	Outcome DeleteOutcome `json:"outcome"`
}
