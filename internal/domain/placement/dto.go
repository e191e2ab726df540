package placement

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AddPlacementRequest struct {
	EmployeeID string          `json:"-"`
	JobTitleID string          `json:"job_title_id"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	ValidFrom  string          `json:"valid_from"`
	ChangeType string          `json:"change_type"`
	Note       *string         `json:"note,omitempty"`

	// Set by Validate
	ValidFromDate time.Time `json:"-"`
}

func (r *AddPlacementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.JobTitleID) {
		errs = append(errs, validator.ValidationError{Field: "job_title_id", Message: "is required"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	} else if !r.BaseSalary.Equal(r.BaseSalary.Round(2)) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must have at most 2 decimal places"})
	}
	if d, ok := validator.IsValidDate(r.ValidFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "valid_from", Message: "must be in YYYY-MM-DD format"})
	} else {
		r.ValidFromDate = d
	}
	r.ChangeType = strings.ToUpper(strings.TrimSpace(r.ChangeType))
	if !ChangeType(r.ChangeType).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "change_type", Message: "must be ENTRY, PROMOTION, TRANSFER, DEMOTION or ADJUSTMENT"})
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{Field: "note", Message: "must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PlacementResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employee_id"`
	JobTitleID     string           `json:"job_title_id"`
	JobTitleName   *string          `json:"job_title_name,omitempty"`
	DepartmentName *string          `json:"department_name,omitempty"`
	GradeName      *string          `json:"grade_name,omitempty"`
	BaseSalary     decimal.Decimal  `json:"base_salary"`
	BaseSalaryMin  *decimal.Decimal `json:"base_salary_min,omitempty"`
	BaseSalaryMax  *decimal.Decimal `json:"base_salary_max,omitempty"`
	ValidFrom      string           `json:"valid_from"`
	ValidTo        *string          `json:"valid_to"`
	ChangeType     string           `json:"change_type"`
	Note           *string          `json:"note,omitempty"`
	Current        bool             `json:"current"`
}

func NewPlacementResponse(p Placement) PlacementResponse {
	resp := PlacementResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		JobTitleID:     p.JobTitleID,
		JobTitleName:   p.JobTitleName,
		DepartmentName: p.DepartmentName,
		GradeName:      p.GradeName,
		BaseSalary:     p.BaseSalary,
		BaseSalaryMin:  p.BaseSalaryMin,
		BaseSalaryMax:  p.BaseSalaryMax,
		ValidFrom:      p.ValidFrom.Format(time.DateOnly),
		ChangeType:     string(p.ChangeType),
		Note:           p.Note,
		Current:        p.IsOpen(),
	}
	if p.ValidTo != nil {
		s := p.ValidTo.Format(time.DateOnly)
		resp.ValidTo = &s
	}
	return resp
}
