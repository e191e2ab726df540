package payroll

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PERIOD DTOs ==========

type GeneratePeriodRequest struct {
	PeriodKey string `json:"period"`
}

func (r *GeneratePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	r.PeriodKey = strings.TrimSpace(r.PeriodKey)
	if !validator.IsValidPeriodKey(r.PeriodKey) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SkippedEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Reason       string `json:"reason"`
}

type GeneratePeriodResponse struct {
	Period  PeriodResponse    `json:"period"`
	Created int               `json:"created"`
	Skipped []SkippedEmployee `json:"skipped"`
}

type PeriodFilter struct {
	Status *string
	Year   *int
	Page   int
	Limit  int
}

func (f *PeriodFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !PeriodStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "is not a known period status"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodResponse struct {
	ID          string           `json:"id"`
	PeriodKey   string           `json:"period"`
	Status      string           `json:"status"`
	Note        *string          `json:"note,omitempty"`
	SubmittedBy *string          `json:"submitted_by,omitempty"`
	SubmittedAt *string          `json:"submitted_at,omitempty"`
	ApprovedBy  *string          `json:"approved_by,omitempty"`
	ApprovedAt  *string          `json:"approved_at,omitempty"`
	PaidBy      *string          `json:"paid_by,omitempty"`
	PaidAt      *string          `json:"paid_at,omitempty"`
	DetailCount int              `json:"detail_count"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty"`
	CreatedAt   string           `json:"created_at"`
}

type ListPeriodResponse struct {
	Data       []PeriodResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// PeriodSummaryResponse is the amount-free view of a period.
type PeriodSummaryResponse struct {
	ID          string  `json:"id"`
	PeriodKey   string  `json:"period"`
	Status      string  `json:"status"`
	Note        *string `json:"note,omitempty"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	PaidAt      *string `json:"paid_at,omitempty"`
	DetailCount int     `json:"detail_count"`
	CreatedAt   string  `json:"created_at"`
}

type ListPeriodSummaryResponse struct {
	Data       []PeriodSummaryResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PeriodDetailResponse struct {
	Period    PeriodResponse   `json:"period"`
	Details   []DetailResponse `json:"details"`
	TotalCost decimal.Decimal  `json:"total_cost"`
}

type StatsResponse struct {
	PaidYearToDate   decimal.Decimal `json:"paid_ytd"`
	ActivePeriods    int64           `json:"active_periods"`
	ActiveEmployees  int64           `json:"active_employees"`
	PendingApprovals int64           `json:"pending_approvals"`
}

// ========== DETAIL DTOs ==========

type UpdateDetailRequest struct {
	ID         string           `json:"-"`
	Allowances *decimal.Decimal `json:"allowances,omitempty"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
}

func (r *UpdateDetailRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Allowances == nil && r.Deductions == nil {
		errs = append(errs, validator.ValidationError{Field: "allowances", Message: "allowances or deductions is required"})
	}
	if r.Allowances != nil {
		if msg := validateAmount(*r.Allowances); msg != "" {
			errs = append(errs, validator.ValidationError{Field: "allowances", Message: msg})
		}
	}
	if r.Deductions != nil {
		if msg := validateAmount(*r.Deductions); msg != "" {
			errs = append(errs, validator.ValidationError{Field: "deductions", Message: msg})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DetailResponse struct {
	ID                string              `json:"id"`
	PeriodID          string              `json:"period_id"`
	PeriodKey         *string             `json:"period,omitempty"`
	PeriodStatus      *string             `json:"period_status,omitempty"`
	EmployeeID        *string             `json:"employee_id"`
	EmployeeCode      *string             `json:"employee_code,omitempty"`
	EmployeeName      *string             `json:"employee_name,omitempty"`
	BankName          *string             `json:"bank_name,omitempty"`
	BankAccountNumber *string             `json:"bank_account_number,omitempty"`
	BankAccountHolder *string             `json:"bank_account_holder,omitempty"`
	JobTitleID        *string             `json:"job_title_id,omitempty"`
	JobTitleName      *string             `json:"job_title_name,omitempty"`
	BaseSalary        decimal.Decimal     `json:"base_salary"`
	Allowances        decimal.Decimal     `json:"allowances"`
	Deductions        decimal.Decimal     `json:"deductions"`
	Gross             decimal.Decimal     `json:"gross"`
	Tax               decimal.Decimal     `json:"tax"`
	Total             decimal.Decimal     `json:"total"`
	PaymentProof      *string             `json:"payment_proof,omitempty"`
	PaymentProofURL   *string             `json:"payment_proof_url,omitempty"`
	Components        []ComponentResponse `json:"components,omitempty"`
}

type UploadPaymentProofRequest struct {
	DetailID string
	File     io.Reader
	Filename string
	Size     int64
}

const MaxPaymentProofSize = 2 << 20

var paymentProofExts = []string{".jpg", ".jpeg", ".png", ".pdf"}

func (r *UploadPaymentProofRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.File == nil {
		errs = append(errs, validator.ValidationError{Field: "proof", Message: "is required"})
	}
	ext := strings.ToLower(fileExt(r.Filename))
	if !validator.IsInSlice(ext, paymentProofExts) {
		errs = append(errs, validator.ValidationError{Field: "proof", Message: "must be a jpg, jpeg, png or pdf file"})
	}
	if r.Size > MaxPaymentProofSize {
		errs = append(errs, validator.ValidationError{Field: "proof", Message: "must not exceed 2 MB"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fileExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

type PaymentProofResponse struct {
	DetailID string `json:"detail_id"`
	Path     string `json:"path"`
	URL      string `json:"url"`
}

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	DetailID string          `json:"-"`
	Kind     string          `json:"kind"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Kind = strings.ToUpper(strings.TrimSpace(r.Kind))
	r.Name = strings.TrimSpace(r.Name)

	if !ComponentKind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be ALLOWANCE or DEDUCTION"})
	}
	if msg := validateComponentName(r.Name); msg != "" {
		errs = append(errs, validator.ValidationError{Field: "name", Message: msg})
	}
	if msg := validateAmount(r.Amount); msg != "" {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: msg})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID     string           `json:"-"`
	Kind   *string          `json:"kind,omitempty"`
	Name   *string          `json:"name,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (r *UpdateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Kind != nil {
		kind := strings.ToUpper(strings.TrimSpace(*r.Kind))
		r.Kind = &kind
		if !ComponentKind(kind).IsValid() {
			errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be ALLOWANCE or DEDUCTION"})
		}
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if msg := validateComponentName(name); msg != "" {
			errs = append(errs, validator.ValidationError{Field: "name", Message: msg})
		}
	}
	if r.Amount != nil {
		if msg := validateAmount(*r.Amount); msg != "" {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: msg})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateAmount accepts non-negative values with at most two decimal
// places, the precision of every money column.
func validateAmount(amount decimal.Decimal) string {
	switch {
	case amount.IsNegative():
		return "must be non-negative"
	case !amount.Equal(amount.Round(2)):
		return "must have at most 2 decimal places"
	}
	return ""
}

func validateComponentName(name string) string {
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return "is required"
	case n < 2 || n > 100:
		return "must be between 2 and 100 characters"
	}
	return ""
}

type ComponentResponse struct {
	ID       string          `json:"id"`
	DetailID string          `json:"detail_id"`
	Kind     string          `json:"kind"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// ComponentMutationResponse returns the component together with the detail
// totals recomputed after the change.
type ComponentMutationResponse struct {
	Component *ComponentResponse `json:"component,omitempty"`
	Detail    DetailResponse     `json:"detail"`
}

// ========== TAX DTOs ==========

type TaxMethod string

const (
	TaxMethodProgressive    TaxMethod = "PROGRESSIVE"
	TaxMethodTER            TaxMethod = "TER"
	TaxMethodReconciliation TaxMethod = "ANNUAL_RECONCILIATION"
)

// TaxBreakdown explains how a detail's tax was derived. Fields not used by
// the method are omitted.
type TaxBreakdown struct {
	Method                TaxMethod        `json:"method"`
	TaxStatus             string           `json:"tax_status"`
	HasTaxID              bool             `json:"has_tax_id"`
	Gross                 decimal.Decimal  `json:"gross"`
	OccupationalDeduction *decimal.Decimal `json:"occupational_deduction,omitempty"`
	NetMonthly            *decimal.Decimal `json:"net_monthly,omitempty"`
	NetAnnual             *decimal.Decimal `json:"net_annual,omitempty"`
	PTKP                  *decimal.Decimal `json:"ptkp,omitempty"`
	TaxableAnnual         *decimal.Decimal `json:"taxable_annual,omitempty"`
	AnnualTax             *decimal.Decimal `json:"annual_tax,omitempty"`
	Category              *string          `json:"ter_category,omitempty"`
	Rate                  *decimal.Decimal `json:"ter_rate,omitempty"`
	WithheldBefore        *decimal.Decimal `json:"withheld_before,omitempty"`
	// Difference is annual tax minus tax already withheld, before clamping at zero.
	Difference *decimal.Decimal `json:"difference,omitempty"`
	Tax        decimal.Decimal  `json:"tax"`
	Total      decimal.Decimal  `json:"total"`
}

type TaxResult struct {
	DetailID  string          `json:"detail_id"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Breakdown TaxBreakdown    `json:"breakdown"`
}

type SkippedDetail struct {
	DetailID string `json:"detail_id"`
	Reason   string `json:"reason"`
}

type BulkTaxResponse struct {
	PeriodID string          `json:"period_id"`
	Method   TaxMethod       `json:"method"`
	Year     int             `json:"year,omitempty"`
	Updated  int             `json:"updated"`
	Skipped  []SkippedDetail `json:"skipped"`
	Results  []TaxResult     `json:"results"`
}

// ========== WORKFLOW DTOs ==========

type RejectRequest struct {
	PeriodID string `json:"-"`
	Note     string `json:"note"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Note = strings.TrimSpace(r.Note)
	if utf8.RuneCountInString(r.Note) < 3 {
		errs = append(errs, validator.ValidationError{Field: "note", Message: "must be at least 3 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidResponse struct {
	Period  PeriodResponse         `json:"period"`
	Journal ledger.JournalResponse `json:"journal"`
}

// ========== PAYSLIP DTOs ==========

type PayslipEmployee struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
}

type ListPayslipResponse struct {
	Employee PayslipEmployee  `json:"employee"`
	Slips    []DetailResponse `json:"slips"`
}

type PayslipResponse struct {
	Employee PayslipEmployee `json:"employee"`
	Slip     DetailResponse  `json:"slip"`
}

// PayslipDocument is a rendered payslip file.
type PayslipDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ========== MAPPERS ==========

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func NewPeriodResponse(p Period) PeriodResponse {
	return PeriodResponse{
		ID:          p.ID,
		PeriodKey:   p.PeriodKey,
		Status:      string(p.Status),
		Note:        p.Note,
		SubmittedBy: p.SubmittedBy,
		SubmittedAt: formatTime(p.SubmittedAt),
		ApprovedBy:  p.ApprovedBy,
		ApprovedAt:  formatTime(p.ApprovedAt),
		PaidBy:      p.PaidBy,
		PaidAt:      formatTime(p.PaidAt),
		DetailCount: p.DetailCount,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func NewPeriodSummaryResponse(p Period) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		ID:          p.ID,
		PeriodKey:   p.PeriodKey,
		Status:      string(p.Status),
		Note:        p.Note,
		SubmittedAt: formatTime(p.SubmittedAt),
		ApprovedAt:  formatTime(p.ApprovedAt),
		PaidAt:      formatTime(p.PaidAt),
		DetailCount: p.DetailCount,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func NewDetailResponse(d Detail) DetailResponse {
	resp := DetailResponse{
		ID:                d.ID,
		PeriodID:          d.PeriodID,
		PeriodKey:         d.PeriodKey,
		EmployeeID:        d.EmployeeID,
		EmployeeCode:      d.EmployeeCode,
		EmployeeName:      d.EmployeeName,
		BankName:          d.BankName,
		BankAccountNumber: d.BankAccountNumber,
		BankAccountHolder: d.BankAccountHolder,
		JobTitleID:        d.JobTitleID,
		JobTitleName:      d.JobTitleName,
		BaseSalary:        d.BaseSalary,
		Allowances:        d.Allowances,
		Deductions:        d.Deductions,
		Gross:             d.Gross(),
		Tax:               d.Tax,
		Total:             d.Total,
		PaymentProof:      d.PaymentProof,
	}
	if d.PeriodStatus != nil {
		s := string(*d.PeriodStatus)
		resp.PeriodStatus = &s
	}
	return resp
}

func NewComponentResponse(c Component) ComponentResponse {
	return ComponentResponse{
		ID:       c.ID,
		DetailID: c.DetailID,
		Kind:     string(c.Kind),
		Name:     c.Name,
		Amount:   c.Amount,
	}
}
