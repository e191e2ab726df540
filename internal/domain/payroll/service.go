package payroll

import "context"

// PayrollService is the payroll period lifecycle: generation, detail and
// component edits, tax calculation, the approval workflow and payslips.
type PayrollService interface {
	// Periods
	GeneratePeriod(ctx context.Context, req GeneratePeriodRequest) (GeneratePeriodResponse, error)
	ListPeriods(ctx context.Context, filter PeriodFilter) (ListPeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (PeriodDetailResponse, error)
	ListPeriodSummaries(ctx context.Context, filter PeriodFilter) (ListPeriodSummaryResponse, error)
	GetPeriodSummary(ctx context.Context, id string) (PeriodSummaryResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)

	// Details and components
	GetDetail(ctx context.Context, id string) (DetailResponse, error)
	UpdateDetail(ctx context.Context, req UpdateDetailRequest) (DetailResponse, error)
	RecomputeDetailTotals(ctx context.Context, detailID string) (Detail, error)
	ListComponents(ctx context.Context, detailID string) ([]ComponentResponse, error)
	AddComponent(ctx context.Context, req CreateComponentRequest) (ComponentMutationResponse, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) (ComponentMutationResponse, error)
	DeleteComponent(ctx context.Context, id string) (ComponentMutationResponse, error)
	UploadPaymentProof(ctx context.Context, req UploadPaymentProofRequest) (PaymentProofResponse, error)

	// Tax
	CalculateProgressiveTax(ctx context.Context, detailID string) (TaxResult, error)
	CalculateProgressiveTaxForPeriod(ctx context.Context, periodID string) (BulkTaxResponse, error)
	CalculateTERTax(ctx context.Context, detailID string) (TaxResult, error)
	CalculateTERTaxForPeriod(ctx context.Context, periodID string) (BulkTaxResponse, error)
	ReconcileAnnualTax(ctx context.Context, periodID string) (BulkTaxResponse, error)

	// Workflow
	Submit(ctx context.Context, periodID string) (PeriodResponse, error)
	Approve(ctx context.Context, periodID string) (PeriodResponse, error)
	Reject(ctx context.Context, req RejectRequest) (PeriodResponse, error)
	MarkPaid(ctx context.Context, periodID string) (MarkPaidResponse, error)

	// Self service
	ListMyPayslips(ctx context.Context, periodKey *string) (ListPayslipResponse, error)
	GetMyPayslip(ctx context.Context, periodID string) (PayslipResponse, error)
	RenderMyPayslipPDF(ctx context.Context, periodID string) (PayslipDocument, error)
}
