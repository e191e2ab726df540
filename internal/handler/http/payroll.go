package http

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Periods
	GetStats(w http.ResponseWriter, r *http.Request)
	GeneratePeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriodSummaries(w http.ResponseWriter, r *http.Request)
	GetPeriodSummary(w http.ResponseWriter, r *http.Request)

	// Details and components
	GetDetail(w http.ResponseWriter, r *http.Request)
	UpdateDetail(w http.ResponseWriter, r *http.Request)
	ListComponents(w http.ResponseWriter, r *http.Request)
	AddComponent(w http.ResponseWriter, r *http.Request)
	UpdateComponent(w http.ResponseWriter, r *http.Request)
	DeleteComponent(w http.ResponseWriter, r *http.Request)
	UploadPaymentProof(w http.ResponseWriter, r *http.Request)
	DownloadPaymentProof(w http.ResponseWriter, r *http.Request)

	// Tax
	CalculateProgressiveTax(w http.ResponseWriter, r *http.Request)
	CalculateTERTax(w http.ResponseWriter, r *http.Request)
	CalculateProgressiveTaxForPeriod(w http.ResponseWriter, r *http.Request)
	CalculateTERTaxForPeriod(w http.ResponseWriter, r *http.Request)
	ReconcileAnnualTax(w http.ResponseWriter, r *http.Request)

	// Workflow
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Self service
	ListMyPayslips(w http.ResponseWriter, r *http.Request)
	GetMyPayslip(w http.ResponseWriter, r *http.Request)
	DownloadMyPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	fileService    file.FileService
}

func NewPayrollHandler(payrollService payroll.PayrollService, fileService file.FileService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		fileService:    fileService,
	}
}

// ========== PERIODS ==========

func (h *payrollHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GeneratePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period generated", result)
}

// periodFilterFromQuery reads status, year, page and limit. Malformed page
// and limit values fall back to the defaults.
func periodFilterFromQuery(r *http.Request) (payroll.PeriodFilter, bool) {
	var filter payroll.PeriodFilter

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return filter, false
		}
		filter.Year = &year
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	return filter, true
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFilterFromQuery(r)
	if !ok {
		response.BadRequest(w, "Invalid year", nil)
		return
	}

	result, err := h.payrollService.ListPeriods(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) ListPeriodSummaries(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFilterFromQuery(r)
	if !ok {
		response.BadRequest(w, "Invalid year", nil)
		return
	}

	result, err := h.payrollService.ListPeriodSummaries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPeriodSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPeriod(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== DETAILS ==========

func (h *payrollHandlerImpl) GetDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Detail ID is required", nil)
		return
	}

	result, err := h.payrollService.GetDetail(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateDetail(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdateDetail(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll detail updated", result)
}

// ========== COMPONENTS ==========

func (h *payrollHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListComponents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) AddComponent(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.DetailID = chi.URLParam(r, "id")

	result, err := h.payrollService.AddComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll component added", result)
}

func (h *payrollHandlerImpl) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll component updated", result)
}

func (h *payrollHandlerImpl) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.DeleteComponent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll component deleted", result)
}

// ========== PAYMENT PROOF ==========

func (h *payrollHandlerImpl) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	// Allow some multipart overhead on top of the file limit
	r.Body = http.MaxBytesReader(w, r.Body, payroll.MaxPaymentProofSize+(1<<20))
	if err := r.ParseMultipartForm(payroll.MaxPaymentProofSize); err != nil {
		response.BadRequest(w, "Invalid multipart form or file too large", nil)
		return
	}

	proof, header, err := r.FormFile("proof")
	if err != nil {
		response.BadRequest(w, "Payment proof file is required", map[string]string{"proof": "is required"})
		return
	}
	defer proof.Close()

	result, err := h.payrollService.UploadPaymentProof(r.Context(), payroll.UploadPaymentProofRequest{
		DetailID: chi.URLParam(r, "id"),
		File:     proof,
		Filename: header.Filename,
		Size:     header.Size,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment proof uploaded", result)
}

func (h *payrollHandlerImpl) DownloadPaymentProof(w http.ResponseWriter, r *http.Request) {
	detail, err := h.payrollService.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if detail.PaymentProof == nil {
		response.NotFound(w, "Payment proof not uploaded")
		return
	}

	rc, contentType, err := h.fileService.OpenFile(r.Context(), *detail.PaymentProof)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, path.Base(*detail.PaymentProof), contentType, content)
}

// ========== TAX ==========

func (h *payrollHandlerImpl) CalculateProgressiveTax(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CalculateProgressiveTax(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CalculateTERTax(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CalculateTERTax(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CalculateProgressiveTaxForPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CalculateProgressiveTaxForPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CalculateTERTaxForPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CalculateTERTaxForPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ReconcileAnnualTax(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ReconcileAnnualTax(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== WORKFLOW ==========

func (h *payrollHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period submitted", result)
}

func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period approved", result)
}

func (h *payrollHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req payroll.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PeriodID = chi.URLParam(r, "id")

	result, err := h.payrollService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period returned to draft", result)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period paid and journal posted", result)
}

// ========== SELF SERVICE ==========

func (h *payrollHandlerImpl) ListMyPayslips(w http.ResponseWriter, r *http.Request) {
	var periodKey *string
	if p := r.URL.Query().Get("period"); p != "" {
		periodKey = &p
	}

	result, err := h.payrollService.ListMyPayslips(r.Context(), periodKey)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetMyPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetMyPayslip(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadMyPayslip(w http.ResponseWriter, r *http.Request) {
	doc, err := h.payrollService.RenderMyPayslipPDF(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, doc.Filename, doc.ContentType, doc.Content)
}
