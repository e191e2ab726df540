package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LedgerHandler interface {
	ListJournals(w http.ResponseWriter, r *http.Request)
	GetJournal(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

func (h *ledgerHandlerImpl) ListJournals(w http.ResponseWriter, r *http.Request) {
	var filter ledger.JournalFilter
	errs := map[string]string{}

	if from := r.URL.Query().Get("date_from"); from != "" {
		if d, ok := validator.IsValidDate(from); ok {
			filter.DateFrom = &d
		} else {
			errs["date_from"] = "must be in YYYY-MM-DD format"
		}
	}
	if to := r.URL.Query().Get("date_to"); to != "" {
		if d, ok := validator.IsValidDate(to); ok {
			filter.DateTo = &d
		} else {
			errs["date_to"] = "must be in YYYY-MM-DD format"
		}
	}
	if len(errs) > 0 {
		response.BadRequest(w, "Invalid date filter", errs)
		return
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
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

	result, err := h.ledgerService.ListJournals(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *ledgerHandlerImpl) GetJournal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Journal ID is required", nil)
		return
	}

	result, err := h.ledgerService.GetJournal(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
