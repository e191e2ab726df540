package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/master"
	"github.com/go-chi/chi/v5"
)

type MasterHandler interface {
	GetJobTitle(w http.ResponseWriter, r *http.Request)
	ListJobTitles(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ==================== JOB TITLE HANDLERS ====================

func (h *masterHandlerImpl) GetJobTitle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Job title ID is required", nil)
		return
	}

	result, err := h.masterService.GetJobTitle(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListJobTitles(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListJobTitles(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
