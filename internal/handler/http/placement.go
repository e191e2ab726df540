package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PlacementHandler interface {
	ListPlacements(w http.ResponseWriter, r *http.Request)
	CurrentPlacement(w http.ResponseWriter, r *http.Request)
	AddPlacement(w http.ResponseWriter, r *http.Request)
}

type placementHandlerImpl struct {
	placementService placement.PlacementService
}

func NewPlacementHandler(placementService placement.PlacementService) PlacementHandler {
	return &placementHandlerImpl{placementService: placementService}
}

func (h *placementHandlerImpl) ListPlacements(w http.ResponseWriter, r *http.Request) {
	result, err := h.placementService.ListPlacements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CurrentPlacement returns today's placement, or the one effective on ?date=YYYY-MM-DD.
func (h *placementHandlerImpl) CurrentPlacement(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var (
		result placement.PlacementResponse
		err    error
	)
	if d := r.URL.Query().Get("date"); d != "" {
		date, ok := validator.IsValidDate(d)
		if !ok {
			response.BadRequest(w, "Invalid date", map[string]string{"date": "must be in YYYY-MM-DD format"})
			return
		}
		result, err = h.placementService.PlacementEffectiveOn(r.Context(), employeeID, date)
	} else {
		result, err = h.placementService.CurrentPlacement(r.Context(), employeeID)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *placementHandlerImpl) AddPlacement(w http.ResponseWriter, r *http.Request) {
	var req placement.AddPlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.placementService.AddPlacement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Placement added", result)
}
