package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/redundancy"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/response"
)

type RedundancyHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
}

type RedundancyHandlerImpl struct {
	redundancyService redundancy.RedundancyService
}

func NewRedundancyHandler(redundancyService redundancy.RedundancyService) RedundancyHandler {
	return &RedundancyHandlerImpl{redundancyService: redundancyService}
}

// Create implements RedundancyHandler.
func (h *RedundancyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req redundancy.CreateRedundancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.redundancyService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Redundancy computed", result)
}

// GetByID implements RedundancyHandler.
func (h *RedundancyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Redundancy ID is required", nil)
		return
	}

	result, err := h.redundancyService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements RedundancyHandler.
func (h *RedundancyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := redundancy.RedundancyFilter{
		CompanyID:  q.Get("company_id"),
		EmployeeID: q.Get("employee_id"),
		Status:     redundancy.Status(q.Get("status")),
	}

	result, err := h.redundancyService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements RedundancyHandler.
func (h *RedundancyHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Redundancy ID is required", nil)
		return
	}

	var req redundancy.ApproveRedundancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.redundancyService.Approve(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Redundancy approved", result)
}

// MarkPaid implements RedundancyHandler.
func (h *RedundancyHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Redundancy ID is required", nil)
		return
	}

	result, err := h.redundancyService.MarkPaid(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Redundancy paid", result)
}
