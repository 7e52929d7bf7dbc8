package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/response"
)

type TransactionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BulkCreate(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Post(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type TransactionHandlerImpl struct {
	transactionService transaction.TransactionService
}

func NewTransactionHandler(transactionService transaction.TransactionService) TransactionHandler {
	return &TransactionHandlerImpl{transactionService: transactionService}
}

// Create implements TransactionHandler.
func (h *TransactionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req transaction.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.transactionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Transaction created", result)
}

// BulkCreate implements TransactionHandler.
func (h *TransactionHandlerImpl) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req transaction.BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.Transactions) == 0 {
		response.BadRequest(w, "At least one transaction is required", nil)
		return
	}

	result, err := h.transactionService.BulkCreate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Transactions created", result)
}

// GetByID implements TransactionHandler.
func (h *TransactionHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.transactionService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements TransactionHandler.
func (h *TransactionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter transaction.TransactionFilter
	q := r.URL.Query()
	if v := q.Get("company_id"); v != "" {
		filter.CompanyID = &v
	}
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("period"); v != "" {
		filter.Period = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("type"); v != "" {
		filter.Type = &v
	}

	result, err := h.transactionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements TransactionHandler.
func (h *TransactionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	var req transaction.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.transactionService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements TransactionHandler.
func (h *TransactionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	if err := h.transactionService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction deleted", nil)
}

// Post implements TransactionHandler.
func (h *TransactionHandlerImpl) Post(w http.ResponseWriter, r *http.Request) {
	var req transaction.PostTransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	posted, err := h.transactionService.Post(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transactions posted", map[string]int64{"posted": posted})
}

// Register implements TransactionHandler.
func (h *TransactionHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	period := r.URL.Query().Get("period")
	if companyID == "" || period == "" {
		response.BadRequest(w, "company_id and period are required", nil)
		return
	}

	result, err := h.transactionService.Register(r.Context(), companyID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
