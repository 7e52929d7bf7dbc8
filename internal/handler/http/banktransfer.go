package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/banktransfer"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/response"
)

type BankTransferHandler interface {
	CreateBatch(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type BankTransferHandlerImpl struct {
	transferService banktransfer.BankTransferService
}

func NewBankTransferHandler(transferService banktransfer.BankTransferService) BankTransferHandler {
	return &BankTransferHandlerImpl{transferService: transferService}
}

// CreateBatch implements BankTransferHandler.
func (h *BankTransferHandlerImpl) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req banktransfer.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.transferService.CreateBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Transfer batch created", result)
}

// GetByID implements BankTransferHandler.
func (h *BankTransferHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transfer ID is required", nil)
		return
	}

	result, err := h.transferService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements BankTransferHandler.
func (h *BankTransferHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := banktransfer.TransferFilter{
		CompanyID: q.Get("company_id"),
		Period:    q.Get("period"),
		Status:    banktransfer.Status(q.Get("status")),
		BatchID:   q.Get("batch_id"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := h.transferService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Process implements BankTransferHandler.
func (h *BankTransferHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	var req banktransfer.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.transferService.Process(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transfers processed", result)
}

// Export implements BankTransferHandler.
func (h *BankTransferHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if batchID == "" {
		response.BadRequest(w, "Batch ID is required", nil)
		return
	}

	result, err := h.transferService.Export(r.Context(), batchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
