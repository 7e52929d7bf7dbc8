package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/response"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/sse"
)

type ProcessingHandler interface {
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	Cleanup(w http.ResponseWriter, r *http.Request)
}

type ProcessingHandlerImpl struct {
	processingService processing.ProcessingService
	hub               *sse.Hub
}

func NewProcessingHandler(processingService processing.ProcessingService, hub *sse.Hub) ProcessingHandler {
	return &ProcessingHandlerImpl{processingService: processingService, hub: hub}
}

// GetByID implements ProcessingHandler.
func (h *ProcessingHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Processing log ID is required", nil)
		return
	}

	result, err := h.processingService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ProcessingHandler.
func (h *ProcessingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter processing.LogFilter
	q := r.URL.Query()
	if v := q.Get("company_id"); v != "" {
		filter.CompanyID = &v
	}
	if v := q.Get("process_type"); v != "" {
		filter.ProcessType = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("period"); v != "" {
		filter.Period = &v
	}
	if v := q.Get("started_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartedFrom = &t
		}
	}
	if v := q.Get("started_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartedTo = &t
		}
	}

	result, err := h.processingService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Status implements ProcessingHandler.
func (h *ProcessingHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	var companyID *string
	if v := r.URL.Query().Get("company_id"); v != "" {
		companyID = &v
	}

	result, err := h.processingService.Status(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stats implements ProcessingHandler.
func (h *ProcessingHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	var companyID *string
	if v := r.URL.Query().Get("company_id"); v != "" {
		companyID = &v
	}

	result, err := h.processingService.Stats(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stream implements ProcessingHandler. It holds the connection open and
// pushes payroll run progress for one company and period as server-sent
// events until the client disconnects.
func (h *ProcessingHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		response.BadRequest(w, "Company ID is required", nil)
		return
	}
	token := period.Normalize(r.URL.Query().Get("period"))
	if !period.Valid(token) {
		response.BadRequest(w, "Period is not a recognizable month token", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	events, cancel := h.hub.Subscribe(sse.Topic(companyID, token))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-events:
			payload, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, payload)
			flusher.Flush()
		}
	}
}

// Cleanup implements ProcessingHandler.
func (h *ProcessingHandlerImpl) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req processing.CleanupRequest
	if r.Body != nil {
		// An empty body means the default retention window.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	deleted, err := h.processingService.Cleanup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Old processing logs removed", map[string]int64{"deleted": deleted})
}
