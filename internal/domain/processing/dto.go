package processing

import (
	"time"

	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type StartProcessRequest struct {
	CompanyID    string `json:"company_id"`
	ProcessType  string `json:"process_type"`
	Period       string `json:"period"`
	RecordsTotal int    `json:"records_total,omitempty"`
	ProcessedBy  string `json:"processed_by,omitempty"`
}

func (r *StartProcessRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	if !validator.IsInSlice(r.ProcessType, []string{
		string(ProcessTransactionPost), string(ProcessPayrollCalc),
		string(ProcessPayrollUpdate), string(ProcessPaymentProcess),
	}) {
		errs = append(errs, validator.ValidationError{Field: "process_type", Message: "is not a known process type"})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProgressRequest struct {
	ID               string
	RecordsProcessed *int    `json:"records_processed,omitempty"`
	Status           *string `json:"status,omitempty"`
	ErrorMessage     *string `json:"error_message,omitempty"`
}

type LogFilter struct {
	CompanyID   *string
	ProcessType *string
	Status      *string
	Period      *string
	StartedFrom *time.Time
	StartedTo   *time.Time
}

type LogResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	CompanyName      *string `json:"company_name,omitempty"`
	CompanyCode      *string `json:"company_code,omitempty"`
	ProcessType      string  `json:"process_type"`
	Period           string  `json:"period"`
	Status           string  `json:"status"`
	RecordsTotal     int     `json:"records_total"`
	RecordsProcessed int     `json:"records_processed"`
	ErrorMessage     *string `json:"error_message,omitempty"`
	ProcessedBy      string  `json:"processed_by"`
	StartedAt        string  `json:"started_at"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

// StatusResponse is the operational view: what is running now plus what
// finished in the last day.
type StatusResponse struct {
	ActiveProcesses []LogResponse `json:"active_processes"`
	RecentCompleted []LogResponse `json:"recent_completed"`
	Summary         StatusSummary `json:"summary"`
}

type StatusSummary struct {
	Active         int `json:"active"`
	CompletedToday int `json:"completed_today"`
	FailedToday    int `json:"failed_today"`
}

type ListResponse struct {
	Logs    []LogResponse `json:"logs"`
	Summary ListSummary   `json:"summary"`
}

type ListSummary struct {
	Total      int `json:"total"`
	Started    int `json:"started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

type Statistics struct {
	TotalProcesses        int            `json:"total_processes"`
	ByType                map[string]int `json:"by_type"`
	ByStatus              map[string]int `json:"by_status"`
	TotalRecordsProcessed int            `json:"total_records_processed"`
	AverageProcessingTime string         `json:"average_processing_time"`
	SuccessRate           string         `json:"success_rate"`
}

type CleanupRequest struct {
	DaysOld int `json:"days_old,omitempty"`
}

func ToLogResponse(l Log) LogResponse {
	resp := LogResponse{
		ID:               l.ID,
		CompanyID:        l.CompanyID,
		CompanyName:      l.CompanyName,
		CompanyCode:      l.CompanyCode,
		ProcessType:      string(l.ProcessType),
		Period:           l.Period,
		Status:           string(l.Status),
		RecordsTotal:     l.RecordsTotal,
		RecordsProcessed: l.RecordsProcessed,
		ErrorMessage:     l.ErrorMessage,
		ProcessedBy:      l.ProcessedBy,
		StartedAt:        l.StartedAt.Format(time.RFC3339),
	}
	if l.CompletedAt != nil {
		done := l.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &done
	}
	return resp
}
