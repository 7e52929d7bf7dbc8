package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/islandhr/payroll-backend-go/internal/domain/company"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

const (
	// defaultCleanupDays is how long terminal logs are kept when a cleanup
	// request does not say otherwise.
	defaultCleanupDays = 90

	statusWindow = 24 * time.Hour
	statusLimit  = 20
)

type ProcessingServiceImpl struct {
	db          *database.DB
	repo        processing.LogRepository
	companyRepo company.CompanyRepository
}

func NewProcessingService(db *database.DB, repo processing.LogRepository, companyRepo company.CompanyRepository) processing.ProcessingService {
	return &ProcessingServiceImpl{db: db, repo: repo, companyRepo: companyRepo}
}

// Start implements processing.ProcessingService.
func (s *ProcessingServiceImpl) Start(ctx context.Context, req processing.StartProcessRequest) (processing.LogResponse, error) {
	if err := req.Validate(); err != nil {
		return processing.LogResponse{}, err
	}

	token := period.Normalize(req.Period)
	if !period.Valid(token) {
		return processing.LogResponse{}, validator.ValidationErrors{
			{Field: "period", Message: "is not a recognizable month token"},
		}
	}

	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return processing.LogResponse{}, err
	}

	created, err := s.repo.Create(ctx, processing.Log{
		CompanyID:    req.CompanyID,
		ProcessType:  processing.ProcessType(req.ProcessType),
		Period:       token,
		Status:       processing.StatusStarted,
		RecordsTotal: req.RecordsTotal,
		ProcessedBy:  req.ProcessedBy,
	})
	if err != nil {
		return processing.LogResponse{}, err
	}
	return processing.ToLogResponse(created), nil
}

// UpdateProgress implements processing.ProcessingService.
func (s *ProcessingServiceImpl) UpdateProgress(ctx context.Context, req processing.UpdateProgressRequest) (processing.LogResponse, error) {
	if validator.IsEmpty(req.ID) {
		return processing.LogResponse{}, validator.ValidationErrors{
			{Field: "id", Message: "is required"},
		}
	}
	if req.Status != nil && !validator.IsInSlice(*req.Status, []string{
		string(processing.StatusInProgress), string(processing.StatusCompleted), string(processing.StatusFailed),
	}) {
		return processing.LogResponse{}, validator.ValidationErrors{
			{Field: "status", Message: "must be IN_PROGRESS, COMPLETED or FAILED"},
		}
	}

	updated, err := s.repo.Update(ctx, req.ID, req)
	if err != nil {
		return processing.LogResponse{}, err
	}
	return processing.ToLogResponse(updated), nil
}

// GetByID implements processing.ProcessingService.
func (s *ProcessingServiceImpl) GetByID(ctx context.Context, id string) (processing.LogResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return processing.LogResponse{}, err
	}
	return processing.ToLogResponse(found), nil
}

// List implements processing.ProcessingService.
func (s *ProcessingServiceImpl) List(ctx context.Context, filter processing.LogFilter) (processing.ListResponse, error) {
	if filter.Period != nil {
		token := period.Normalize(*filter.Period)
		filter.Period = &token
	}

	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return processing.ListResponse{}, err
	}

	resp := processing.ListResponse{Logs: make([]processing.LogResponse, 0, len(logs))}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, processing.ToLogResponse(l))

		resp.Summary.Total++
		switch l.Status {
		case processing.StatusStarted:
			resp.Summary.Started++
		case processing.StatusInProgress:
			resp.Summary.InProgress++
		case processing.StatusCompleted:
			resp.Summary.Completed++
		case processing.StatusFailed:
			resp.Summary.Failed++
		}
	}
	return resp, nil
}

// Status implements processing.ProcessingService. The view pairs everything
// currently running with what finished in the last 24 hours.
func (s *ProcessingServiceImpl) Status(ctx context.Context, companyID *string) (processing.StatusResponse, error) {
	active, err := s.repo.ListActive(ctx, companyID, statusLimit)
	if err != nil {
		return processing.StatusResponse{}, fmt.Errorf("list active processes: %w", err)
	}

	since := time.Now().Add(-statusWindow)
	recent, err := s.repo.ListCompletedSince(ctx, companyID, since, statusLimit)
	if err != nil {
		return processing.StatusResponse{}, fmt.Errorf("list recent processes: %w", err)
	}

	resp := processing.StatusResponse{
		ActiveProcesses: make([]processing.LogResponse, 0, len(active)),
		RecentCompleted: make([]processing.LogResponse, 0, len(recent)),
	}
	for _, l := range active {
		resp.ActiveProcesses = append(resp.ActiveProcesses, processing.ToLogResponse(l))
	}
	for _, l := range recent {
		resp.RecentCompleted = append(resp.RecentCompleted, processing.ToLogResponse(l))
		switch l.Status {
		case processing.StatusCompleted:
			resp.Summary.CompletedToday++
		case processing.StatusFailed:
			resp.Summary.FailedToday++
		}
	}
	resp.Summary.Active = len(active)

	return resp, nil
}

// Stats implements processing.ProcessingService. Aggregation happens in memory
// because the log table stays small under the retention policy.
func (s *ProcessingServiceImpl) Stats(ctx context.Context, companyID *string) (processing.Statistics, error) {
	logs, err := s.repo.List(ctx, processing.LogFilter{CompanyID: companyID})
	if err != nil {
		return processing.Statistics{}, err
	}

	stats := processing.Statistics{
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}

	var totalDuration time.Duration
	var durationCount, completed, terminal int
	for _, l := range logs {
		stats.TotalProcesses++
		stats.ByType[string(l.ProcessType)]++
		stats.ByStatus[string(l.Status)]++
		stats.TotalRecordsProcessed += l.RecordsProcessed

		if l.Status.Terminal() {
			terminal++
			if l.Status == processing.StatusCompleted {
				completed++
			}
			if l.CompletedAt != nil {
				totalDuration += l.CompletedAt.Sub(l.StartedAt)
				durationCount++
			}
		}
	}

	stats.AverageProcessingTime = "n/a"
	if durationCount > 0 {
		stats.AverageProcessingTime = (totalDuration / time.Duration(durationCount)).Round(time.Second).String()
	}
	stats.SuccessRate = "n/a"
	if terminal > 0 {
		stats.SuccessRate = fmt.Sprintf("%.1f%%", float64(completed)/float64(terminal)*100)
	}

	return stats, nil
}

// Cleanup implements processing.ProcessingService. Only terminal logs are
// removed; anything still STARTED or IN_PROGRESS survives regardless of age.
func (s *ProcessingServiceImpl) Cleanup(ctx context.Context, req processing.CleanupRequest) (int64, error) {
	days := req.DaysOld
	if days <= 0 {
		days = defaultCleanupDays
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	return s.repo.DeleteTerminalBefore(ctx, cutoff)
}
