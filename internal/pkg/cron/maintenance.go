package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
)

// staleRunTimeout is how long a run may stay non-terminal before the
// watchdog declares it abandoned (crashed process, lost worker).
const staleRunTimeout = 6 * time.Hour

// MaintenanceJobs keeps the processing log table healthy: old terminal logs
// are pruned and abandoned runs are failed so their period can run again.
type MaintenanceJobs struct {
	processingService processing.ProcessingService
	logRepo           processing.LogRepository
}

func NewMaintenanceJobs(processingService processing.ProcessingService, logRepo processing.LogRepository) *MaintenanceJobs {
	return &MaintenanceJobs{
		processingService: processingService,
		logRepo:           logRepo,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("cleanup_processing_logs", 24*time.Hour, j.CleanupOldLogs)
	scheduler.AddJob("fail_stale_runs", 1*time.Hour, j.FailStaleRuns)
}

// CleanupOldLogs removes terminal processing logs past the default
// retention window.
func (j *MaintenanceJobs) CleanupOldLogs(ctx context.Context) error {
	deleted, err := j.processingService.Cleanup(ctx, processing.CleanupRequest{})
	if err != nil {
		return fmt.Errorf("cleanup processing logs: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: pruned old processing logs", "deleted", deleted)
	}
	return nil
}

// FailStaleRuns closes runs that have been active far longer than any batch
// should take. A STARTED log left behind by a crashed process would otherwise
// look in-flight forever.
func (j *MaintenanceJobs) FailStaleRuns(ctx context.Context) error {
	active, err := j.logRepo.ListActive(ctx, nil, 100)
	if err != nil {
		return fmt.Errorf("list active runs: %w", err)
	}

	cutoff := time.Now().Add(-staleRunTimeout)
	for _, log := range active {
		if log.StartedAt.After(cutoff) {
			continue
		}

		failed := string(processing.StatusFailed)
		msg := fmt.Sprintf("abandoned: no progress since %s", log.StartedAt.Format(time.RFC3339))
		if _, err := j.logRepo.Update(ctx, log.ID, processing.UpdateProgressRequest{
			Status:       &failed,
			ErrorMessage: &msg,
		}); err != nil {
			slog.Error("Cron: failed to close stale run", "log_id", log.ID, "error", err)
			continue
		}
		slog.Warn("Cron: closed stale processing run", "log_id", log.ID, "period", log.Period)
	}
	return nil
}
