package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/islandhr/payroll-backend-go/internal/domain/audit"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type AuditServiceImpl struct {
	db     *database.DB
	repo   audit.AuditRepository
	logger *slog.Logger
}

func NewAuditService(db *database.DB, repo audit.AuditRepository, logger *slog.Logger) audit.AuditService {
	return &AuditServiceImpl{db: db, repo: repo, logger: logger}
}

// Record implements audit.AuditService. Failures are logged, not returned:
// auditing must never fail the operation it describes.
func (s *AuditServiceImpl) Record(ctx context.Context, log audit.Log) error {
	if log.OccurredAt.IsZero() {
		log.OccurredAt = time.Now()
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("write audit log",
			slog.String("action", string(log.Action)),
			slog.String("entity", log.Entity),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// List implements audit.AuditService.
func (s *AuditServiceImpl) List(ctx context.Context, filter audit.LogFilter) ([]audit.LogResponse, error) {
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]audit.LogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, audit.ToLogResponse(&logs[i]))
	}
	return responses, nil
}
