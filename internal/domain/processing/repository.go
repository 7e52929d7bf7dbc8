package processing

import (
	"context"
	"time"
)

type LogRepository interface {
	Create(ctx context.Context, log Log) (Log, error)
	GetByID(ctx context.Context, id string) (Log, error)
	// Update applies progress fields to a non-terminal log. Updating a
	// terminal log returns ErrLogTerminal.
	Update(ctx context.Context, id string, req UpdateProgressRequest) (Log, error)
	List(ctx context.Context, filter LogFilter) ([]Log, error)
	// ListActive returns STARTED and IN_PROGRESS logs, most recent first.
	ListActive(ctx context.Context, companyID *string, limit int) ([]Log, error)
	// ListCompletedSince returns terminal logs completed at or after the cutoff.
	ListCompletedSince(ctx context.Context, companyID *string, since time.Time, limit int) ([]Log, error)
	// DeleteTerminalBefore removes terminal logs completed before the cutoff.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
