package audit

import "context"

type AuditService interface {
	Record(ctx context.Context, log Log) error
	List(ctx context.Context, filter LogFilter) ([]LogResponse, error)
}
