package processing

import "context"

type ProcessingService interface {
	Start(ctx context.Context, req StartProcessRequest) (LogResponse, error)
	UpdateProgress(ctx context.Context, req UpdateProgressRequest) (LogResponse, error)
	GetByID(ctx context.Context, id string) (LogResponse, error)
	List(ctx context.Context, filter LogFilter) (ListResponse, error)
	Status(ctx context.Context, companyID *string) (StatusResponse, error)
	Stats(ctx context.Context, companyID *string) (Statistics, error)
	Cleanup(ctx context.Context, req CleanupRequest) (int64, error)
}
