package advance

import "context"

type AdvanceService interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetByID(ctx context.Context, id string) (AdvanceResponse, error)
	List(ctx context.Context, filter AdvanceFilter) ([]AdvanceResponse, error)
	Approve(ctx context.Context, id string, req ApproveAdvanceRequest) (AdvanceResponse, error)
	Reject(ctx context.Context, id string, req ApproveAdvanceRequest) (AdvanceResponse, error)
}
