package redundancy

import "context"

type RedundancyService interface {
	// Create computes the statutory redundancy award for the employee as of
	// the termination date and stores it as a DRAFT.
	Create(ctx context.Context, req CreateRedundancyRequest) (RedundancyResponse, error)

	GetByID(ctx context.Context, id string) (RedundancyResponse, error)
	List(ctx context.Context, filter RedundancyFilter) ([]RedundancyResponse, error)
	Approve(ctx context.Context, id string, req ApproveRedundancyRequest) (RedundancyResponse, error)

	// MarkPaid flips an approved award to PAID and terminates the employee.
	MarkPaid(ctx context.Context, id string) (RedundancyResponse, error)
}
