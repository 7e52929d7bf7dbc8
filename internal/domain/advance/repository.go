package advance

import "context"

type AdvanceRepository interface {
	Create(ctx context.Context, adv AdvancePayment) (AdvancePayment, error)
	GetByID(ctx context.Context, id string) (AdvancePayment, error)
	List(ctx context.Context, filter AdvanceFilter) ([]AdvancePayment, error)
	// ListApprovedByPeriod returns APPROVED advances due for recovery in the
	// given period, the payroll engine's recovery input.
	ListApprovedByPeriod(ctx context.Context, companyID, recoveryPeriod string) ([]AdvancePayment, error)
	Update(ctx context.Context, adv AdvancePayment) (AdvancePayment, error)
	MarkRecovered(ctx context.Context, ids []string) (int64, error)
}
