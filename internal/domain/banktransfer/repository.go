package banktransfer

import "context"

type BankTransferRepository interface {
	CreateBatch(ctx context.Context, transfers []BankTransfer) error
	GetByID(ctx context.Context, id string) (BankTransfer, error)
	List(ctx context.Context, filter TransferFilter) ([]BankTransfer, error)
	ListPendingByIDs(ctx context.Context, ids []string) ([]BankTransfer, error)
	ListPendingByPeriod(ctx context.Context, companyID, period string) ([]BankTransfer, error)
	MarkProcessed(ctx context.Context, ids []string) (int64, error)
	MarkFailed(ctx context.Context, ids []string) (int64, error)
	ExistsForPayroll(ctx context.Context, employeeID, period string) (bool, error)
}
