package transaction

import "context"

type TransactionService interface {
	Create(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)
	BulkCreate(ctx context.Context, req BulkCreateRequest) (BulkCreateResult, error)
	GetByID(ctx context.Context, id string) (TransactionResponse, error)
	List(ctx context.Context, filter TransactionFilter) ([]TransactionResponse, error)
	Update(ctx context.Context, id string, req UpdateTransactionRequest) (TransactionResponse, error)
	Delete(ctx context.Context, id string) error

	// Post approves ENTERED transactions for the next payroll run and writes
	// a TRANSACTION_POST processing log.
	Post(ctx context.Context, req PostTransactionsRequest) (int64, error)

	// Register returns a company's transactions for a period grouped by
	// lifecycle status with batch totals.
	Register(ctx context.Context, companyID, period string) (RegisterResponse, error)
}
