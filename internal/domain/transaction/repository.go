package transaction

import "context"

type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Update(ctx context.Context, t Transaction) (Transaction, error)
	Delete(ctx context.Context, id string) error

	// Post flips ENTERED transactions to POSTED; already-posted ids are
	// skipped. Returns the number of rows changed.
	Post(ctx context.Context, ids []string, postedBy string) (int64, error)

	// ListPosted returns the POSTED transactions for a company and period,
	// the engine's input set.
	ListPosted(ctx context.Context, companyID, period string) ([]Transaction, error)

	// MarkProcessed flips an employee's POSTED transactions for the period
	// to PROCESSED so a re-run cannot double count them.
	MarkProcessed(ctx context.Context, employeeID, period string) (int64, error)
}
