package payroll

import "context"

type PayrollRepository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, employeeID, period string) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, error)
	Update(ctx context.Context, p Payroll) (Payroll, error)
	Delete(ctx context.Context, id string) error

	// FinalizeBatch flips Calculated rows for the company/period to
	// Finalized and returns the number of rows changed.
	FinalizeBatch(ctx context.Context, companyID, period string) (int64, error)

	// MarkProcessedBatch flips Finalized rows for the company/period to
	// Processed (disbursed) and returns the number of rows changed.
	MarkProcessedBatch(ctx context.Context, companyID, period string) (int64, error)

	// MarkSent flips the given payroll rows to Sent.
	MarkSent(ctx context.Context, ids []string) (int64, error)
}
