package payroll

import "context"

type PayrollService interface {
	// Generate runs the statutory payroll engine for every eligible employee
	// of the company in the requested period. At most one run per
	// (company, period) executes at a time; a concurrent request gets
	// ErrGenerationInProgress.
	Generate(ctx context.Context, req GeneratePayrollRequest) (GenerateResult, error)

	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error

	// Finalize locks the period: Calculated rows become Finalized and are no
	// longer regenerable.
	Finalize(ctx context.Context, req FinalizeBatchRequest) (int64, error)

	// SendPayslips renders and emails a payslip for each payroll row, then
	// flips the rows to Sent.
	SendPayslips(ctx context.Context, req BulkSendRequest) (int64, error)

	// Payslip returns the payslip PDF for one payroll row, served from the
	// archive when present and rendered fresh otherwise.
	Payslip(ctx context.Context, id string) ([]byte, error)
}
