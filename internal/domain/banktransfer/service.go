package banktransfer

import "context"

type BankTransferService interface {
	// CreateBatch builds PENDING transfers from the Finalized payrolls of a
	// company and period. Employees without bank details are reported as
	// skipped, not failed.
	CreateBatch(ctx context.Context, req CreateBatchRequest) (BatchResult, error)

	GetByID(ctx context.Context, id string) (TransferResponse, error)
	List(ctx context.Context, filter TransferFilter) ([]TransferResponse, error)

	// Process marks transfers disbursed and flips the matching payroll rows
	// to Processed, all inside one transaction.
	Process(ctx context.Context, req ProcessRequest) (ProcessResult, error)

	// Export renders the PENDING transfers of a batch as bank upload rows.
	Export(ctx context.Context, batchID string) ([]ExportRow, error)
}
