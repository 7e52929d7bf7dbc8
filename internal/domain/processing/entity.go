package processing

import "time"

// ProcessType identifies which batch operation a log row tracks.
type ProcessType string

const (
	ProcessTransactionPost ProcessType = "TRANSACTION_POST"
	ProcessPayrollCalc     ProcessType = "PAYROLL_CALC"
	ProcessPayrollUpdate   ProcessType = "PAYROLL_UPDATE"
	ProcessPaymentProcess  ProcessType = "PAYMENT_PROCESS"
)

// Status is the log lifecycle: STARTED -> IN_PROGRESS -> COMPLETED | FAILED.
// COMPLETED and FAILED are terminal; a terminal log is never mutated again.
type Status string

const (
	StatusStarted    Status = "STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Log is the progress record for one engine invocation. Created at start,
// updated incrementally while the batch runs, closed exactly once.
type Log struct {
	ID               string
	CompanyID        string
	ProcessType      ProcessType
	Period           string
	Status           Status
	RecordsTotal     int
	RecordsProcessed int
	ErrorMessage     *string
	ProcessedBy      string
	StartedAt        time.Time
	CompletedAt      *time.Time

	// Joined fields
	CompanyName *string
	CompanyCode *string
}
