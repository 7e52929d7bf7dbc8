package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusRecovered Status = "RECOVERED"
)

// AdvancePayment is a salary advance recovered from a later payroll run
// as a DEDUCTION transaction.
type AdvancePayment struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	Amount         decimal.Decimal
	Reason         string
	RequestDate    time.Time
	RecoveryPeriod string
	Status         Status
	ApprovedBy     *string
	ApprovedAt     *time.Time
	RecoveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
}
