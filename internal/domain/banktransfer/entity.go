package banktransfer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
)

type BankTransfer struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	BankName      string
	AccountNumber string
	AccountName   string
	Amount        decimal.Decimal
	Reference     string
	Period        string // canonical MMM-YYYY token
	TransferDate  time.Time
	Status        Status
	BatchID       *string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
	EmployeeTRN  *string
}
