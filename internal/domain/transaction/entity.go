package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type classifies a transaction line for the payroll accumulator.
// Unrecognized types are carried but ignored by the engine.
type Type string

const (
	TypeEarning   Type = "EARNING"
	TypeAllowance Type = "ALLOWANCE"
	TypeDeduction Type = "DEDUCTION"
)

// Status is the transaction lifecycle: ENTERED lines are drafts, POSTED lines
// are approved for the next payroll run, PROCESSED lines have been consumed
// by a run and must never be counted again.
type Status string

const (
	StatusEntered   Status = "ENTERED"
	StatusPosted    Status = "POSTED"
	StatusProcessed Status = "PROCESSED"
)

type Transaction struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	TransactionDate time.Time
	Type            Type
	Code            string
	Description     string
	Amount          decimal.Decimal
	Units           *decimal.Decimal
	Rate            *decimal.Decimal
	Status          Status
	Period          string // canonical MMM-YYYY token
	EnteredBy       string
	EnteredAt       time.Time
	PostedBy        *string
	PostedAt        *time.Time
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
}
