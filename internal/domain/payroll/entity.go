package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status progression is monotonic: Pending -> Calculated -> Finalized ->
// Processed/Sent. Regeneration may rewrite a Pending or Calculated row but
// never moves a row backwards past Calculated.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusCalculated Status = "Calculated"
	StatusFinalized  Status = "Finalized"
	StatusProcessed  Status = "Processed" // disbursed via bank transfer
	StatusSent       Status = "Sent"      // payslip dispatched
)

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusCalculated: 1,
	StatusFinalized:  2,
	StatusProcessed:  3,
	StatusSent:       3,
}

// Regenerable reports whether a payroll row in status s may be overwritten
// by a new generation run.
func (s Status) Regenerable() bool {
	return statusRank[s] <= statusRank[StatusCalculated]
}

// Payroll is one employee's pay for one canonical period. Uniqueness over
// (EmployeeID, Period) is enforced by the upsert step and a database
// constraint; the generation engine depends on it to avoid duplicate runs.
type Payroll struct {
	ID          string
	EmployeeID  string
	Period      string // canonical MMM-YYYY token
	GrossSalary decimal.Decimal
	NetSalary   decimal.Decimal
	Deductions  decimal.Decimal
	Tax         decimal.Decimal
	NIS         decimal.Decimal
	NHT         decimal.Decimal
	EdTax       decimal.Decimal
	PAYE        decimal.Decimal
	PaymentDate *time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
	EmployeeTRN  *string
	BankName     *string
	BankAccount  *string
}

// StatutoryBreakdown is the output of the statutory calculator: the itemized
// withholdings plus the resulting totals for one employee and period.
type StatutoryBreakdown struct {
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	NIS        decimal.Decimal
	NHT        decimal.Decimal
	EdTax      decimal.Decimal
	PAYE       decimal.Decimal
	TotalTax   decimal.Decimal
	Net        decimal.Decimal
}
