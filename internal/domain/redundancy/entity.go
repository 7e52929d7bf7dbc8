package redundancy

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusApproved Status = "APPROVED"
	StatusPaid     Status = "PAID"
)

// Redundancy is a termination payment computed under the Employment
// (Termination and Redundancy Payments) Act: two weeks pay per year of
// service for the first ten years, three weeks per year thereafter.
type Redundancy struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	TerminationDate time.Time
	YearsOfService  int
	WeeklyPay       decimal.Decimal
	WeeksAwarded    decimal.Decimal
	GrossAmount     decimal.Decimal
	NoticePay       decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
	JoinDate     *time.Time
}
