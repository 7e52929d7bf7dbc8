package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "Active"
	StatusTerminated Status = "Terminated"
)

type Employee struct {
	ID          string
	CompanyID   string
	Code        string // business identifier, e.g. "EMP-JAM-01"
	FirstName   string
	LastName    string
	Email       string
	TRN         *string
	NISNumber   *string
	Department  *string
	BankName    *string
	BankAccount *string
	BaseSalary  decimal.Decimal
	Status      Status
	JoinDate    *time.Time // nil means pre-existing staff
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
