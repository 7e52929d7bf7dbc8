package payroll

import "errors"

var (
	ErrPayrollNotFound       = errors.New("payroll record not found")
	ErrPayrollAlreadyExists  = errors.New("payroll record already exists for this period")
	ErrInvalidPeriod         = errors.New("period is not a recognizable month token")
	ErrGenerationInProgress  = errors.New("a payroll run for this company and period is already in progress")
	ErrNotRegenerable        = errors.New("payroll record has progressed past Calculated and cannot be regenerated")
	ErrNothingToFinalize     = errors.New("no Calculated payroll records for this company and period")
	ErrEmployeeNotEligible   = errors.New("employee is not eligible for this period")
	ErrRateTableNotEffective = errors.New("no statutory rate table effective for this period")
	ErrPayslipNotReady       = errors.New("payroll record has not been calculated yet")
)
