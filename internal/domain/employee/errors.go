package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmailExists         = errors.New("email already registered for this company")
	ErrEmployeeHasPayrolls = errors.New("employee has payroll history and cannot be deleted")
	ErrEmployeeTerminated  = errors.New("employee is already terminated")
	ErrNegativeBaseSalary  = errors.New("base salary must not be negative")
)
