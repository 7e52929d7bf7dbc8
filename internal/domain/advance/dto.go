package advance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type CreateAdvanceRequest struct {
	CompanyID      string          `json:"company_id"`
	EmployeeCode   string          `json:"employee_code"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	RecoveryPeriod string          `json:"recovery_period"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id is required"})
	}
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if validator.IsEmpty(r.RecoveryPeriod) {
		errs = append(errs, validator.ValidationError{Field: "recovery_period", Message: "recovery_period is required"})
	} else {
		r.RecoveryPeriod = period.Normalize(r.RecoveryPeriod)
		if !period.Valid(r.RecoveryPeriod) {
			errs = append(errs, validator.ValidationError{Field: "recovery_period", Message: "recovery_period must be in MMM-YYYY format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveAdvanceRequest struct {
	ApprovedBy string `json:"approved_by"`
}

func (r *ApproveAdvanceRequest) Validate() error {
	if validator.IsEmpty(r.ApprovedBy) {
		return validator.ValidationErrors{
			{Field: "approved_by", Message: "approved_by is required"},
		}
	}

	return nil
}

type AdvanceFilter struct {
	CompanyID      string
	EmployeeID     string
	Status         Status
	RecoveryPeriod string
	Limit          int
	Offset         int
}

type AdvanceResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeCode   *string         `json:"employee_code,omitempty"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	RequestDate    time.Time       `json:"request_date"`
	RecoveryPeriod string          `json:"recovery_period"`
	Status         Status          `json:"status"`
	ApprovedBy     *string         `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	RecoveredAt    *time.Time      `json:"recovered_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func ToAdvanceResponse(a *AdvancePayment) AdvanceResponse {
	return AdvanceResponse{
		ID:             a.ID,
		CompanyID:      a.CompanyID,
		EmployeeID:     a.EmployeeID,
		EmployeeCode:   a.EmployeeCode,
		EmployeeName:   a.EmployeeName,
		Amount:         a.Amount,
		Reason:         a.Reason,
		RequestDate:    a.RequestDate,
		RecoveryPeriod: a.RecoveryPeriod,
		Status:         a.Status,
		ApprovedBy:     a.ApprovedBy,
		ApprovedAt:     a.ApprovedAt,
		RecoveredAt:    a.RecoveredAt,
		CreatedAt:      a.CreatedAt,
	}
}
