package redundancy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type CreateRedundancyRequest struct {
	CompanyID       string `json:"company_id"`
	EmployeeCode    string `json:"employee_code"`
	TerminationDate string `json:"termination_date"`
	NoticeWeeks     int    `json:"notice_weeks"`
}

func (r *CreateRedundancyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id is required"})
	}
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if validator.IsEmpty(r.TerminationDate) {
		errs = append(errs, validator.ValidationError{Field: "termination_date", Message: "termination_date is required"})
	} else if _, ok := validator.IsValidDate(r.TerminationDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "termination_date", Message: "termination_date must be in YYYY-MM-DD format"})
	}
	if r.NoticeWeeks < 0 {
		errs = append(errs, validator.ValidationError{Field: "notice_weeks", Message: "notice_weeks cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveRedundancyRequest struct {
	ApprovedBy string `json:"approved_by"`
}

func (r *ApproveRedundancyRequest) Validate() error {
	if validator.IsEmpty(r.ApprovedBy) {
		return validator.ValidationErrors{
			{Field: "approved_by", Message: "approved_by is required"},
		}
	}

	return nil
}

type RedundancyFilter struct {
	CompanyID  string
	EmployeeID string
	Status     Status
	Limit      int
	Offset     int
}

type RedundancyResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    *string         `json:"employee_code,omitempty"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	TerminationDate time.Time       `json:"termination_date"`
	YearsOfService  int             `json:"years_of_service"`
	WeeklyPay       decimal.Decimal `json:"weekly_pay"`
	WeeksAwarded    decimal.Decimal `json:"weeks_awarded"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	NoticePay       decimal.Decimal `json:"notice_pay"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func ToRedundancyResponse(r *Redundancy) RedundancyResponse {
	return RedundancyResponse{
		ID:              r.ID,
		CompanyID:       r.CompanyID,
		EmployeeID:      r.EmployeeID,
		EmployeeCode:    r.EmployeeCode,
		EmployeeName:    r.EmployeeName,
		TerminationDate: r.TerminationDate,
		YearsOfService:  r.YearsOfService,
		WeeklyPay:       r.WeeklyPay,
		WeeksAwarded:    r.WeeksAwarded,
		GrossAmount:     r.GrossAmount,
		NoticePay:       r.NoticePay,
		TotalAmount:     r.TotalAmount,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		PaidAt:          r.PaidAt,
		CreatedAt:       r.CreatedAt,
	}
}
