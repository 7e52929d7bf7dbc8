package employee

import (
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	CompanyID   string           `json:"company_id"`
	Code        string           `json:"code"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	TRN         *string          `json:"trn,omitempty"`
	NISNumber   *string          `json:"nis_number,omitempty"`
	Department  *string          `json:"department,omitempty"`
	BankName    *string          `json:"bank_name,omitempty"`
	BankAccount *string          `json:"bank_account,omitempty"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	JoinDate    *string          `json:"join_date,omitempty"` // YYYY-MM-DD
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	if !validator.IsValidEmployeeCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be an uppercase alphanumeric code"})
	}
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if r.TRN != nil && !validator.IsValidTRN(*r.TRN) {
		errs = append(errs, validator.ValidationError{Field: "trn", Message: "must be a 9-digit TRN"})
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.JoinDate != nil {
		if _, ok := validator.IsValidDate(*r.JoinDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "join_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID          string
	FirstName   *string          `json:"first_name,omitempty"`
	LastName    *string          `json:"last_name,omitempty"`
	Email       *string          `json:"email,omitempty"`
	TRN         *string          `json:"trn,omitempty"`
	NISNumber   *string          `json:"nis_number,omitempty"`
	Department  *string          `json:"department,omitempty"`
	BankName    *string          `json:"bank_name,omitempty"`
	BankAccount *string          `json:"bank_account,omitempty"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	Status      *string          `json:"status,omitempty"`
	JoinDate    *string          `json:"join_date,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if r.TRN != nil && !validator.IsValidTRN(*r.TRN) {
		errs = append(errs, validator.ValidationError{Field: "trn", Message: "must be a 9-digit TRN"})
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusActive), string(StatusTerminated)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Active' or 'Terminated'"})
	}
	if r.JoinDate != nil && *r.JoinDate != "" {
		if _, ok := validator.IsValidDate(*r.JoinDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "join_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	CompanyID  string
	Status     *string
	Department *string
}

type EmployeeResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Code        string          `json:"code"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	TRN         *string         `json:"trn,omitempty"`
	NISNumber   *string         `json:"nis_number,omitempty"`
	Department  *string         `json:"department,omitempty"`
	BankName    *string         `json:"bank_name,omitempty"`
	BankAccount *string         `json:"bank_account,omitempty"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Status      string          `json:"status"`
	JoinDate    *string         `json:"join_date,omitempty"`
}

func ToEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Code:        e.Code,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		TRN:         e.TRN,
		NISNumber:   e.NISNumber,
		Department:  e.Department,
		BankName:    e.BankName,
		BankAccount: e.BankAccount,
		BaseSalary:  e.BaseSalary,
		Status:      string(e.Status),
	}
	if e.JoinDate != nil {
		joined := e.JoinDate.Format("2006-01-02")
		resp.JoinDate = &joined
	}
	return resp
}
