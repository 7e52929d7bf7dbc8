package payroll

import (
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GeneratePayrollRequest struct {
	CompanyID string `json:"company_id"`
	Period    string `json:"period"` // free-form, normalized internally
	RunBy     string `json:"run_by,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeFailure reports one employee the run could not persist. The batch
// continues past these; re-invoking the run picks the employee up again.
type EmployeeFailure struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	Error        string `json:"error"`
}

// SkippedRecord reports a payroll row left untouched because its status has
// progressed past Calculated.
type SkippedRecord struct {
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"`
	Status     string `json:"status"`
}

type GenerateResult struct {
	Period    string            `json:"period"`
	Processed int               `json:"processed"`
	Skipped   []SkippedRecord   `json:"skipped,omitempty"`
	Failures  []EmployeeFailure `json:"failures,omitempty"`
	LogID     string            `json:"processing_log_id"`
}

type CreatePayrollRequest struct {
	EmployeeCode string           `json:"employee_code"`
	Period       string           `json:"period"`
	GrossSalary  *decimal.Decimal `json:"gross_salary,omitempty"`
	NetSalary    *decimal.Decimal `json:"net_salary,omitempty"`
	Deductions   *decimal.Decimal `json:"deductions,omitempty"`
	Tax          *decimal.Decimal `json:"tax,omitempty"`
	PaymentDate  *string          `json:"payment_date,omitempty"`
	Status       *string          `json:"status,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "is required"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayrollRequest struct {
	ID          string
	GrossSalary *decimal.Decimal `json:"gross_salary,omitempty"`
	NetSalary   *decimal.Decimal `json:"net_salary,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
	Tax         *decimal.Decimal `json:"tax,omitempty"`
	PaymentDate *string          `json:"payment_date,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

type FinalizeBatchRequest struct {
	CompanyID string `json:"company_id"`
	Period    string `json:"period"`
}

func (r *FinalizeBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkSendRequest struct {
	PayrollIDs []string `json:"payroll_ids"`
}

func (r *BulkSendRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.PayrollIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "payroll_ids", Message: "at least one payroll is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollFilter struct {
	CompanyID  *string
	EmployeeID *string
	Period     *string
	Status     *string
	Email      *string
}

type PayrollResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode *string         `json:"employee_code,omitempty"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	EmployeeTRN  *string         `json:"employee_trn,omitempty"`
	BankName     *string         `json:"bank_name,omitempty"`
	BankAccount  *string         `json:"bank_account,omitempty"`
	Period       string          `json:"period"`
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	Deductions   decimal.Decimal `json:"deductions"`
	Tax          decimal.Decimal `json:"tax"`
	NIS          decimal.Decimal `json:"nis"`
	NHT          decimal.Decimal `json:"nht"`
	EdTax        decimal.Decimal `json:"ed_tax"`
	PAYE         decimal.Decimal `json:"paye"`
	PaymentDate  *string         `json:"payment_date,omitempty"`
	Status       string          `json:"status"`
}

func ToPayrollResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		EmployeeCode: p.EmployeeCode,
		EmployeeName: p.EmployeeName,
		EmployeeTRN:  p.EmployeeTRN,
		BankName:     p.BankName,
		BankAccount:  p.BankAccount,
		Period:       p.Period,
		GrossSalary:  p.GrossSalary,
		NetSalary:    p.NetSalary,
		Deductions:   p.Deductions,
		Tax:          p.Tax,
		NIS:          p.NIS,
		NHT:          p.NHT,
		EdTax:        p.EdTax,
		PAYE:         p.PAYE,
		Status:       string(p.Status),
	}
	if p.PaymentDate != nil {
		paid := p.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &paid
	}
	return resp
}
