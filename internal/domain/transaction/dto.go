package transaction

import (
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	CompanyID       string           `json:"company_id"`
	EmployeeCode    string           `json:"employee_code"`
	TransactionDate string           `json:"transaction_date"` // YYYY-MM-DD
	Type            string           `json:"type"`
	Code            string           `json:"code"`
	Description     string           `json:"description,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Units           *decimal.Decimal `json:"units,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	Period          string           `json:"period"`
	EnteredBy       string           `json:"entered_by,omitempty"`
}

func (r *CreateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.TransactionDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "transaction_date", Message: "must be YYYY-MM-DD"})
	}
	if !validator.IsInSlice(r.Type, []string{string(TypeEarning), string(TypeAllowance), string(TypeDeduction)}) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be EARNING, ALLOWANCE or DEDUCTION"})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	}
	if r.Amount.IsZero() || r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTransactionRequest struct {
	ID              string
	TransactionDate *string          `json:"transaction_date,omitempty"`
	Type            *string          `json:"type,omitempty"`
	Code            *string          `json:"code,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Units           *decimal.Decimal `json:"units,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	Period          *string          `json:"period,omitempty"`
}

type BulkCreateRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions"`
}

type BulkCreateResult struct {
	Created      int                   `json:"created"`
	Total        int                   `json:"total"`
	Transactions []TransactionResponse `json:"transactions"`
	Errors       []BulkItemError       `json:"errors"`
}

type BulkItemError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type PostTransactionsRequest struct {
	TransactionIDs []string `json:"transaction_ids"`
	PostedBy       string   `json:"posted_by,omitempty"`
}

func (r *PostTransactionsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.TransactionIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "transaction_ids", Message: "at least one transaction is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransactionFilter struct {
	CompanyID  *string
	EmployeeID *string
	Period     *string
	Status     *string
	Type       *string
}

type TransactionResponse struct {
	ID              string           `json:"id"`
	CompanyID       string           `json:"company_id"`
	EmployeeID      string           `json:"employee_id"`
	EmployeeCode    *string          `json:"employee_code,omitempty"`
	EmployeeName    *string          `json:"employee_name,omitempty"`
	TransactionDate string           `json:"transaction_date"`
	Type            string           `json:"type"`
	Code            string           `json:"code"`
	Description     string           `json:"description,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Units           *decimal.Decimal `json:"units,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	Status          string           `json:"status"`
	Period          string           `json:"period"`
	EnteredBy       string           `json:"entered_by"`
	PostedBy        *string          `json:"posted_by,omitempty"`
}

// RegisterResponse groups company transactions by lifecycle status.
type RegisterResponse struct {
	Transactions []TransactionResponse            `json:"transactions"`
	Grouped      map[string][]TransactionResponse `json:"grouped"`
	Summary      RegisterSummary                  `json:"summary"`
}

type RegisterSummary struct {
	Total     int `json:"total"`
	Entered   int `json:"entered"`
	Posted    int `json:"posted"`
	Processed int `json:"processed"`
}

func ToTransactionResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		CompanyID:       t.CompanyID,
		EmployeeID:      t.EmployeeID,
		EmployeeCode:    t.EmployeeCode,
		EmployeeName:    t.EmployeeName,
		TransactionDate: t.TransactionDate.Format("2006-01-02"),
		Type:            string(t.Type),
		Code:            t.Code,
		Description:     t.Description,
		Amount:          t.Amount,
		Units:           t.Units,
		Rate:            t.Rate,
		Status:          string(t.Status),
		Period:          t.Period,
		EnteredBy:       t.EnteredBy,
		PostedBy:        t.PostedBy,
	}
}
