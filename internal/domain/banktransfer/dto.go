package banktransfer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type CreateBatchRequest struct {
	CompanyID string `json:"company_id"`
	Period    string `json:"period"`
	RunBy     string `json:"run_by"`
}

func (r *CreateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id is required"})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period is required"})
	} else {
		r.Period = period.Normalize(r.Period)
		if !period.Valid(r.Period) {
			errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be in MMM-YYYY format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ProcessRequest struct {
	TransferIDs []string `json:"transfer_ids"`
	CompanyID   string   `json:"company_id"`
	Period      string   `json:"period"`
}

func (r *ProcessRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.TransferIDs) == 0 {
		if validator.IsEmpty(r.CompanyID) {
			errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id is required when transfer_ids is empty"})
		}
		if validator.IsEmpty(r.Period) {
			errs = append(errs, validator.ValidationError{Field: "period", Message: "period is required when transfer_ids is empty"})
		} else {
			r.Period = period.Normalize(r.Period)
			if !period.Valid(r.Period) {
				errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be in MMM-YYYY format"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BatchResult struct {
	BatchID   string          `json:"batch_id"`
	Period    string          `json:"period"`
	Created   int             `json:"created"`
	Skipped   []SkippedRecord `json:"skipped,omitempty"`
	TotalAmt  decimal.Decimal `json:"total_amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type SkippedRecord struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Reason       string `json:"reason"`
}

type ProcessResult struct {
	Processed int             `json:"processed"`
	Failed    int             `json:"failed"`
	TotalAmt  decimal.Decimal `json:"total_amount"`
}

type TransferFilter struct {
	CompanyID string
	Period    string
	Status    Status
	BatchID   string
	Limit     int
	Offset    int
}

type TransferResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeCode  *string         `json:"employee_code,omitempty"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	Period        string          `json:"period"`
	TransferDate  time.Time       `json:"transfer_date"`
	Status        Status          `json:"status"`
	BatchID       *string         `json:"batch_id,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func ToTransferResponse(t *BankTransfer) TransferResponse {
	return TransferResponse{
		ID:            t.ID,
		CompanyID:     t.CompanyID,
		EmployeeID:    t.EmployeeID,
		EmployeeCode:  t.EmployeeCode,
		EmployeeName:  t.EmployeeName,
		BankName:      t.BankName,
		AccountNumber: t.AccountNumber,
		AccountName:   t.AccountName,
		Amount:        t.Amount,
		Reference:     t.Reference,
		Period:        t.Period,
		TransferDate:  t.TransferDate,
		Status:        t.Status,
		BatchID:       t.BatchID,
		ProcessedAt:   t.ProcessedAt,
		CreatedAt:     t.CreatedAt,
	}
}

// ExportRow is one line of the bank upload file for a transfer batch.
type ExportRow struct {
	EmployeeCode  string `json:"employee_code"`
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	TRN           string `json:"trn"`
	Amount        string `json:"amount"`
	Reference     string `json:"reference"`
}
