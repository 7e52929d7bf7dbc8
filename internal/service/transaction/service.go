package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type TransactionServiceImpl struct {
	db           *database.DB
	repo         transaction.TransactionRepository
	employeeRepo employee.EmployeeRepository
	logRepo      processing.LogRepository
	logger       *slog.Logger
}

func NewTransactionService(
	db *database.DB,
	repo transaction.TransactionRepository,
	employeeRepo employee.EmployeeRepository,
	logRepo processing.LogRepository,
	logger *slog.Logger,
) transaction.TransactionService {
	return &TransactionServiceImpl{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		logRepo:      logRepo,
		logger:       logger,
	}
}

// Create implements transaction.TransactionService. The employee is addressed
// by company code rather than id because that is how batch entry sheets arrive.
func (s *TransactionServiceImpl) Create(ctx context.Context, req transaction.CreateTransactionRequest) (transaction.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return transaction.TransactionResponse{}, err
	}

	token := period.Normalize(req.Period)
	if !period.Valid(token) {
		return transaction.TransactionResponse{}, validator.ValidationErrors{
			{Field: "period", Message: "is not a recognizable month token"},
		}
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	if emp.CompanyID != req.CompanyID {
		return transaction.TransactionResponse{}, employee.ErrEmployeeNotFound
	}

	txDate, _ := validator.IsValidDate(req.TransactionDate)

	created, err := s.repo.Create(ctx, transaction.Transaction{
		CompanyID:       req.CompanyID,
		EmployeeID:      emp.ID,
		TransactionDate: txDate,
		Type:            transaction.Type(req.Type),
		Code:            req.Code,
		Description:     req.Description,
		Amount:          req.Amount,
		Units:           req.Units,
		Rate:            req.Rate,
		Status:          transaction.StatusEntered,
		Period:          token,
		EnteredBy:       req.EnteredBy,
	})
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	return transaction.ToTransactionResponse(created), nil
}

// BulkCreate implements transaction.TransactionService. Items are independent:
// a bad row is reported by index and the rest still land.
func (s *TransactionServiceImpl) BulkCreate(ctx context.Context, req transaction.BulkCreateRequest) (transaction.BulkCreateResult, error) {
	result := transaction.BulkCreateResult{
		Total:        len(req.Transactions),
		Transactions: make([]transaction.TransactionResponse, 0, len(req.Transactions)),
	}

	for i, item := range req.Transactions {
		resp, err := s.Create(ctx, item)
		if err != nil {
			result.Errors = append(result.Errors, transaction.BulkItemError{
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		result.Transactions = append(result.Transactions, resp)
		result.Created++
	}

	return result, nil
}

// GetByID implements transaction.TransactionService.
func (s *TransactionServiceImpl) GetByID(ctx context.Context, id string) (transaction.TransactionResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	return transaction.ToTransactionResponse(found), nil
}

// List implements transaction.TransactionService.
func (s *TransactionServiceImpl) List(ctx context.Context, filter transaction.TransactionFilter) ([]transaction.TransactionResponse, error) {
	if filter.Period != nil {
		token := period.Normalize(*filter.Period)
		filter.Period = &token
	}

	transactions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]transaction.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, transaction.ToTransactionResponse(t))
	}
	return responses, nil
}

// Update implements transaction.TransactionService. The repository enforces
// that only ENTERED rows change.
func (s *TransactionServiceImpl) Update(ctx context.Context, id string, req transaction.UpdateTransactionRequest) (transaction.TransactionResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	if existing.Status != transaction.StatusEntered {
		return transaction.TransactionResponse{}, transaction.ErrTransactionNotEditable
	}

	if req.TransactionDate != nil {
		txDate, ok := validator.IsValidDate(*req.TransactionDate)
		if !ok {
			return transaction.TransactionResponse{}, validator.ValidationErrors{
				{Field: "transaction_date", Message: "must be YYYY-MM-DD"},
			}
		}
		existing.TransactionDate = txDate
	}
	if req.Type != nil {
		if !validator.IsInSlice(*req.Type, []string{
			string(transaction.TypeEarning), string(transaction.TypeAllowance), string(transaction.TypeDeduction),
		}) {
			return transaction.TransactionResponse{}, transaction.ErrInvalidType
		}
		existing.Type = transaction.Type(*req.Type)
	}
	if req.Code != nil {
		existing.Code = *req.Code
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsZero() || req.Amount.IsNegative() {
			return transaction.TransactionResponse{}, validator.ValidationErrors{
				{Field: "amount", Message: "must be positive"},
			}
		}
		existing.Amount = *req.Amount
	}
	if req.Units != nil {
		existing.Units = req.Units
	}
	if req.Rate != nil {
		existing.Rate = req.Rate
	}
	if req.Period != nil {
		token := period.Normalize(*req.Period)
		if !period.Valid(token) {
			return transaction.TransactionResponse{}, validator.ValidationErrors{
				{Field: "period", Message: "is not a recognizable month token"},
			}
		}
		existing.Period = token
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	return transaction.ToTransactionResponse(updated), nil
}

// Delete implements transaction.TransactionService.
func (s *TransactionServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Post implements transaction.TransactionService. The flip is recorded as a
// TRANSACTION_POST processing log so batch approvals show up in history
// alongside payroll runs.
func (s *TransactionServiceImpl) Post(ctx context.Context, req transaction.PostTransactionsRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	first, err := s.repo.GetByID(ctx, req.TransactionIDs[0])
	if err != nil {
		return 0, err
	}

	posted, err := s.repo.Post(ctx, req.TransactionIDs, req.PostedBy)
	if err != nil {
		return 0, err
	}
	if posted == 0 {
		return 0, transaction.ErrNotEntered
	}

	log, err := s.logRepo.Create(ctx, processing.Log{
		CompanyID:        first.CompanyID,
		ProcessType:      processing.ProcessTransactionPost,
		Period:           first.Period,
		Status:           processing.StatusStarted,
		RecordsTotal:     len(req.TransactionIDs),
		RecordsProcessed: int(posted),
		ProcessedBy:      req.PostedBy,
	})
	if err != nil {
		s.logger.Warn("record transaction post log", slog.String("error", err.Error()))
		return posted, nil
	}

	completed := string(processing.StatusCompleted)
	processedCount := int(posted)
	if _, err := s.logRepo.Update(ctx, log.ID, processing.UpdateProgressRequest{
		Status:           &completed,
		RecordsProcessed: &processedCount,
	}); err != nil {
		s.logger.Warn("close transaction post log", slog.String("error", err.Error()))
	}

	return posted, nil
}

// Register implements transaction.TransactionService.
func (s *TransactionServiceImpl) Register(ctx context.Context, companyID, periodRaw string) (transaction.RegisterResponse, error) {
	token := period.Normalize(periodRaw)
	if !period.Valid(token) {
		return transaction.RegisterResponse{}, validator.ValidationErrors{
			{Field: "period", Message: "is not a recognizable month token"},
		}
	}

	transactions, err := s.repo.List(ctx, transaction.TransactionFilter{
		CompanyID: &companyID,
		Period:    &token,
	})
	if err != nil {
		return transaction.RegisterResponse{}, fmt.Errorf("list transactions for register: %w", err)
	}

	resp := transaction.RegisterResponse{
		Transactions: make([]transaction.TransactionResponse, 0, len(transactions)),
		Grouped:      make(map[string][]transaction.TransactionResponse),
	}
	for _, t := range transactions {
		item := transaction.ToTransactionResponse(t)
		resp.Transactions = append(resp.Transactions, item)
		resp.Grouped[string(t.Status)] = append(resp.Grouped[string(t.Status)], item)

		resp.Summary.Total++
		switch t.Status {
		case transaction.StatusEntered:
			resp.Summary.Entered++
		case transaction.StatusPosted:
			resp.Summary.Posted++
		case transaction.StatusProcessed:
			resp.Summary.Processed++
		}
	}

	return resp, nil
}
