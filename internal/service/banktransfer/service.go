package banktransfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/domain/banktransfer"
	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/repository/postgresql"
)

type BankTransferServiceImpl struct {
	db          *database.DB
	repo        banktransfer.BankTransferRepository
	payrollRepo payroll.PayrollRepository
	logRepo     processing.LogRepository
	logger      *slog.Logger
}

func NewBankTransferService(
	db *database.DB,
	repo banktransfer.BankTransferRepository,
	payrollRepo payroll.PayrollRepository,
	logRepo processing.LogRepository,
	logger *slog.Logger,
) banktransfer.BankTransferService {
	return &BankTransferServiceImpl{
		db:          db,
		repo:        repo,
		payrollRepo: payrollRepo,
		logRepo:     logRepo,
		logger:      logger,
	}
}

// CreateBatch implements banktransfer.BankTransferService. A transfer row is
// built for every Finalized payroll that has bank details and does not
// already have a transfer; everything else lands in the skipped list.
func (s *BankTransferServiceImpl) CreateBatch(ctx context.Context, req banktransfer.CreateBatchRequest) (banktransfer.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return banktransfer.BatchResult{}, err
	}

	status := string(payroll.StatusFinalized)
	payrolls, err := s.payrollRepo.List(ctx, payroll.PayrollFilter{
		CompanyID: &req.CompanyID,
		Period:    &req.Period,
		Status:    &status,
	})
	if err != nil {
		return banktransfer.BatchResult{}, fmt.Errorf("list finalized payrolls: %w", err)
	}
	if len(payrolls) == 0 {
		return banktransfer.BatchResult{}, banktransfer.ErrNoTransfersToProcess
	}

	batchID := uuid.New().String()
	now := time.Now()
	result := banktransfer.BatchResult{
		BatchID:   batchID,
		Period:    req.Period,
		CreatedAt: now,
	}

	transfers := make([]banktransfer.BankTransfer, 0, len(payrolls))
	for _, p := range payrolls {
		code := ""
		if p.EmployeeCode != nil {
			code = *p.EmployeeCode
		}

		if p.BankName == nil || *p.BankName == "" || p.BankAccount == nil || *p.BankAccount == "" {
			result.Skipped = append(result.Skipped, banktransfer.SkippedRecord{
				EmployeeID:   p.EmployeeID,
				EmployeeCode: code,
				Reason:       banktransfer.ErrMissingBankDetails.Error(),
			})
			continue
		}
		if !p.NetSalary.IsPositive() {
			result.Skipped = append(result.Skipped, banktransfer.SkippedRecord{
				EmployeeID:   p.EmployeeID,
				EmployeeCode: code,
				Reason:       "net pay is not positive",
			})
			continue
		}

		exists, err := s.repo.ExistsForPayroll(ctx, p.EmployeeID, p.Period)
		if err != nil {
			return banktransfer.BatchResult{}, fmt.Errorf("check existing transfer: %w", err)
		}
		if exists {
			result.Skipped = append(result.Skipped, banktransfer.SkippedRecord{
				EmployeeID:   p.EmployeeID,
				EmployeeCode: code,
				Reason:       "transfer already exists for this period",
			})
			continue
		}

		accountName := ""
		if p.EmployeeName != nil {
			accountName = *p.EmployeeName
		}

		transfers = append(transfers, banktransfer.BankTransfer{
			CompanyID:     req.CompanyID,
			EmployeeID:    p.EmployeeID,
			BankName:      *p.BankName,
			AccountNumber: *p.BankAccount,
			AccountName:   accountName,
			Amount:        p.NetSalary,
			Reference:     fmt.Sprintf("SAL-%s-%s", p.Period, code),
			Period:        p.Period,
			TransferDate:  now,
			Status:        banktransfer.StatusPending,
			BatchID:       &batchID,
		})
		result.TotalAmt = result.TotalAmt.Add(p.NetSalary)
	}

	if len(transfers) > 0 {
		if err := s.repo.CreateBatch(ctx, transfers); err != nil {
			return banktransfer.BatchResult{}, fmt.Errorf("create transfer batch: %w", err)
		}
	}
	result.Created = len(transfers)

	s.logger.Info("bank transfer batch created",
		slog.String("batch_id", batchID),
		slog.String("period", req.Period),
		slog.Int("created", result.Created),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}

// GetByID implements banktransfer.BankTransferService.
func (s *BankTransferServiceImpl) GetByID(ctx context.Context, id string) (banktransfer.TransferResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return banktransfer.TransferResponse{}, err
	}
	return banktransfer.ToTransferResponse(&found), nil
}

// List implements banktransfer.BankTransferService.
func (s *BankTransferServiceImpl) List(ctx context.Context, filter banktransfer.TransferFilter) ([]banktransfer.TransferResponse, error) {
	if filter.Period != "" {
		filter.Period = period.Normalize(filter.Period)
	}

	transfers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]banktransfer.TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, banktransfer.ToTransferResponse(&transfers[i]))
	}
	return responses, nil
}

// Process implements banktransfer.BankTransferService. Transfers and their
// payroll rows move together: a partial flip would leave money marked sent
// with payroll still Finalized, so both updates share one transaction.
func (s *BankTransferServiceImpl) Process(ctx context.Context, req banktransfer.ProcessRequest) (banktransfer.ProcessResult, error) {
	if err := req.Validate(); err != nil {
		return banktransfer.ProcessResult{}, err
	}

	var pending []banktransfer.BankTransfer
	var err error
	if len(req.TransferIDs) > 0 {
		pending, err = s.repo.ListPendingByIDs(ctx, req.TransferIDs)
	} else {
		pending, err = s.repo.ListPendingByPeriod(ctx, req.CompanyID, req.Period)
	}
	if err != nil {
		return banktransfer.ProcessResult{}, fmt.Errorf("list pending transfers: %w", err)
	}
	if len(pending) == 0 {
		return banktransfer.ProcessResult{}, banktransfer.ErrNoTransfersToProcess
	}

	ids := make([]string, 0, len(pending))
	total := decimal.Zero
	for _, t := range pending {
		ids = append(ids, t.ID)
		total = total.Add(t.Amount)
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if _, err := s.repo.MarkProcessed(txCtx, ids); err != nil {
			return fmt.Errorf("mark transfers processed: %w", err)
		}

		for _, t := range pending {
			p, err := s.payrollRepo.GetByEmployeePeriod(txCtx, t.EmployeeID, t.Period)
			if err != nil {
				return fmt.Errorf("load payroll for transfer %s: %w", t.ID, err)
			}
			if p.Status != payroll.StatusFinalized {
				continue
			}
			now := time.Now()
			p.Status = payroll.StatusProcessed
			p.PaymentDate = &now
			if _, err := s.payrollRepo.Update(txCtx, p); err != nil {
				return fmt.Errorf("mark payroll processed for transfer %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return banktransfer.ProcessResult{}, err
	}

	s.recordPaymentLog(ctx, pending[0], len(ids))

	s.logger.Info("bank transfers processed",
		slog.Int("count", len(ids)),
		slog.String("total", total.StringFixed(2)))

	return banktransfer.ProcessResult{
		Processed: len(ids),
		TotalAmt:  total,
	}, nil
}

// recordPaymentLog writes a PAYMENT_PROCESS entry so disbursements appear in
// the run history. The money already moved, so a log failure only warns.
func (s *BankTransferServiceImpl) recordPaymentLog(ctx context.Context, first banktransfer.BankTransfer, processed int) {
	log, err := s.logRepo.Create(ctx, processing.Log{
		CompanyID:        first.CompanyID,
		ProcessType:      processing.ProcessPaymentProcess,
		Period:           first.Period,
		Status:           processing.StatusStarted,
		RecordsTotal:     processed,
		RecordsProcessed: processed,
	})
	if err != nil {
		s.logger.Warn("record payment process log", slog.String("error", err.Error()))
		return
	}

	completed := string(processing.StatusCompleted)
	count := processed
	if _, err := s.logRepo.Update(ctx, log.ID, processing.UpdateProgressRequest{
		Status:           &completed,
		RecordsProcessed: &count,
	}); err != nil {
		s.logger.Warn("close payment process log", slog.String("error", err.Error()))
	}
}

// Export implements banktransfer.BankTransferService.
func (s *BankTransferServiceImpl) Export(ctx context.Context, batchID string) ([]banktransfer.ExportRow, error) {
	transfers, err := s.repo.List(ctx, banktransfer.TransferFilter{
		BatchID: batchID,
		Status:  banktransfer.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	if len(transfers) == 0 {
		return nil, banktransfer.ErrNoTransfersToProcess
	}

	rows := make([]banktransfer.ExportRow, 0, len(transfers))
	for _, t := range transfers {
		row := banktransfer.ExportRow{
			AccountName:   t.AccountName,
			BankName:      t.BankName,
			AccountNumber: t.AccountNumber,
			Amount:        t.Amount.StringFixed(2),
			Reference:     t.Reference,
		}
		if t.EmployeeCode != nil {
			row.EmployeeCode = *t.EmployeeCode
		}
		if t.EmployeeTRN != nil {
			row.TRN = *t.EmployeeTRN
		}
		rows = append(rows, row)
	}
	return rows, nil
}
