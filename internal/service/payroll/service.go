package payroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/islandhr/payroll-backend-go/internal/domain/advance"
	"github.com/islandhr/payroll-backend-go/internal/domain/company"
	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/email"
	"github.com/islandhr/payroll-backend-go/internal/pkg/payslip"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/sse"
	"github.com/islandhr/payroll-backend-go/internal/pkg/storage"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	db              *database.DB
	payrollRepo     payroll.PayrollRepository
	employeeRepo    employee.EmployeeRepository
	companyRepo     company.CompanyRepository
	transactionRepo transaction.TransactionRepository
	advanceRepo     advance.AdvanceRepository
	logRepo         processing.LogRepository

	calc     *Calculator
	renderer payslip.Renderer
	mailer   email.EmailService
	archive  storage.Archive // optional, nil disables the payslip archive
	guard    *runGuard
	hub      *sse.Hub // optional, nil disables progress streaming
	logger   *slog.Logger

	runInTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	transactionRepo transaction.TransactionRepository,
	advanceRepo advance.AdvanceRepository,
	logRepo processing.LogRepository,
	renderer payslip.Renderer,
	mailer email.EmailService,
	archive storage.Archive,
	hub *sse.Hub,
	logger *slog.Logger,
) payroll.PayrollService {
	s := &PayrollServiceImpl{
		db:              db,
		payrollRepo:     payrollRepo,
		employeeRepo:    employeeRepo,
		companyRepo:     companyRepo,
		transactionRepo: transactionRepo,
		advanceRepo:     advanceRepo,
		logRepo:         logRepo,
		calc:            NewCalculator(DefaultRateTables()),
		renderer:        renderer,
		mailer:          mailer,
		archive:         archive,
		guard:           newRunGuard(),
		hub:             hub,
		logger:          logger,
	}
	s.runInTx = defaultTxRunner(s)
	return s
}

// Create implements payroll.PayrollService. Manual rows are stored as
// Pending; a later generation run may overwrite them.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	token := period.Normalize(req.Period)
	if !period.Valid(token) {
		return payroll.PayrollResponse{}, payroll.ErrInvalidPeriod
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	row := payroll.Payroll{
		EmployeeID: emp.ID,
		Period:     token,
		Status:     payroll.StatusPending,
	}
	if req.GrossSalary != nil {
		row.GrossSalary = *req.GrossSalary
	}
	if req.NetSalary != nil {
		row.NetSalary = *req.NetSalary
	}
	if req.Deductions != nil {
		row.Deductions = *req.Deductions
	}
	if req.Tax != nil {
		row.Tax = *req.Tax
	}
	if req.Status != nil {
		row.Status = payroll.Status(*req.Status)
	}
	if req.PaymentDate != nil {
		paid, _ := validator.IsValidDate(*req.PaymentDate)
		row.PaymentDate = &paid
	}

	created, err := s.payrollRepo.Create(ctx, row)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToPayrollResponse(created), nil
}

func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	found, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToPayrollResponse(found), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollResponse, error) {
	if filter.Period != nil {
		normalized := period.Normalize(*filter.Period)
		filter.Period = &normalized
	}

	rows, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayrollResponse, 0, len(rows))
	for _, p := range rows {
		responses = append(responses, payroll.ToPayrollResponse(p))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	existing, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	if req.GrossSalary != nil {
		existing.GrossSalary = *req.GrossSalary
	}
	if req.NetSalary != nil {
		existing.NetSalary = *req.NetSalary
	}
	if req.Deductions != nil {
		existing.Deductions = *req.Deductions
	}
	if req.Tax != nil {
		existing.Tax = *req.Tax
	}
	if req.PaymentDate != nil {
		paid, ok := validator.IsValidDate(*req.PaymentDate)
		if !ok {
			return payroll.PayrollResponse{}, validator.ValidationErrors{
				{Field: "payment_date", Message: "must be YYYY-MM-DD"},
			}
		}
		existing.PaymentDate = &paid
	}
	if req.Status != nil {
		existing.Status = payroll.Status(*req.Status)
	}

	updated, err := s.payrollRepo.Update(ctx, existing)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToPayrollResponse(updated), nil
}

func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	return s.payrollRepo.Delete(ctx, id)
}

// Finalize implements payroll.PayrollService.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, req payroll.FinalizeBatchRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	token := period.Normalize(req.Period)
	if !period.Valid(token) {
		return 0, payroll.ErrInvalidPeriod
	}

	count, err := s.payrollRepo.FinalizeBatch(ctx, req.CompanyID, token)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, payroll.ErrNothingToFinalize
	}

	s.logger.Info("payroll period finalized",
		slog.String("company_id", req.CompanyID),
		slog.String("period", token),
		slog.Int64("records", count))

	return count, nil
}

// SendPayslips implements payroll.PayrollService. Each payslip is rendered
// and mailed independently; one bounced address does not hold back the rest
// of the batch.
func (s *PayrollServiceImpl) SendPayslips(ctx context.Context, req payroll.BulkSendRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	var sentIDs []string
	for _, id := range req.PayrollIDs {
		select {
		case <-ctx.Done():
			return int64(len(sentIDs)), ctx.Err()
		default:
		}

		p, err := s.payrollRepo.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn("skipping payslip for missing payroll",
				slog.String("payroll_id", id), slog.Any("error", err))
			continue
		}
		if p.Status != payroll.StatusFinalized && p.Status != payroll.StatusProcessed {
			s.logger.Warn("skipping payslip for non-finalized payroll",
				slog.String("payroll_id", id), slog.String("status", string(p.Status)))
			continue
		}

		emp, err := s.employeeRepo.GetByID(ctx, p.EmployeeID)
		if err != nil {
			s.logger.Warn("skipping payslip, employee lookup failed",
				slog.String("payroll_id", id), slog.Any("error", err))
			continue
		}
		comp, err := s.companyRepo.GetByID(ctx, emp.CompanyID)
		if err != nil {
			s.logger.Warn("skipping payslip, company lookup failed",
				slog.String("payroll_id", id), slog.Any("error", err))
			continue
		}

		data := payslip.Data{
			CompanyName:  comp.Name,
			EmployeeName: emp.FullName(),
			EmployeeCode: emp.Code,
			Period:       p.Period,
			GrossSalary:  p.GrossSalary,
			Deductions:   p.Deductions,
			NIS:          p.NIS,
			NHT:          p.NHT,
			EdTax:        p.EdTax,
			PAYE:         p.PAYE,
			TotalTax:     p.Tax,
			NetSalary:    p.NetSalary,
		}
		if emp.TRN != nil {
			data.TRN = *emp.TRN
		}

		pdf, err := s.renderer.Render(data)
		if err != nil {
			return int64(len(sentIDs)), fmt.Errorf("failed to render payslip for %s: %w", emp.Code, err)
		}

		if s.archive != nil {
			key := storage.PayslipKey(p.Period, emp.Code)
			if _, err := s.archive.Store(ctx, key, bytes.NewReader(pdf)); err != nil {
				s.logger.Warn("failed to archive payslip",
					slog.String("key", key), slog.Any("error", err))
			}
		}

		if err := s.mailer.SendPayslip(emp.Email, emp.FullName(), comp.Name, p.Period, pdf); err != nil {
			s.logger.Error("failed to send payslip",
				slog.String("employee_code", emp.Code),
				slog.String("period", p.Period),
				slog.Any("error", err))
			continue
		}
		sentIDs = append(sentIDs, id)
	}

	if len(sentIDs) == 0 {
		return 0, nil
	}

	count, err := s.payrollRepo.MarkSent(ctx, sentIDs)
	if err != nil {
		return 0, fmt.Errorf("payslips sent but status update failed: %w", err)
	}
	return count, nil
}

// Payslip implements payroll.PayrollService. The archived copy wins when one
// exists; otherwise the document is rendered from the stored figures and
// archived for next time.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, id string) ([]byte, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == payroll.StatusPending {
		return nil, payroll.ErrPayslipNotReady
	}

	emp, err := s.employeeRepo.GetByID(ctx, p.EmployeeID)
	if err != nil {
		return nil, err
	}

	key := storage.PayslipKey(p.Period, emp.Code)
	if s.archive != nil {
		if ok, err := s.archive.Exists(ctx, key); err == nil && ok {
			doc, err := s.archive.Open(ctx, key)
			if err == nil {
				defer doc.Close()
				return io.ReadAll(doc)
			}
			s.logger.Warn("failed to open archived payslip, re-rendering",
				slog.String("key", key), slog.Any("error", err))
		}
	}

	comp, err := s.companyRepo.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return nil, err
	}

	data := payslip.Data{
		CompanyName:  comp.Name,
		EmployeeName: emp.FullName(),
		EmployeeCode: emp.Code,
		Period:       p.Period,
		GrossSalary:  p.GrossSalary,
		Deductions:   p.Deductions,
		NIS:          p.NIS,
		NHT:          p.NHT,
		EdTax:        p.EdTax,
		PAYE:         p.PAYE,
		TotalTax:     p.Tax,
		NetSalary:    p.NetSalary,
	}
	if emp.TRN != nil {
		data.TRN = *emp.TRN
	}

	pdf, err := s.renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render payslip for %s: %w", emp.Code, err)
	}

	if s.archive != nil {
		if _, err := s.archive.Store(ctx, key, bytes.NewReader(pdf)); err != nil {
			s.logger.Warn("failed to archive payslip",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return pdf, nil
}
