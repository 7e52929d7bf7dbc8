package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/domain/advance"
	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
	"github.com/islandhr/payroll-backend-go/internal/pkg/sse"
	"github.com/islandhr/payroll-backend-go/internal/repository/postgresql"
)

// progressEvery is how many employees are committed between processing log
// progress updates.
const progressEvery = 5

// runGuard serializes payroll generation per (company, period). A second
// request for the same key while a run is active gets
// ErrGenerationInProgress instead of queueing behind the first.
type runGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunGuard() *runGuard {
	return &runGuard{active: make(map[string]struct{})}
}

func (g *runGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.active[key]; held {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *runGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// Generate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResult{}, err
	}

	token := period.Normalize(req.Period)
	if !period.Valid(token) {
		return payroll.GenerateResult{}, payroll.ErrInvalidPeriod
	}
	periodEnd, err := period.LastDay(token)
	if err != nil {
		return payroll.GenerateResult{}, payroll.ErrInvalidPeriod
	}

	rates, err := s.calc.TableFor(periodEnd)
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return payroll.GenerateResult{}, err
	}

	guardKey := req.CompanyID + "|" + token
	if !s.guard.acquire(guardKey) {
		return payroll.GenerateResult{}, payroll.ErrGenerationInProgress
	}
	defer s.guard.release(guardKey)

	eligible, err := s.eligibleEmployees(ctx, req.CompanyID, token)
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	log, err := s.logRepo.Create(ctx, processing.Log{
		CompanyID:    req.CompanyID,
		ProcessType:  processing.ProcessPayrollCalc,
		Period:       token,
		Status:       processing.StatusStarted,
		RecordsTotal: len(eligible),
		ProcessedBy:  req.RunBy,
	})
	if err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("failed to open processing log: %w", err)
	}

	postedByEmployee, err := s.postedTransactions(ctx, req.CompanyID, token)
	if err != nil {
		s.closeLog(ctx, log.ID, processing.StatusFailed, 0, err.Error())
		return payroll.GenerateResult{}, err
	}

	advancesByEmployee, err := s.approvedAdvances(ctx, req.CompanyID, token)
	if err != nil {
		s.closeLog(ctx, log.ID, processing.StatusFailed, 0, err.Error())
		return payroll.GenerateResult{}, err
	}

	result := payroll.GenerateResult{Period: token, LogID: log.ID}
	inProgress := false

	for _, emp := range eligible {
		select {
		case <-ctx.Done():
			s.closeLog(context.WithoutCancel(ctx), log.ID, processing.StatusFailed,
				result.Processed, "generation cancelled: "+ctx.Err().Error())
			s.publishProgress(req.CompanyID, token, log.ID, processing.StatusFailed,
				result.Processed, len(eligible))
			return result, ctx.Err()
		default:
		}

		skipped, err := s.generateForEmployee(ctx, emp, token, rates,
			postedByEmployee[emp.ID], advancesByEmployee[emp.ID])
		if err != nil {
			s.logger.Error("payroll generation failed for employee",
				slog.String("employee_code", emp.Code),
				slog.String("period", token),
				slog.Any("error", err))
			result.Failures = append(result.Failures, payroll.EmployeeFailure{
				EmployeeID:   emp.ID,
				EmployeeCode: emp.Code,
				Error:        err.Error(),
			})
			continue
		}
		if skipped != nil {
			result.Skipped = append(result.Skipped, *skipped)
			continue
		}

		result.Processed++
		if !inProgress || result.Processed%progressEvery == 0 {
			status := string(processing.StatusInProgress)
			processed := result.Processed
			if _, err := s.logRepo.Update(ctx, log.ID, processing.UpdateProgressRequest{
				Status:           &status,
				RecordsProcessed: &processed,
			}); err != nil {
				s.logger.Warn("failed to update processing log progress",
					slog.String("log_id", log.ID), slog.Any("error", err))
			}
			s.publishProgress(req.CompanyID, token, log.ID, processing.StatusInProgress,
				result.Processed, len(eligible))
			inProgress = true
		}
	}

	finalStatus := processing.StatusCompleted
	var errMsg string
	if len(result.Failures) > 0 {
		errMsg = fmt.Sprintf("%d of %d employees failed", len(result.Failures), len(eligible))
	}
	s.closeLog(ctx, log.ID, finalStatus, result.Processed, errMsg)
	s.publishProgress(req.CompanyID, token, log.ID, finalStatus, result.Processed, len(eligible))

	s.logger.Info("payroll generation finished",
		slog.String("company_id", req.CompanyID),
		slog.String("period", token),
		slog.Int("processed", result.Processed),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("failed", len(result.Failures)))

	return result, nil
}

// eligibleEmployees returns Active employees whose join date falls on or
// before the last day of the period. A missing join date counts as
// pre-existing staff and is always eligible.
func (s *PayrollServiceImpl) eligibleEmployees(ctx context.Context, companyID, token string) ([]employee.Employee, error) {
	periodEnd, err := period.LastDay(token)
	if err != nil {
		return nil, payroll.ErrInvalidPeriod
	}

	active, err := s.employeeRepo.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	eligible := make([]employee.Employee, 0, len(active))
	for _, emp := range active {
		if emp.JoinDate != nil && emp.JoinDate.After(periodEnd) {
			continue
		}
		eligible = append(eligible, emp)
	}
	return eligible, nil
}

// postedTransactions groups the period's POSTED transactions by employee.
func (s *PayrollServiceImpl) postedTransactions(ctx context.Context, companyID, token string) (map[string][]transaction.Transaction, error) {
	posted, err := s.transactionRepo.ListPosted(ctx, companyID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list posted transactions: %w", err)
	}

	grouped := make(map[string][]transaction.Transaction)
	for _, t := range posted {
		grouped[t.EmployeeID] = append(grouped[t.EmployeeID], t)
	}
	return grouped, nil
}

// approvedAdvances groups APPROVED salary advances due for recovery in the
// period by employee.
func (s *PayrollServiceImpl) approvedAdvances(ctx context.Context, companyID, token string) (map[string][]advance.AdvancePayment, error) {
	advances, err := s.advanceRepo.ListApprovedByPeriod(ctx, companyID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved advances: %w", err)
	}

	grouped := make(map[string][]advance.AdvancePayment)
	for _, a := range advances {
		grouped[a.EmployeeID] = append(grouped[a.EmployeeID], a)
	}
	return grouped, nil
}

// generateForEmployee computes and persists one employee's payroll for the
// period. The upsert, the transaction status flips and the advance recovery
// commit atomically; a failure leaves the employee fully unprocessed so a
// re-run can pick them up.
//
// An existing payroll row that has progressed past Calculated is left alone
// and reported as skipped. A regenerable row is recomputed from the lines
// still POSTED at that moment: lines consumed by an earlier run stay
// PROCESSED and drop out of the new totals, so corrections are made by
// posting new lines, not by re-running against the old ones.
func (s *PayrollServiceImpl) generateForEmployee(
	ctx context.Context,
	emp employee.Employee,
	token string,
	rates RateTable,
	lines []transaction.Transaction,
	advances []advance.AdvancePayment,
) (*payroll.SkippedRecord, error) {
	existing, err := s.payrollRepo.GetByEmployeePeriod(ctx, emp.ID, token)
	switch {
	case err == nil:
		if !existing.Status.Regenerable() {
			return &payroll.SkippedRecord{
				EmployeeID: emp.ID,
				Period:     token,
				Status:     string(existing.Status),
			}, nil
		}
	case !errors.Is(err, payroll.ErrPayrollNotFound):
		return nil, fmt.Errorf("failed to check existing payroll: %w", err)
	}

	gross := emp.BaseSalary
	deductions := decimal.Zero
	for _, line := range lines {
		switch line.Type {
		case transaction.TypeEarning, transaction.TypeAllowance:
			gross = gross.Add(line.Amount)
		case transaction.TypeDeduction:
			deductions = deductions.Add(line.Amount)
		}
		// Other types are carried through untouched.
	}

	var advanceIDs []string
	for _, a := range advances {
		deductions = deductions.Add(a.Amount)
		advanceIDs = append(advanceIDs, a.ID)
	}

	breakdown := Compute(gross, deductions, rates)

	err = s.runInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.payrollRepo.Create(txCtx, payroll.Payroll{
			EmployeeID:  emp.ID,
			Period:      token,
			GrossSalary: breakdown.Gross,
			NetSalary:   breakdown.Net,
			Deductions:  breakdown.Deductions,
			Tax:         breakdown.TotalTax,
			NIS:         breakdown.NIS,
			NHT:         breakdown.NHT,
			EdTax:       breakdown.EdTax,
			PAYE:        breakdown.PAYE,
			Status:      payroll.StatusCalculated,
		}); err != nil {
			return err
		}

		if _, err := s.transactionRepo.MarkProcessed(txCtx, emp.ID, token); err != nil {
			return err
		}

		if len(advanceIDs) > 0 {
			if _, err := s.advanceRepo.MarkRecovered(txCtx, advanceIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return nil, nil
}

// publishProgress pushes a run update to live subscribers. The hub is
// optional; without one the run is observable through the processing log
// alone.
func (s *PayrollServiceImpl) publishProgress(companyID, token, logID string, status processing.Status, processed, total int) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(sse.Event{
		Topic: sse.Topic(companyID, token),
		Name:  "payroll_progress",
		Data: sse.RunProgress{
			LogID:     logID,
			Period:    token,
			Status:    string(status),
			Processed: processed,
			Total:     total,
		},
	})
}

// closeLog records the terminal state of a run; the log itself is best
// effort and must not mask the run's outcome.
func (s *PayrollServiceImpl) closeLog(ctx context.Context, logID string, status processing.Status, processed int, errMsg string) {
	st := string(status)
	req := processing.UpdateProgressRequest{
		Status:           &st,
		RecordsProcessed: &processed,
	}
	if errMsg != "" {
		req.ErrorMessage = &errMsg
	}
	if _, err := s.logRepo.Update(ctx, logID, req); err != nil {
		s.logger.Warn("failed to close processing log",
			slog.String("log_id", logID), slog.Any("error", err))
	}
}

// defaultTxRunner executes fn inside a database transaction, exposing the tx
// to repositories through the context.
func defaultTxRunner(s *PayrollServiceImpl) func(ctx context.Context, fn func(ctx context.Context) error) error {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)
			return fn(txCtx)
		})
	}
}
