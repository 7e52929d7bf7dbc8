package transaction

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type fakeTransactionRepo struct {
	transactions map[string]transaction.Transaction
	created      []transaction.Transaction
	posted       []string
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[string]transaction.Transaction)}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	t.ID = "tx-" + t.Code
	f.transactions[t.ID] = t
	f.created = append(f.created, t)
	return t, nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id string) (transaction.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return transaction.Transaction{}, transaction.ErrTransactionNotFound
	}
	return t, nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, filter transaction.TransactionFilter) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	for _, t := range f.transactions {
		if filter.CompanyID != nil && t.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Period != nil && t.Period != *filter.Period {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeTransactionRepo) Post(ctx context.Context, ids []string, postedBy string) (int64, error) {
	var n int64
	for _, id := range ids {
		t, ok := f.transactions[id]
		if !ok || t.Status != transaction.StatusEntered {
			continue
		}
		t.Status = transaction.StatusPosted
		f.transactions[id] = t
		f.posted = append(f.posted, id)
		n++
	}
	return n, nil
}

func (f *fakeTransactionRepo) ListPosted(ctx context.Context, companyID, period string) ([]transaction.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionRepo) MarkProcessed(ctx context.Context, employeeID, period string) (int64, error) {
	return 0, nil
}

type fakeEmployeeRepo struct {
	byCode map[string]employee.Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	e, ok := f.byCode[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeLogRepo struct {
	logs    []processing.Log
	updates []processing.UpdateProgressRequest
}

func (f *fakeLogRepo) Create(ctx context.Context, log processing.Log) (processing.Log, error) {
	log.ID = "log-1"
	f.logs = append(f.logs, log)
	return log, nil
}

func (f *fakeLogRepo) GetByID(ctx context.Context, id string) (processing.Log, error) {
	return processing.Log{}, processing.ErrLogNotFound
}

func (f *fakeLogRepo) Update(ctx context.Context, id string, req processing.UpdateProgressRequest) (processing.Log, error) {
	f.updates = append(f.updates, req)
	return processing.Log{ID: id}, nil
}

func (f *fakeLogRepo) List(ctx context.Context, filter processing.LogFilter) ([]processing.Log, error) {
	return nil, nil
}

func (f *fakeLogRepo) ListActive(ctx context.Context, companyID *string, limit int) ([]processing.Log, error) {
	return nil, nil
}

func (f *fakeLogRepo) ListCompletedSince(ctx context.Context, companyID *string, since time.Time, limit int) ([]processing.Log, error) {
	return nil, nil
}

func (f *fakeLogRepo) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestService(txRepo *fakeTransactionRepo, empRepo *fakeEmployeeRepo, logRepo *fakeLogRepo) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		repo:         txRepo,
		employeeRepo: empRepo,
		logRepo:      logRepo,
		logger:       slog.Default(),
	}
}

func TestCreateNormalizesPeriodAndResolvesEmployee(t *testing.T) {
	txRepo := newFakeTransactionRepo()
	empRepo := &fakeEmployeeRepo{byCode: map[string]employee.Employee{
		"EMP001": {ID: "emp-1", CompanyID: "comp-1", Code: "EMP001"},
	}}
	svc := newTestService(txRepo, empRepo, &fakeLogRepo{})

	resp, err := svc.Create(context.Background(), transaction.CreateTransactionRequest{
		CompanyID:       "comp-1",
		EmployeeCode:    "EMP001",
		TransactionDate: "2026-01-15",
		Type:            "EARNING",
		Code:            "OT",
		Amount:          decimal.NewFromInt(5000),
		Period:          "2026-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "JAN-2026", resp.Period)
	assert.Equal(t, "ENTERED", resp.Status)
	require.Len(t, txRepo.created, 1)
	assert.Equal(t, "emp-1", txRepo.created[0].EmployeeID)
}

func TestCreateRejectsEmployeeFromAnotherCompany(t *testing.T) {
	empRepo := &fakeEmployeeRepo{byCode: map[string]employee.Employee{
		"EMP001": {ID: "emp-1", CompanyID: "comp-other", Code: "EMP001"},
	}}
	svc := newTestService(newFakeTransactionRepo(), empRepo, &fakeLogRepo{})

	_, err := svc.Create(context.Background(), transaction.CreateTransactionRequest{
		CompanyID:       "comp-1",
		EmployeeCode:    "EMP001",
		TransactionDate: "2026-01-15",
		Type:            "EARNING",
		Code:            "OT",
		Amount:          decimal.NewFromInt(5000),
		Period:          "JAN-2026",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCreateRejectsUnparseablePeriod(t *testing.T) {
	svc := newTestService(newFakeTransactionRepo(), &fakeEmployeeRepo{}, &fakeLogRepo{})

	_, err := svc.Create(context.Background(), transaction.CreateTransactionRequest{
		CompanyID:       "comp-1",
		EmployeeCode:    "EMP001",
		TransactionDate: "2026-01-15",
		Type:            "EARNING",
		Code:            "OT",
		Amount:          decimal.NewFromInt(5000),
		Period:          "not a month",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "period", verrs[0].Field)
}

func TestBulkCreateReportsFailuresByIndex(t *testing.T) {
	txRepo := newFakeTransactionRepo()
	empRepo := &fakeEmployeeRepo{byCode: map[string]employee.Employee{
		"EMP001": {ID: "emp-1", CompanyID: "comp-1", Code: "EMP001"},
	}}
	svc := newTestService(txRepo, empRepo, &fakeLogRepo{})

	good := transaction.CreateTransactionRequest{
		CompanyID:       "comp-1",
		EmployeeCode:    "EMP001",
		TransactionDate: "2026-01-15",
		Type:            "EARNING",
		Code:            "OT",
		Amount:          decimal.NewFromInt(5000),
		Period:          "JAN-2026",
	}
	bad := good
	bad.EmployeeCode = "GHOST"

	result, err := svc.BulkCreate(context.Background(), transaction.BulkCreateRequest{
		Transactions: []transaction.CreateTransactionRequest{good, bad, good},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
}

func TestPostFlipsEnteredRowsAndLogsTheBatch(t *testing.T) {
	txRepo := newFakeTransactionRepo()
	txRepo.transactions["tx-1"] = transaction.Transaction{
		ID: "tx-1", CompanyID: "comp-1", Period: "JAN-2026", Status: transaction.StatusEntered,
	}
	txRepo.transactions["tx-2"] = transaction.Transaction{
		ID: "tx-2", CompanyID: "comp-1", Period: "JAN-2026", Status: transaction.StatusPosted,
	}
	logRepo := &fakeLogRepo{}
	svc := newTestService(txRepo, &fakeEmployeeRepo{}, logRepo)

	posted, err := svc.Post(context.Background(), transaction.PostTransactionsRequest{
		TransactionIDs: []string{"tx-1", "tx-2"},
		PostedBy:       "hr@islandhr.local",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), posted)
	require.Len(t, logRepo.logs, 1)
	assert.Equal(t, processing.ProcessTransactionPost, logRepo.logs[0].ProcessType)
	assert.Equal(t, "JAN-2026", logRepo.logs[0].Period)
	require.Len(t, logRepo.updates, 1)
	assert.Equal(t, string(processing.StatusCompleted), *logRepo.updates[0].Status)
}

func TestPostNothingEnteredIsAnError(t *testing.T) {
	txRepo := newFakeTransactionRepo()
	txRepo.transactions["tx-1"] = transaction.Transaction{
		ID: "tx-1", CompanyID: "comp-1", Period: "JAN-2026", Status: transaction.StatusProcessed,
	}
	svc := newTestService(txRepo, &fakeEmployeeRepo{}, &fakeLogRepo{})

	_, err := svc.Post(context.Background(), transaction.PostTransactionsRequest{
		TransactionIDs: []string{"tx-1"},
	})
	assert.ErrorIs(t, err, transaction.ErrNotEntered)
}

func TestRegisterGroupsByStatus(t *testing.T) {
	txRepo := newFakeTransactionRepo()
	txRepo.transactions["tx-1"] = transaction.Transaction{
		ID: "tx-1", CompanyID: "comp-1", Period: "JAN-2026", Status: transaction.StatusEntered,
	}
	txRepo.transactions["tx-2"] = transaction.Transaction{
		ID: "tx-2", CompanyID: "comp-1", Period: "JAN-2026", Status: transaction.StatusPosted,
	}
	txRepo.transactions["tx-3"] = transaction.Transaction{
		ID: "tx-3", CompanyID: "comp-1", Period: "JAN-2026", Status: transaction.StatusPosted,
	}
	txRepo.transactions["tx-4"] = transaction.Transaction{
		ID: "tx-4", CompanyID: "comp-2", Period: "JAN-2026", Status: transaction.StatusEntered,
	}
	svc := newTestService(txRepo, &fakeEmployeeRepo{}, &fakeLogRepo{})

	resp, err := svc.Register(context.Background(), "comp-1", "Jan 2026")
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Entered)
	assert.Equal(t, 2, resp.Summary.Posted)
	assert.Equal(t, 0, resp.Summary.Processed)
	assert.Len(t, resp.Grouped["POSTED"], 2)
	assert.Len(t, resp.Grouped["ENTERED"], 1)
}
