package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandhr/payroll-backend-go/internal/domain/advance"
	"github.com/islandhr/payroll-backend-go/internal/domain/company"
	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
)

// ---- in-memory fakes ----

type fakeCompanyRepo struct {
	companies map[string]company.Company
}

func (f *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	return c, nil
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanyRepo) List(ctx context.Context) ([]company.Company, error) { return nil, nil }
func (f *fakeCompanyRepo) Update(ctx context.Context, c company.Company) (company.Company, error) {
	return c, nil
}
func (f *fakeCompanyRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}
func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Code == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
func (f *fakeEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	return f.employees, nil
}
func (f *fakeEmployeeRepo) ListActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var active []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.Status == employee.StatusActive {
			active = append(active, e)
		}
	}
	return active, nil
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeTransactionRepo struct {
	mu        sync.Mutex
	posted    []transaction.Transaction
	processed map[string]string // employeeID -> period
	block       chan struct{}     // when set, the next ListPosted call for blockPeriod waits until closed
	blockPeriod string
}

func (f *fakeTransactionRepo) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	return t, nil
}
func (f *fakeTransactionRepo) GetByID(ctx context.Context, id string) (transaction.Transaction, error) {
	return transaction.Transaction{}, transaction.ErrTransactionNotFound
}
func (f *fakeTransactionRepo) List(ctx context.Context, filter transaction.TransactionFilter) ([]transaction.Transaction, error) {
	return nil, nil
}
func (f *fakeTransactionRepo) Update(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	return t, nil
}
func (f *fakeTransactionRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeTransactionRepo) Post(ctx context.Context, ids []string, postedBy string) (int64, error) {
	return int64(len(ids)), nil
}
func (f *fakeTransactionRepo) ListPosted(ctx context.Context, companyID, period string) ([]transaction.Transaction, error) {
	f.mu.Lock()
	var blocker chan struct{}
	if f.block != nil && period == f.blockPeriod {
		blocker = f.block
		f.block = nil
	}
	f.mu.Unlock()
	if blocker != nil {
		<-blocker
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []transaction.Transaction
	for _, t := range f.posted {
		if t.CompanyID == companyID && t.Period == period && t.Status == transaction.StatusPosted {
			out = append(out, t)
		}
	}
	return out, nil
}
func (f *fakeTransactionRepo) MarkProcessed(ctx context.Context, employeeID, period string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processed == nil {
		f.processed = make(map[string]string)
	}
	f.processed[employeeID] = period
	var n int64
	for i, t := range f.posted {
		if t.EmployeeID == employeeID && t.Period == period && t.Status == transaction.StatusPosted {
			f.posted[i].Status = transaction.StatusProcessed
			n++
		}
	}
	return n, nil
}

type fakeAdvanceRepo struct {
	approved  []advance.AdvancePayment
	recovered []string
}

func (f *fakeAdvanceRepo) Create(ctx context.Context, a advance.AdvancePayment) (advance.AdvancePayment, error) {
	return a, nil
}
func (f *fakeAdvanceRepo) GetByID(ctx context.Context, id string) (advance.AdvancePayment, error) {
	return advance.AdvancePayment{}, advance.ErrAdvanceNotFound
}
func (f *fakeAdvanceRepo) List(ctx context.Context, filter advance.AdvanceFilter) ([]advance.AdvancePayment, error) {
	return nil, nil
}
func (f *fakeAdvanceRepo) ListApprovedByPeriod(ctx context.Context, companyID, recoveryPeriod string) ([]advance.AdvancePayment, error) {
	var out []advance.AdvancePayment
	for _, a := range f.approved {
		if a.CompanyID == companyID && a.RecoveryPeriod == recoveryPeriod && a.Status == advance.StatusApproved {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAdvanceRepo) Update(ctx context.Context, a advance.AdvancePayment) (advance.AdvancePayment, error) {
	return a, nil
}
func (f *fakeAdvanceRepo) MarkRecovered(ctx context.Context, ids []string) (int64, error) {
	f.recovered = append(f.recovered, ids...)
	return int64(len(ids)), nil
}

type fakePayrollRepo struct {
	mu       sync.Mutex
	rows     map[string]payroll.Payroll // employeeID|period
	failFor  map[string]error           // employeeID -> error on Create
	onCreate func(p payroll.Payroll)
	nextID   int
}

func (f *fakePayrollRepo) key(employeeID, period string) string { return employeeID + "|" + period }

func (f *fakePayrollRepo) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[p.EmployeeID]; ok {
		return payroll.Payroll{}, err
	}
	if f.rows == nil {
		f.rows = make(map[string]payroll.Payroll)
	}
	k := f.key(p.EmployeeID, p.Period)
	if existing, ok := f.rows[k]; ok {
		p.ID = existing.ID
	} else {
		f.nextID++
		p.ID = fmt.Sprintf("pay-%d", f.nextID)
	}
	f.rows[k] = p
	if f.onCreate != nil {
		f.onCreate(p)
	}
	return p, nil
}

func (f *fakePayrollRepo) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (f *fakePayrollRepo) GetByEmployeePeriod(ctx context.Context, employeeID, period string) (payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[f.key(employeeID, period)]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	return nil, nil
}
func (f *fakePayrollRepo) Update(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	return p, nil
}
func (f *fakePayrollRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakePayrollRepo) FinalizeBatch(ctx context.Context, companyID, period string) (int64, error) {
	return 0, nil
}
func (f *fakePayrollRepo) MarkProcessedBatch(ctx context.Context, companyID, period string) (int64, error) {
	return 0, nil
}
func (f *fakePayrollRepo) MarkSent(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

type fakeLogRepo struct {
	mu     sync.Mutex
	logs   map[string]processing.Log
	nextID int
}

func (f *fakeLogRepo) Create(ctx context.Context, log processing.Log) (processing.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logs == nil {
		f.logs = make(map[string]processing.Log)
	}
	f.nextID++
	log.ID = fmt.Sprintf("log-%d", f.nextID)
	log.StartedAt = time.Now()
	f.logs[log.ID] = log
	return log, nil
}

func (f *fakeLogRepo) GetByID(ctx context.Context, id string) (processing.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return processing.Log{}, processing.ErrLogNotFound
	}
	return l, nil
}

func (f *fakeLogRepo) Update(ctx context.Context, id string, req processing.UpdateProgressRequest) (processing.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return processing.Log{}, processing.ErrLogNotFound
	}
	if l.Status.Terminal() {
		return processing.Log{}, processing.ErrLogTerminal
	}
	if req.RecordsProcessed != nil {
		l.RecordsProcessed = *req.RecordsProcessed
	}
	if req.Status != nil {
		l.Status = processing.Status(*req.Status)
		if l.Status.Terminal() {
			now := time.Now()
			l.CompletedAt = &now
		}
	}
	if req.ErrorMessage != nil {
		l.ErrorMessage = req.ErrorMessage
	}
	f.logs[id] = l
	return l, nil
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

// ---- test harness ----

type engineFixture struct {
	svc          *PayrollServiceImpl
	companies    *fakeCompanyRepo
	employees    *fakeEmployeeRepo
	transactions *fakeTransactionRepo
	advances     *fakeAdvanceRepo
	payrolls     *fakePayrollRepo
	logs         *fakeLogRepo
}

const testCompanyID = "comp-1"

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		companies: &fakeCompanyRepo{companies: map[string]company.Company{
			testCompanyID: {ID: testCompanyID, Name: "Island Traders Ltd", Code: "ITL"},
		}},
		employees:    &fakeEmployeeRepo{},
		transactions: &fakeTransactionRepo{},
		advances:     &fakeAdvanceRepo{},
		payrolls:     &fakePayrollRepo{},
		logs:         &fakeLogRepo{},
	}

	svc := &PayrollServiceImpl{
		payrollRepo:     f.payrolls,
		employeeRepo:    f.employees,
		companyRepo:     f.companies,
		transactionRepo: f.transactions,
		advanceRepo:     f.advances,
		logRepo:         f.logs,
		calc:            NewCalculator(DefaultRateTables()),
		guard:           newRunGuard(),
		logger:          slog.Default(),
	}
	svc.runInTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	f.svc = svc
	return f
}

func testEmployee(id, code string, baseSalary string, joinDate *time.Time) employee.Employee {
	return employee.Employee{
		ID:         id,
		CompanyID:  testCompanyID,
		Code:       code,
		FirstName:  "Test",
		LastName:   code,
		Email:      code + "@example.com",
		BaseSalary: d(baseSalary),
		Status:     employee.StatusActive,
		JoinDate:   joinDate,
	}
}

func postedLine(employeeID string, typ transaction.Type, amount string) transaction.Transaction {
	return transaction.Transaction{
		ID:         "txn-" + employeeID + "-" + string(typ) + amount,
		CompanyID:  testCompanyID,
		EmployeeID: employeeID,
		Type:       typ,
		Code:       "TEST",
		Amount:     d(amount),
		Status:     transaction.StatusPosted,
		Period:     "AUG-2025",
	}
}

func TestGenerateComputesStatutoryPayroll(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "150000", nil),
	}
	f.transactions.posted = []transaction.Transaction{
		postedLine("emp-1", transaction.TypeEarning, "5000"),
		postedLine("emp-1", transaction.TypeDeduction, "5000"),
	}

	result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID,
		Period:    "Aug-2025",
		RunBy:     "tester",
	})
	require.NoError(t, err)

	assert.Equal(t, "AUG-2025", result.Period)
	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, result.Failures)
	assert.Empty(t, result.Skipped)

	row, err := f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)

	assert.True(t, row.GrossSalary.Equal(d("155000")), "gross = %s", row.GrossSalary)
	assert.True(t, row.NIS.Equal(d("4650")), "nis = %s", row.NIS)
	assert.True(t, row.NHT.Equal(d("3100")), "nht = %s", row.NHT)
	assert.True(t, row.EdTax.Equal(d("3382.875")), "edtax = %s", row.EdTax)
	assert.True(t, row.PAYE.Equal(d("6337.5")), "paye = %s", row.PAYE)
	assert.True(t, row.Tax.Equal(d("17470.375")), "tax = %s", row.Tax)
	assert.True(t, row.NetSalary.Equal(d("132529.625")), "net = %s", row.NetSalary)
	assert.Equal(t, payroll.StatusCalculated, row.Status)

	// Source lines must be consumed so a re-run cannot double count.
	assert.Equal(t, "AUG-2025", f.transactions.processed["emp-1"])

	log := f.logs.logs[result.LogID]
	assert.Equal(t, processing.StatusCompleted, log.Status)
	assert.Equal(t, 1, log.RecordsTotal)
	assert.Equal(t, 1, log.RecordsProcessed)
	assert.NotNil(t, log.CompletedAt)
}

func TestGenerateIgnoresUnknownTransactionTypes(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
	}
	f.transactions.posted = []transaction.Transaction{
		postedLine("emp-1", transaction.Type("GARNISHMENT"), "99999"),
	}

	_, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	row, err := f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)
	assert.True(t, row.GrossSalary.Equal(d("100000")), "unknown type must not affect gross, got %s", row.GrossSalary)
	assert.True(t, row.Deductions.IsZero(), "unknown type must not affect deductions, got %s", row.Deductions)
}

func TestGenerateEligibility(t *testing.T) {
	f := newEngineFixture()
	midAugust := time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	endAugust := time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	september := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),        // no join date: eligible
		testEmployee("emp-2", "EMP-02", "100000", &midAugust), // joined mid-period: eligible
		testEmployee("emp-3", "EMP-03", "100000", &september), // joined after period: excluded
		testEmployee("emp-5", "EMP-05", "100000", &endAugust), // joined on the period's last day: eligible
	}
	terminated := testEmployee("emp-4", "EMP-04", "100000", nil)
	terminated.Status = employee.StatusTerminated
	f.employees.employees = append(f.employees.employees, terminated)

	result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	_, err = f.payrolls.GetByEmployeePeriod(context.Background(), "emp-5", "AUG-2025")
	assert.NoError(t, err)
	_, err = f.payrolls.GetByEmployeePeriod(context.Background(), "emp-3", "AUG-2025")
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
	_, err = f.payrolls.GetByEmployeePeriod(context.Background(), "emp-4", "AUG-2025")
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestGenerateSkipsFinalizedRows(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
		testEmployee("emp-2", "EMP-02", "100000", nil),
	}
	f.payrolls.rows = map[string]payroll.Payroll{
		"emp-1|AUG-2025": {
			ID: "pay-existing", EmployeeID: "emp-1", Period: "AUG-2025",
			GrossSalary: d("90000"), Status: payroll.StatusFinalized,
		},
	}

	result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "emp-1", result.Skipped[0].EmployeeID)
	assert.Equal(t, string(payroll.StatusFinalized), result.Skipped[0].Status)

	// The finalized row must be untouched.
	row, err := f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)
	assert.True(t, row.GrossSalary.Equal(d("90000")))
	assert.Equal(t, payroll.StatusFinalized, row.Status)
}

func TestGenerateOverwritesCalculatedRows(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "150000", nil),
	}
	f.payrolls.rows = map[string]payroll.Payroll{
		"emp-1|AUG-2025": {
			ID: "pay-existing", EmployeeID: "emp-1", Period: "AUG-2025",
			GrossSalary: d("90000"), Status: payroll.StatusCalculated,
		},
	}

	result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	row, err := f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)
	assert.True(t, row.GrossSalary.Equal(d("150000")), "regeneration must replace the stale row, got %s", row.GrossSalary)
}

func TestRegenerateRecomputesFromLinesStillPosted(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
	}
	f.transactions.posted = []transaction.Transaction{
		postedLine("emp-1", transaction.TypeEarning, "5000"),
	}

	_, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	row, err := f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)
	require.True(t, row.GrossSalary.Equal(d("105000")), "first run must include the posted earning, got %s", row.GrossSalary)

	// The first run consumed the earning line, so a re-run sees no POSTED
	// lines and recomputes from base salary alone. New lines must be posted
	// before regenerating to be picked up.
	_, err = f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	row, err = f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)
	assert.True(t, row.GrossSalary.Equal(d("100000")), "re-run must recompute from lines still posted, got %s", row.GrossSalary)
}

func TestGenerateToleratesPerEmployeeFailures(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
		testEmployee("emp-2", "EMP-02", "100000", nil),
		testEmployee("emp-3", "EMP-03", "100000", nil),
	}
	f.payrolls.failFor = map[string]error{"emp-2": errors.New("constraint violation")}

	result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "emp-2", result.Failures[0].EmployeeID)
	assert.Equal(t, "EMP-02", result.Failures[0].EmployeeCode)
	assert.Contains(t, result.Failures[0].Error, "constraint violation")

	log := f.logs.logs[result.LogID]
	assert.Equal(t, processing.StatusCompleted, log.Status)
	assert.Equal(t, 2, log.RecordsProcessed)
	require.NotNil(t, log.ErrorMessage)
	assert.Contains(t, *log.ErrorMessage, "1 of 3")
}

func TestGenerateRecoversApprovedAdvances(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
	}
	f.advances.approved = []advance.AdvancePayment{
		{ID: "adv-1", CompanyID: testCompanyID, EmployeeID: "emp-1",
			Amount: d("10000"), RecoveryPeriod: "AUG-2025", Status: advance.StatusApproved},
	}

	_, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	row, err := f.payrolls.GetByEmployeePeriod(context.Background(), "emp-1", "AUG-2025")
	require.NoError(t, err)
	assert.True(t, row.Deductions.Equal(d("10000")), "advance must be recovered as a deduction, got %s", row.Deductions)
	assert.Equal(t, []string{"adv-1"}, f.advances.recovered)
}

func TestGenerateRejectsConcurrentRunForSamePeriod(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
	}
	blocker := make(chan struct{})
	f.transactions.block = blocker
	f.transactions.blockPeriod = "AUG-2025"

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
			CompanyID: testCompanyID, Period: "AUG-2025",
		})
		firstDone <- err
	}()

	// Wait until the first run holds the guard.
	require.Eventually(t, func() bool {
		f.svc.guard.mu.Lock()
		defer f.svc.guard.mu.Unlock()
		_, held := f.svc.guard.active[testCompanyID+"|AUG-2025"]
		return held
	}, time.Second, 5*time.Millisecond)

	_, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	assert.ErrorIs(t, err, payroll.ErrGenerationInProgress)

	// A different period is not blocked.
	_, err = f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "SEP-2025",
	})
	assert.NoError(t, err)

	close(blocker)
	require.NoError(t, <-firstDone)
}

func TestGenerateCancellationFailsLogWithPartialCount(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
		testEmployee("emp-2", "EMP-02", "100000", nil),
		testEmployee("emp-3", "EMP-03", "100000", nil),
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.payrolls.onCreate = func(p payroll.Payroll) {
		if p.EmployeeID == "emp-1" {
			cancel()
		}
	}

	result, err := f.svc.Generate(ctx, payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Processed)

	log := f.logs.logs[result.LogID]
	assert.Equal(t, processing.StatusFailed, log.Status)
	assert.Equal(t, 1, log.RecordsProcessed)
	require.NotNil(t, log.ErrorMessage)
	assert.Contains(t, *log.ErrorMessage, "cancelled")
}

func TestGenerateNormalizesPeriodInput(t *testing.T) {
	f := newEngineFixture()
	f.employees.employees = []employee.Employee{
		testEmployee("emp-1", "EMP-01", "100000", nil),
	}

	for _, raw := range []string{"2025-08", "august 2025", "AUG-2025", "Aug 2025"} {
		result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
			CompanyID: testCompanyID, Period: raw,
		})
		require.NoError(t, err, "period %q", raw)
		assert.Equal(t, "AUG-2025", result.Period, "period %q", raw)
	}
}

func TestGenerateInputValidation(t *testing.T) {
	f := newEngineFixture()

	_, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "not a period 123",
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	_, err = f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: "missing-company", Period: "AUG-2025",
	})
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestGenerateEmptyCompanyCompletesWithZeroRecords(t *testing.T) {
	f := newEngineFixture()

	result, err := f.svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		CompanyID: testCompanyID, Period: "AUG-2025",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	log := f.logs.logs[result.LogID]
	assert.Equal(t, processing.StatusCompleted, log.Status)
	assert.Equal(t, 0, log.RecordsTotal)
}
