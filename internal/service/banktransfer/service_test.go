package banktransfer

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandhr/payroll-backend-go/internal/domain/banktransfer"
	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
)

type fakeTransferRepo struct {
	created  []banktransfer.BankTransfer
	existing map[string]bool // employeeID|period
}

func (f *fakeTransferRepo) CreateBatch(ctx context.Context, transfers []banktransfer.BankTransfer) error {
	f.created = append(f.created, transfers...)
	return nil
}

func (f *fakeTransferRepo) GetByID(ctx context.Context, id string) (banktransfer.BankTransfer, error) {
	return banktransfer.BankTransfer{}, banktransfer.ErrTransferNotFound
}

func (f *fakeTransferRepo) List(ctx context.Context, filter banktransfer.TransferFilter) ([]banktransfer.BankTransfer, error) {
	return nil, nil
}

func (f *fakeTransferRepo) ListPendingByIDs(ctx context.Context, ids []string) ([]banktransfer.BankTransfer, error) {
	return nil, nil
}

func (f *fakeTransferRepo) ListPendingByPeriod(ctx context.Context, companyID, period string) ([]banktransfer.BankTransfer, error) {
	return nil, nil
}

func (f *fakeTransferRepo) MarkProcessed(ctx context.Context, ids []string) (int64, error) {
	return 0, nil
}

func (f *fakeTransferRepo) MarkFailed(ctx context.Context, ids []string) (int64, error) {
	return 0, nil
}

func (f *fakeTransferRepo) ExistsForPayroll(ctx context.Context, employeeID, period string) (bool, error) {
	return f.existing[employeeID+"|"+period], nil
}

type fakePayrollRepo struct {
	payrolls []payroll.Payroll
}

func (f *fakePayrollRepo) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	return p, nil
}

func (f *fakePayrollRepo) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (f *fakePayrollRepo) GetByEmployeePeriod(ctx context.Context, employeeID, period string) (payroll.Payroll, error) {
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	var out []payroll.Payroll
	for _, p := range f.payrolls {
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
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
	return 0, nil
}

func strPtr(s string) *string { return &s }

func finalizedPayroll(employeeID, code string, net int64) payroll.Payroll {
	return payroll.Payroll{
		ID:           "pay-" + employeeID,
		EmployeeID:   employeeID,
		Period:       "JAN-2026",
		NetSalary:    decimal.NewFromInt(net),
		Status:       payroll.StatusFinalized,
		EmployeeCode: strPtr(code),
		EmployeeName: strPtr("Test Employee"),
		BankName:     strPtr("NCB"),
		BankAccount:  strPtr("123456789"),
	}
}

func TestCreateBatchBuildsTransfersForFinalizedPayrolls(t *testing.T) {
	transferRepo := &fakeTransferRepo{existing: map[string]bool{}}
	payrollRepo := &fakePayrollRepo{payrolls: []payroll.Payroll{
		finalizedPayroll("emp-1", "EMP001", 150000),
		finalizedPayroll("emp-2", "EMP002", 200000),
	}}

	svc := &BankTransferServiceImpl{
		repo:        transferRepo,
		payrollRepo: payrollRepo,
		logger:      slog.Default(),
	}

	result, err := svc.CreateBatch(context.Background(), banktransfer.CreateBatchRequest{
		CompanyID: "comp-1",
		Period:    "JAN-2026",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "350000", result.TotalAmt.String())
	require.Len(t, transferRepo.created, 2)
	assert.Equal(t, "SAL-JAN-2026-EMP001", transferRepo.created[0].Reference)
	assert.Equal(t, banktransfer.StatusPending, transferRepo.created[0].Status)
	require.NotNil(t, transferRepo.created[0].BatchID)
	assert.Equal(t, result.BatchID, *transferRepo.created[0].BatchID)
}

func TestCreateBatchSkipsMissingBankDetailsAndDuplicates(t *testing.T) {
	noBank := finalizedPayroll("emp-2", "EMP002", 100000)
	noBank.BankAccount = nil

	zeroNet := finalizedPayroll("emp-3", "EMP003", 0)

	transferRepo := &fakeTransferRepo{existing: map[string]bool{
		"emp-4|JAN-2026": true,
	}}
	payrollRepo := &fakePayrollRepo{payrolls: []payroll.Payroll{
		finalizedPayroll("emp-1", "EMP001", 150000),
		noBank,
		zeroNet,
		finalizedPayroll("emp-4", "EMP004", 90000),
	}}

	svc := &BankTransferServiceImpl{
		repo:        transferRepo,
		payrollRepo: payrollRepo,
		logger:      slog.Default(),
	}

	result, err := svc.CreateBatch(context.Background(), banktransfer.CreateBatchRequest{
		CompanyID: "comp-1",
		Period:    "JAN-2026",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Skipped, 3)

	reasons := make(map[string]string)
	for _, s := range result.Skipped {
		reasons[s.EmployeeCode] = s.Reason
	}
	assert.Equal(t, banktransfer.ErrMissingBankDetails.Error(), reasons["EMP002"])
	assert.Equal(t, "net pay is not positive", reasons["EMP003"])
	assert.Equal(t, "transfer already exists for this period", reasons["EMP004"])
}

func TestCreateBatchNoFinalizedPayrolls(t *testing.T) {
	svc := &BankTransferServiceImpl{
		repo:        &fakeTransferRepo{existing: map[string]bool{}},
		payrollRepo: &fakePayrollRepo{},
		logger:      slog.Default(),
	}

	_, err := svc.CreateBatch(context.Background(), banktransfer.CreateBatchRequest{
		CompanyID: "comp-1",
		Period:    "JAN-2026",
	})
	assert.ErrorIs(t, err, banktransfer.ErrNoTransfersToProcess)
}
