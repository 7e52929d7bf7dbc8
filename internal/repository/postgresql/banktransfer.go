package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/banktransfer"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type bankTransferRepository struct {
	db *database.DB
}

func NewBankTransferRepository(db *database.DB) banktransfer.BankTransferRepository {
	return &bankTransferRepository{db: db}
}

const transferColumns = `
	bt.id, bt.company_id, bt.employee_id, bt.bank_name, bt.account_number,
	bt.account_name, bt.amount, bt.reference, bt.period, bt.transfer_date, bt.status,
	bt.batch_id, bt.processed_at, bt.created_at, bt.updated_at,
	e.code, e.first_name || ' ' || e.last_name, e.trn
`

func scanTransfer(row pgx.Row) (banktransfer.BankTransfer, error) {
	var t banktransfer.BankTransfer
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.EmployeeID, &t.BankName, &t.AccountNumber,
		&t.AccountName, &t.Amount, &t.Reference, &t.Period, &t.TransferDate, &t.Status,
		&t.BatchID, &t.ProcessedAt, &t.CreatedAt, &t.UpdatedAt,
		&t.EmployeeCode, &t.EmployeeName, &t.EmployeeTRN,
	)
	return t, err
}

func (r *bankTransferRepository) CreateBatch(ctx context.Context, transfers []banktransfer.BankTransfer) error {
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	query := `
		INSERT INTO bank_transfers (
			id, company_id, employee_id, bank_name, account_number, account_name,
			amount, reference, period, transfer_date, status, batch_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for i := range transfers {
		t := &transfers[i]
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		batch.Queue(query,
			t.ID, t.CompanyID, t.EmployeeID, t.BankName, t.AccountNumber, t.AccountName,
			t.Amount, t.Reference, t.Period, t.TransferDate, t.Status, t.BatchID,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range transfers {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert bank transfer batch: %w", err)
		}
	}

	return nil
}

func (r *bankTransferRepository) GetByID(ctx context.Context, id string) (banktransfer.BankTransfer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transferColumns + `
		FROM bank_transfers bt
		JOIN employees e ON e.id = bt.employee_id
		WHERE bt.id = $1
	`

	found, err := scanTransfer(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return banktransfer.BankTransfer{}, banktransfer.ErrTransferNotFound
		}
		return banktransfer.BankTransfer{}, fmt.Errorf("failed to get bank transfer: %w", err)
	}

	return found, nil
}

func (r *bankTransferRepository) List(ctx context.Context, filter banktransfer.TransferFilter) ([]banktransfer.BankTransfer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transferColumns + `
		FROM bank_transfers bt
		JOIN employees e ON e.id = bt.employee_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += fmt.Sprintf(" AND bt.company_id = $%d", len(args))
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		query += fmt.Sprintf(" AND bt.period = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND bt.status = $%d", len(args))
	}
	if filter.BatchID != "" {
		args = append(args, filter.BatchID)
		query += fmt.Sprintf(" AND bt.batch_id = $%d", len(args))
	}
	query += " ORDER BY bt.created_at DESC, e.code"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transfers: %w", err)
	}
	defer rows.Close()

	var transfers []banktransfer.BankTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

func (r *bankTransferRepository) ListPendingByIDs(ctx context.Context, ids []string) ([]banktransfer.BankTransfer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transferColumns + `
		FROM bank_transfers bt
		JOIN employees e ON e.id = bt.employee_id
		WHERE bt.id = ANY($1) AND bt.status = 'PENDING'
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}
	defer rows.Close()

	var transfers []banktransfer.BankTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

func (r *bankTransferRepository) ListPendingByPeriod(ctx context.Context, companyID, period string) ([]banktransfer.BankTransfer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transferColumns + `
		FROM bank_transfers bt
		JOIN employees e ON e.id = bt.employee_id
		WHERE bt.company_id = $1 AND bt.period = $2 AND bt.status = 'PENDING'
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, companyID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transfers by period: %w", err)
	}
	defer rows.Close()

	var transfers []banktransfer.BankTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

func (r *bankTransferRepository) MarkProcessed(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bank_transfers
		SET status = 'PROCESSED', processed_at = NOW(), updated_at = NOW()
		WHERE id = ANY($1) AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark transfers processed: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *bankTransferRepository) MarkFailed(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bank_transfers
		SET status = 'FAILED', updated_at = NOW()
		WHERE id = ANY($1) AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark transfers failed: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *bankTransferRepository) ExistsForPayroll(ctx context.Context, employeeID, period string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM bank_transfers
			WHERE employee_id = $1 AND period = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, period).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transfer existence: %w", err)
	}

	return exists, nil
}
