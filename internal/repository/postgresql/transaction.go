package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type transactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) transaction.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `
	t.id, t.company_id, t.employee_id, t.transaction_date, t.type, t.code,
	t.description, t.amount, t.units, t.rate, t.status, t.period,
	t.entered_by, t.entered_at, t.posted_by, t.posted_at, t.processed_at,
	t.created_at, t.updated_at,
	e.code, e.first_name || ' ' || e.last_name
`

func scanTransaction(row pgx.Row) (transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.EmployeeID, &t.TransactionDate, &t.Type, &t.Code,
		&t.Description, &t.Amount, &t.Units, &t.Rate, &t.Status, &t.Period,
		&t.EnteredBy, &t.EnteredAt, &t.PostedBy, &t.PostedAt, &t.ProcessedAt,
		&t.CreatedAt, &t.UpdatedAt,
		&t.EmployeeCode, &t.EmployeeName,
	)
	return t, err
}

func (r *transactionRepository) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO transactions (
				company_id, employee_id, transaction_date, type, code, description,
				amount, units, rate, status, period, entered_by, entered_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
			RETURNING *
		)
		SELECT ` + transactionColumns + `
		FROM inserted t
		JOIN employees e ON e.id = t.employee_id
	`

	created, err := scanTransaction(q.QueryRow(ctx, query,
		t.CompanyID, t.EmployeeID, t.TransactionDate, t.Type, t.Code, t.Description,
		t.Amount, t.Units, t.Rate, t.Status, t.Period, t.EnteredBy,
	))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return created, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN employees e ON e.id = t.employee_id
		WHERE t.id = $1
	`

	found, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return transaction.Transaction{}, transaction.ErrTransactionNotFound
		}
		return transaction.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}

	return found, nil
}

func (r *transactionRepository) List(ctx context.Context, filter transaction.TransactionFilter) ([]transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN employees e ON e.id = t.employee_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(" AND t.company_id = $%d", len(args))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		query += fmt.Sprintf(" AND t.employee_id = $%d", len(args))
	}
	if filter.Period != nil {
		args = append(args, *filter.Period)
		query += fmt.Sprintf(" AND t.period = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND t.type = $%d", len(args))
	}
	query += " ORDER BY e.code, t.transaction_date"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func (r *transactionRepository) Update(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE transactions
			SET transaction_date = $2, type = $3, code = $4, description = $5,
				amount = $6, units = $7, rate = $8, period = $9, updated_at = NOW()
			WHERE id = $1 AND status = 'ENTERED'
			RETURNING *
		)
		SELECT ` + transactionColumns + `
		FROM updated t
		JOIN employees e ON e.id = t.employee_id
	`

	updated, err := scanTransaction(q.QueryRow(ctx, query,
		t.ID, t.TransactionDate, t.Type, t.Code, t.Description,
		t.Amount, t.Units, t.Rate, t.Period,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return transaction.Transaction{}, transaction.ErrTransactionNotEditable
		}
		return transaction.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}

	return updated, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND status = 'ENTERED'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return transaction.ErrTransactionNotEditable
	}

	return nil
}

func (r *transactionRepository) Post(ctx context.Context, ids []string, postedBy string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE transactions
		SET status = 'POSTED', posted_by = $2, posted_at = NOW(), updated_at = NOW()
		WHERE id = ANY($1) AND status = 'ENTERED'
	`

	tag, err := q.Exec(ctx, query, ids, postedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to post transactions: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *transactionRepository) ListPosted(ctx context.Context, companyID, period string) ([]transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN employees e ON e.id = t.employee_id
		WHERE t.company_id = $1 AND t.period = $2 AND t.status = 'POSTED'
		ORDER BY e.code, t.transaction_date
	`

	rows, err := q.Query(ctx, query, companyID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list posted transactions: %w", err)
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func (r *transactionRepository) MarkProcessed(ctx context.Context, employeeID, period string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE transactions
		SET status = 'PROCESSED', processed_at = NOW(), updated_at = NOW()
		WHERE employee_id = $1 AND period = $2 AND status = 'POSTED'
	`

	tag, err := q.Exec(ctx, query, employeeID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to mark transactions processed: %w", err)
	}

	return tag.RowsAffected(), nil
}
