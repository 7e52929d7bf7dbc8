package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/advance"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `
	a.id, a.company_id, a.employee_id, a.amount, a.reason, a.request_date,
	a.recovery_period, a.status, a.approved_by, a.approved_at, a.recovered_at,
	a.created_at, a.updated_at,
	e.code, e.first_name || ' ' || e.last_name
`

func scanAdvance(row pgx.Row) (advance.AdvancePayment, error) {
	var a advance.AdvancePayment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Amount, &a.Reason, &a.RequestDate,
		&a.RecoveryPeriod, &a.Status, &a.ApprovedBy, &a.ApprovedAt, &a.RecoveredAt,
		&a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeCode, &a.EmployeeName,
	)
	return a, err
}

func (r *advanceRepository) Create(ctx context.Context, adv advance.AdvancePayment) (advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO advance_payments (
				company_id, employee_id, amount, reason, request_date,
				recovery_period, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + advanceColumns + `
		FROM inserted a
		JOIN employees e ON e.id = a.employee_id
	`

	created, err := scanAdvance(q.QueryRow(ctx, query,
		adv.CompanyID, adv.EmployeeID, adv.Amount, adv.Reason, adv.RequestDate,
		adv.RecoveryPeriod, adv.Status,
	))
	if err != nil {
		return advance.AdvancePayment{}, fmt.Errorf("failed to create advance payment: %w", err)
	}

	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advance_payments a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	found, err := scanAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.AdvancePayment{}, advance.ErrAdvanceNotFound
		}
		return advance.AdvancePayment{}, fmt.Errorf("failed to get advance payment: %w", err)
	}

	return found, nil
}

func (r *advanceRepository) List(ctx context.Context, filter advance.AdvanceFilter) ([]advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advance_payments a
		JOIN employees e ON e.id = a.employee_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += fmt.Sprintf(" AND a.company_id = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if filter.RecoveryPeriod != "" {
		args = append(args, filter.RecoveryPeriod)
		query += fmt.Sprintf(" AND a.recovery_period = $%d", len(args))
	}
	query += " ORDER BY a.request_date DESC"

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
		return nil, fmt.Errorf("failed to list advance payments: %w", err)
	}
	defer rows.Close()

	var advances []advance.AdvancePayment
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance payment: %w", err)
		}
		advances = append(advances, a)
	}

	return advances, rows.Err()
}

func (r *advanceRepository) ListApprovedByPeriod(ctx context.Context, companyID, recoveryPeriod string) ([]advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advance_payments a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.company_id = $1 AND a.recovery_period = $2 AND a.status = 'APPROVED'
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, companyID, recoveryPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved advances: %w", err)
	}
	defer rows.Close()

	var advances []advance.AdvancePayment
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance payment: %w", err)
		}
		advances = append(advances, a)
	}

	return advances, rows.Err()
}

func (r *advanceRepository) Update(ctx context.Context, adv advance.AdvancePayment) (advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE advance_payments
			SET amount = $2, reason = $3, recovery_period = $4, status = $5,
				approved_by = $6, approved_at = $7, recovered_at = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + advanceColumns + `
		FROM updated a
		JOIN employees e ON e.id = a.employee_id
	`

	updated, err := scanAdvance(q.QueryRow(ctx, query,
		adv.ID, adv.Amount, adv.Reason, adv.RecoveryPeriod, adv.Status,
		adv.ApprovedBy, adv.ApprovedAt, adv.RecoveredAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.AdvancePayment{}, advance.ErrAdvanceNotFound
		}
		return advance.AdvancePayment{}, fmt.Errorf("failed to update advance payment: %w", err)
	}

	return updated, nil
}

func (r *advanceRepository) MarkRecovered(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advance_payments
		SET status = 'RECOVERED', recovered_at = NOW(), updated_at = NOW()
		WHERE id = ANY($1) AND status = 'APPROVED'
	`

	tag, err := q.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark advances recovered: %w", err)
	}

	return tag.RowsAffected(), nil
}
