package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/redundancy"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type redundancyRepository struct {
	db *database.DB
}

func NewRedundancyRepository(db *database.DB) redundancy.RedundancyRepository {
	return &redundancyRepository{db: db}
}

const redundancyColumns = `
	r.id, r.company_id, r.employee_id, r.termination_date, r.years_of_service,
	r.weekly_pay, r.weeks_awarded, r.gross_amount, r.notice_pay, r.total_amount,
	r.status, r.approved_by, r.approved_at, r.paid_at, r.created_at, r.updated_at,
	e.code, e.first_name || ' ' || e.last_name, e.join_date
`

func scanRedundancy(row pgx.Row) (redundancy.Redundancy, error) {
	var red redundancy.Redundancy
	err := row.Scan(
		&red.ID, &red.CompanyID, &red.EmployeeID, &red.TerminationDate, &red.YearsOfService,
		&red.WeeklyPay, &red.WeeksAwarded, &red.GrossAmount, &red.NoticePay, &red.TotalAmount,
		&red.Status, &red.ApprovedBy, &red.ApprovedAt, &red.PaidAt, &red.CreatedAt, &red.UpdatedAt,
		&red.EmployeeCode, &red.EmployeeName, &red.JoinDate,
	)
	return red, err
}

func (r *redundancyRepository) Create(ctx context.Context, red redundancy.Redundancy) (redundancy.Redundancy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO redundancies (
				company_id, employee_id, termination_date, years_of_service,
				weekly_pay, weeks_awarded, gross_amount, notice_pay, total_amount, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT ` + redundancyColumns + `
		FROM inserted r
		JOIN employees e ON e.id = r.employee_id
	`

	created, err := scanRedundancy(q.QueryRow(ctx, query,
		red.CompanyID, red.EmployeeID, red.TerminationDate, red.YearsOfService,
		red.WeeklyPay, red.WeeksAwarded, red.GrossAmount, red.NoticePay, red.TotalAmount, red.Status,
	))
	if err != nil {
		return redundancy.Redundancy{}, fmt.Errorf("failed to create redundancy: %w", err)
	}

	return created, nil
}

func (r *redundancyRepository) GetByID(ctx context.Context, id string) (redundancy.Redundancy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + redundancyColumns + `
		FROM redundancies r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1
	`

	found, err := scanRedundancy(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return redundancy.Redundancy{}, redundancy.ErrRedundancyNotFound
		}
		return redundancy.Redundancy{}, fmt.Errorf("failed to get redundancy: %w", err)
	}

	return found, nil
}

func (r *redundancyRepository) List(ctx context.Context, filter redundancy.RedundancyFilter) ([]redundancy.Redundancy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + redundancyColumns + `
		FROM redundancies r
		JOIN employees e ON e.id = r.employee_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += fmt.Sprintf(" AND r.company_id = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND r.employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	query += " ORDER BY r.termination_date DESC"

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
		return nil, fmt.Errorf("failed to list redundancies: %w", err)
	}
	defer rows.Close()

	var redundancies []redundancy.Redundancy
	for rows.Next() {
		red, err := scanRedundancy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redundancy: %w", err)
		}
		redundancies = append(redundancies, red)
	}

	return redundancies, rows.Err()
}

func (r *redundancyRepository) Update(ctx context.Context, red redundancy.Redundancy) (redundancy.Redundancy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE redundancies
			SET status = $2, approved_by = $3, approved_at = $4, paid_at = $5,
				updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + redundancyColumns + `
		FROM updated r
		JOIN employees e ON e.id = r.employee_id
	`

	updated, err := scanRedundancy(q.QueryRow(ctx, query,
		red.ID, red.Status, red.ApprovedBy, red.ApprovedAt, red.PaidAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return redundancy.Redundancy{}, redundancy.ErrRedundancyNotFound
		}
		return redundancy.Redundancy{}, fmt.Errorf("failed to update redundancy: %w", err)
	}

	return updated, nil
}
