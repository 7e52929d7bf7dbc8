package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.period, p.gross_salary, p.net_salary, p.deductions,
	p.tax, p.nis, p.nht, p.ed_tax, p.paye, p.payment_date, p.status,
	p.created_at, p.updated_at,
	e.code, e.first_name || ' ' || e.last_name, e.trn, e.bank_name, e.bank_account
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Period, &p.GrossSalary, &p.NetSalary, &p.Deductions,
		&p.Tax, &p.NIS, &p.NHT, &p.EdTax, &p.PAYE, &p.PaymentDate, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeCode, &p.EmployeeName, &p.EmployeeTRN, &p.BankName, &p.BankAccount,
	)
	return p, err
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	// Upsert keyed on (employee_id, period): the generation engine replaces a
	// regenerable row in place rather than stacking duplicates.
	query := `
		WITH upserted AS (
			INSERT INTO payrolls (
				employee_id, period, gross_salary, net_salary, deductions,
				tax, nis, nht, ed_tax, paye, payment_date, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (employee_id, period) DO UPDATE SET
				gross_salary = EXCLUDED.gross_salary,
				net_salary = EXCLUDED.net_salary,
				deductions = EXCLUDED.deductions,
				tax = EXCLUDED.tax,
				nis = EXCLUDED.nis,
				nht = EXCLUDED.nht,
				ed_tax = EXCLUDED.ed_tax,
				paye = EXCLUDED.paye,
				payment_date = EXCLUDED.payment_date,
				status = EXCLUDED.status,
				updated_at = NOW()
			RETURNING *
		)
		SELECT ` + payrollColumns + `
		FROM upserted p
		JOIN employees e ON e.id = p.employee_id
	`

	created, err := scanPayroll(q.QueryRow(ctx, query,
		p.EmployeeID, p.Period, p.GrossSalary, p.NetSalary, p.Deductions,
		p.Tax, p.NIS, p.NHT, p.EdTax, p.PAYE, p.PaymentDate, p.Status,
	))
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	found, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return found, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID, period string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.period = $2
	`

	found, err := scanPayroll(q.QueryRow(ctx, query, employeeID, period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll for employee period: %w", err)
	}

	return found, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(" AND e.company_id = $%d", len(args))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		query += fmt.Sprintf(" AND p.employee_id = $%d", len(args))
	}
	if filter.Period != nil {
		args = append(args, *filter.Period)
		query += fmt.Sprintf(" AND p.period = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if filter.Email != nil {
		args = append(args, *filter.Email)
		query += fmt.Sprintf(" AND LOWER(e.email) = LOWER($%d)", len(args))
	}
	query += " ORDER BY p.period DESC, e.code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	return payrolls, rows.Err()
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE payrolls
			SET gross_salary = $2, net_salary = $3, deductions = $4, tax = $5,
				nis = $6, nht = $7, ed_tax = $8, paye = $9, payment_date = $10,
				status = $11, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + payrollColumns + `
		FROM updated p
		JOIN employees e ON e.id = p.employee_id
	`

	updated, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID, p.GrossSalary, p.NetSalary, p.Deductions, p.Tax,
		p.NIS, p.NHT, p.EdTax, p.PAYE, p.PaymentDate, p.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}

	return updated, nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

func (r *payrollRepository) FinalizeBatch(ctx context.Context, companyID, period string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls p
		SET status = 'Finalized', updated_at = NOW()
		FROM employees e
		WHERE e.id = p.employee_id
		  AND e.company_id = $1 AND p.period = $2 AND p.status = 'Calculated'
	`

	tag, err := q.Exec(ctx, query, companyID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to finalize payrolls: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *payrollRepository) MarkProcessedBatch(ctx context.Context, companyID, period string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls p
		SET status = 'Processed', payment_date = NOW(), updated_at = NOW()
		FROM employees e
		WHERE e.id = p.employee_id
		  AND e.company_id = $1 AND p.period = $2 AND p.status = 'Finalized'
	`

	tag, err := q.Exec(ctx, query, companyID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payrolls processed: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *payrollRepository) MarkSent(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = 'Sent', updated_at = NOW()
		WHERE id = ANY($1) AND status IN ('Finalized', 'Processed')
	`

	tag, err := q.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payrolls sent: %w", err)
	}

	return tag.RowsAffected(), nil
}
