package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type processingLogRepository struct {
	db *database.DB
}

func NewProcessingLogRepository(db *database.DB) processing.LogRepository {
	return &processingLogRepository{db: db}
}

const logColumns = `
	l.id, l.company_id, l.process_type, l.period, l.status,
	l.records_total, l.records_processed, l.error_message, l.processed_by,
	l.started_at, l.completed_at,
	c.name, c.code
`

func scanLog(row pgx.Row) (processing.Log, error) {
	var l processing.Log
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.ProcessType, &l.Period, &l.Status,
		&l.RecordsTotal, &l.RecordsProcessed, &l.ErrorMessage, &l.ProcessedBy,
		&l.StartedAt, &l.CompletedAt,
		&l.CompanyName, &l.CompanyCode,
	)
	return l, err
}

func (r *processingLogRepository) Create(ctx context.Context, log processing.Log) (processing.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO processing_logs (
				company_id, process_type, period, status,
				records_total, records_processed, processed_by, started_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING *
		)
		SELECT ` + logColumns + `
		FROM inserted l
		JOIN companies c ON c.id = l.company_id
	`

	created, err := scanLog(q.QueryRow(ctx, query,
		log.CompanyID, log.ProcessType, log.Period, log.Status,
		log.RecordsTotal, log.RecordsProcessed, log.ProcessedBy,
	))
	if err != nil {
		return processing.Log{}, fmt.Errorf("failed to create processing log: %w", err)
	}

	return created, nil
}

func (r *processingLogRepository) GetByID(ctx context.Context, id string) (processing.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + logColumns + `
		FROM processing_logs l
		JOIN companies c ON c.id = l.company_id
		WHERE l.id = $1
	`

	found, err := scanLog(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return processing.Log{}, processing.ErrLogNotFound
		}
		return processing.Log{}, fmt.Errorf("failed to get processing log: %w", err)
	}

	return found, nil
}

func (r *processingLogRepository) Update(ctx context.Context, id string, req processing.UpdateProgressRequest) (processing.Log, error) {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.RecordsProcessed != nil {
		updates["records_processed"] = *req.RecordsProcessed
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if processing.Status(*req.Status).Terminal() {
			updates["completed_at"] = time.Now()
		}
	}
	if req.ErrorMessage != nil {
		updates["error_message"] = *req.ErrorMessage
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	args = append(args, id)

	// Guard in SQL so a terminal log can never be mutated, even by a
	// late-arriving progress update from a finished run.
	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE processing_logs
			SET %s
			WHERE id = $%d AND status IN ('STARTED', 'IN_PROGRESS')
			RETURNING *
		)
		SELECT `+logColumns+`
		FROM updated l
		JOIN companies c ON c.id = l.company_id
	`, strings.Join(setClauses, ", "), i)

	updated, err := scanLog(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish missing from terminal.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return processing.Log{}, getErr
			}
			return processing.Log{}, processing.ErrLogTerminal
		}
		return processing.Log{}, fmt.Errorf("failed to update processing log: %w", err)
	}

	return updated, nil
}

func (r *processingLogRepository) List(ctx context.Context, filter processing.LogFilter) ([]processing.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + logColumns + `
		FROM processing_logs l
		JOIN companies c ON c.id = l.company_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(" AND l.company_id = $%d", len(args))
	}
	if filter.ProcessType != nil {
		args = append(args, *filter.ProcessType)
		query += fmt.Sprintf(" AND l.process_type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND l.status = $%d", len(args))
	}
	if filter.Period != nil {
		args = append(args, *filter.Period)
		query += fmt.Sprintf(" AND l.period = $%d", len(args))
	}
	if filter.StartedFrom != nil {
		args = append(args, *filter.StartedFrom)
		query += fmt.Sprintf(" AND l.started_at >= $%d", len(args))
	}
	if filter.StartedTo != nil {
		args = append(args, *filter.StartedTo)
		query += fmt.Sprintf(" AND l.started_at <= $%d", len(args))
	}
	query += " ORDER BY l.started_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing logs: %w", err)
	}
	defer rows.Close()

	var logs []processing.Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan processing log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *processingLogRepository) ListActive(ctx context.Context, companyID *string, limit int) ([]processing.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + logColumns + `
		FROM processing_logs l
		JOIN companies c ON c.id = l.company_id
		WHERE l.status IN ('STARTED', 'IN_PROGRESS')
	`
	var args []interface{}

	if companyID != nil {
		args = append(args, *companyID)
		query += fmt.Sprintf(" AND l.company_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY l.started_at DESC LIMIT $%d", len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active processing logs: %w", err)
	}
	defer rows.Close()

	var logs []processing.Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan processing log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *processingLogRepository) ListCompletedSince(ctx context.Context, companyID *string, since time.Time, limit int) ([]processing.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + logColumns + `
		FROM processing_logs l
		JOIN companies c ON c.id = l.company_id
		WHERE l.status IN ('COMPLETED', 'FAILED') AND l.completed_at >= $1
	`
	args := []interface{}{since}

	if companyID != nil {
		args = append(args, *companyID)
		query += fmt.Sprintf(" AND l.company_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY l.completed_at DESC LIMIT $%d", len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed processing logs: %w", err)
	}
	defer rows.Close()

	var logs []processing.Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan processing log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *processingLogRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM processing_logs
		WHERE status IN ('COMPLETED', 'FAILED') AND completed_at < $1
	`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old processing logs: %w", err)
	}

	return tag.RowsAffected(), nil
}
