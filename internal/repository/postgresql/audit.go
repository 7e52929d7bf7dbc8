package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/audit"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log audit.Log) error {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	detailJSON, err := json.Marshal(log.Detail)
	if err != nil {
		return fmt.Errorf("failed to marshal audit detail: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, user_id, user_email, action, entity, entity_id, detail, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := q.Exec(ctx, query,
		log.ID, log.UserID, log.UserEmail, log.Action, log.Entity, log.EntityID,
		detailJSON, log.IPAddress,
	); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, filter audit.LogFilter) ([]audit.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, user_email, action, entity, entity_id, detail, ip_address, occurred_at
		FROM audit_logs
		WHERE 1=1
	`
	var args []interface{}

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.Entity != "" {
		args = append(args, filter.Entity)
		query += fmt.Sprintf(" AND entity = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += " ORDER BY occurred_at DESC"

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
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []audit.Log
	for rows.Next() {
		l, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func scanAuditLog(row pgx.Row) (audit.Log, error) {
	var l audit.Log
	var detailJSON []byte
	if err := row.Scan(
		&l.ID, &l.UserID, &l.UserEmail, &l.Action, &l.Entity, &l.EntityID,
		&detailJSON, &l.IPAddress, &l.OccurredAt,
	); err != nil {
		return audit.Log{}, err
	}
	if len(detailJSON) > 0 {
		if err := json.Unmarshal(detailJSON, &l.Detail); err != nil {
			return audit.Log{}, fmt.Errorf("failed to unmarshal audit detail: %w", err)
		}
	}
	return l, nil
}
