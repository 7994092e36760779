package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, organization_id, action, entity_type, entity_id,
			changes, metadata, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.OrganizationID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.Changes,
		log.Metadata,
		log.IPAddress,
		log.UserAgent,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	query := `
		SELECT id, user_id, organization_id, action, entity_type, entity_id,
			changes, metadata, ip_address, user_agent, created_at
		FROM audit_logs WHERE 1=1
	`
	var args []interface{}

	if v, ok := filters["user_id"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if v, ok := filters["organization_id"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND organization_id = $%d", len(args))
	}
	if v, ok := filters["entity_type"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if v, ok := filters["action"]; ok {
		args = append(args, v)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func (r *auditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) error {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	_, err := r.db.ExecContext(ctx, query, cutoff)
	return err
}
