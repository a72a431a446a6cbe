package database

import (
	"context"
	"fmt"
	"time"

	"github.com/staffhousing/backoffice-api/internal/models"
)

// AuditLogRepository reads and writes the audit_logs table
type AuditLogRepository struct {
	db DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Insert appends one event. Details must already be JSON encoded.
func (r *AuditLogRepository) Insert(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		entry.IPAddress, entry.UserAgent, entry.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first
func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, user_id, action, entity_type, entity_id,
		       COALESCE(ip_address, '') AS ip_address, COALESCE(user_agent, '') AS user_agent,
		       COALESCE(details, '{}') AS details, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	entries := []models.AuditLogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes events older than the given age
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
