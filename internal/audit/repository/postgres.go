package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-console/internal/audit/domain"
)

const (
	insertAuditLog = `
INSERT INTO audit_logs (id, workspace_id, account_id, action, resource, ip, metadata, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8)`

	selectAuditLogs = `
SELECT id, workspace_id, COALESCE(account_id, ''), action, resource, ip, COALESCE(metadata, ''), created_at
FROM audit_logs WHERE workspace_id = $1
ORDER BY created_at DESC LIMIT $2 OFFSET $3`
)

// PostgresRepository is an audit log repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns an audit log repository that uses the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.db.Exec(ctx, insertAuditLog,
		a.ID, a.WorkspaceID, a.AccountID, a.Action, a.Resource, a.IP, a.Metadata, a.CreatedAt)
	return err
}

// ListByWorkspace returns audit logs for the given workspace, newest first,
// paginated by limit and offset.
func (r *PostgresRepository) ListByWorkspace(ctx context.Context, workspaceID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, selectAuditLogs, workspaceID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		if err := rows.Scan(&a.ID, &a.WorkspaceID, &a.AccountID, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
