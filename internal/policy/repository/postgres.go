package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-console/internal/policy/domain"
)

const (
	selectPolicyByWorkspace = `
SELECT id, workspace_id, rego, created_at, updated_at
FROM eligibility_policies WHERE workspace_id = $1`

	upsertPolicy = `
INSERT INTO eligibility_policies (id, workspace_id, rego, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (workspace_id) DO UPDATE SET rego = EXCLUDED.rego, updated_at = EXCLUDED.updated_at`
)

// PostgresRepository is an eligibility policy repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a policy repository that uses the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByWorkspace returns the policy override for workspaceID, or nil if the
// workspace uses the default rules.
func (r *PostgresRepository) GetByWorkspace(ctx context.Context, workspaceID string) (*domain.EligibilityPolicy, error) {
	var p domain.EligibilityPolicy
	err := r.db.QueryRow(ctx, selectPolicyByWorkspace, workspaceID).
		Scan(&p.ID, &p.WorkspaceID, &p.Rego, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the policy override for the policy's workspace.
func (r *PostgresRepository) Upsert(ctx context.Context, p *domain.EligibilityPolicy) error {
	_, err := r.db.Exec(ctx, upsertPolicy, p.ID, p.WorkspaceID, p.Rego, p.CreatedAt, p.UpdatedAt)
	return err
}
