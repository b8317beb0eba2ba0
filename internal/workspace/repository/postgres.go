package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-console/internal/workspace/domain"
)

const (
	selectWorkspace = `SELECT id, name, status, created_at FROM workspaces WHERE id = $1`
	insertWorkspace = `INSERT INTO workspaces (id, name, status, created_at) VALUES ($1, $2, $3, $4)`

	selectMembership = `
SELECT id, workspace_id, account_id, role, created_at
FROM memberships WHERE workspace_id = $1 AND account_id = $2`
	insertMembership = `
INSERT INTO memberships (id, workspace_id, account_id, role, created_at)
VALUES ($1, $2, $3, $4, $5)`
	selectMembers = `
SELECT a.id, a.name, a.email, a.avatar_url, m.role, a.status
FROM memberships m JOIN accounts a ON a.id = m.account_id
WHERE m.workspace_id = $1
ORDER BY m.created_at, a.id`

	selectWorkspaceForAccount = `
SELECT workspace_id FROM memberships WHERE account_id = $1 ORDER BY created_at LIMIT 1`

	updateRole = `UPDATE memberships SET role = $1 WHERE workspace_id = $2 AND account_id = $3`
)

// PostgresRepository is a workspace/membership repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a workspace repository that uses the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the workspace for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.db.QueryRow(ctx, selectWorkspace, id).Scan(&w.ID, &w.Name, &w.Status, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Create persists the workspace. The workspace must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, w *domain.Workspace) error {
	_, err := r.db.Exec(ctx, insertWorkspace, w.ID, w.Name, w.Status, w.CreatedAt)
	return err
}

// GetMembership returns the membership for the given workspace and account, or nil if not found.
func (r *PostgresRepository) GetMembership(ctx context.Context, workspaceID, accountID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRow(ctx, selectMembership, workspaceID, accountID).Scan(
		&m.ID, &m.WorkspaceID, &m.AccountID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// WorkspaceForAccount returns the id of the workspace the account belongs to,
// or "" when the account has no membership.
func (r *PostgresRepository) WorkspaceForAccount(ctx context.Context, accountID string) (string, error) {
	var workspaceID string
	err := r.db.QueryRow(ctx, selectWorkspaceForAccount, accountID).Scan(&workspaceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return workspaceID, nil
}

// CreateMembership persists the membership. The membership must have ID set.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	_, err := r.db.Exec(ctx, insertMembership, m.ID, m.WorkspaceID, m.AccountID, m.Role, m.CreatedAt)
	return err
}

// ListMembers returns the workspace roster in membership order.
func (r *PostgresRepository) ListMembers(ctx context.Context, workspaceID string) ([]*domain.Member, error) {
	rows, err := r.db.Query(ctx, selectMembers, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.AvatarURL, &m.Role, &m.Status); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// SwapOwner promotes newOwnerID to owner and demotes oldOwnerID to admin in one transaction.
// Fails without partial effect if either account is not a member.
func (r *PostgresRepository) SwapOwner(ctx context.Context, workspaceID, oldOwnerID, newOwnerID string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, updateRole, domain.RoleOwner, workspaceID, newOwnerID)
	if err != nil {
		return fmt.Errorf("promote new owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("promote new owner: account %s is not a member", newOwnerID)
	}

	tag, err = tx.Exec(ctx, updateRole, domain.RoleAdmin, workspaceID, oldOwnerID)
	if err != nil {
		return fmt.Errorf("demote old owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("demote old owner: account %s is not a member", oldOwnerID)
	}

	return tx.Commit(ctx)
}
