package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-console/internal/session/domain"
)

const (
	selectSession = `
SELECT id, account_id, workspace_id, expires_at, revoked_at, created_at, last_seen_at
FROM sessions WHERE id = $1`
	insertSession = `
INSERT INTO sessions (id, account_id, workspace_id, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)`
	revokeSession      = `UPDATE sessions SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`
	revokeByAccount    = `UPDATE sessions SET revoked_at = $1 WHERE account_id = $2 AND revoked_at IS NULL`
	updateLastSeenStmt = `UPDATE sessions SET last_seen_at = $1 WHERE id = $2`
)

// PostgresRepository is a session repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a session repository that uses the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRow(ctx, selectSession, id).Scan(
		&s.ID, &s.AccountID, &s.WorkspaceID, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt, &s.LastSeenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create persists the session. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.Exec(ctx, insertSession, s.ID, s.AccountID, s.WorkspaceID, s.ExpiresAt, s.CreatedAt)
	return err
}

// Revoke marks the session revoked. Already-revoked sessions are left unchanged.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, revokeSession, time.Now().UTC(), id)
	return err
}

// RevokeAllByAccount revokes every live session of the given account.
func (r *PostgresRepository) RevokeAllByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.Exec(ctx, revokeByAccount, time.Now().UTC(), accountID)
	return err
}

// UpdateLastSeen records session activity.
func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx, updateLastSeenStmt, at, id)
	return err
}
