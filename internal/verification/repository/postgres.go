package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-console/internal/verification/domain"
)

const (
	insertChallenge = `
INSERT INTO owner_challenges (id, workspace_id, account_id, email, code_hash, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectChallenge = `
SELECT id, workspace_id, account_id, email, code_hash, expires_at, created_at
FROM owner_challenges WHERE id = $1`
	deleteChallenge = `DELETE FROM owner_challenges WHERE id = $1`
)

// PostgresRepository is a challenge repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a challenge repository that uses the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the challenge. The challenge must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Challenge) error {
	_, err := r.db.Exec(ctx, insertChallenge,
		c.ID, c.WorkspaceID, c.AccountID, c.Email, c.CodeHash, c.ExpiresAt, c.CreatedAt)
	return err
}

// GetByID returns the challenge for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	var c domain.Challenge
	err := r.db.QueryRow(ctx, selectChallenge, id).Scan(
		&c.ID, &c.WorkspaceID, &c.AccountID, &c.Email, &c.CodeHash, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes the challenge by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, deleteChallenge, id)
	return err
}
