package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-console/internal/account/domain"
)

const (
	selectAccountByID = `
SELECT id, email, name, avatar_url, password_hash, status, created_at, updated_at
FROM accounts WHERE id = $1`
	selectAccountByEmail = `
SELECT id, email, name, avatar_url, password_hash, status, created_at, updated_at
FROM accounts WHERE email = $1`
	insertAccount = `
INSERT INTO accounts (id, email, name, avatar_url, password_hash, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// PostgresRepository is an account repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns an account repository that uses the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.get(ctx, selectAccountByID, id)
}

// GetByEmail returns the account for email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.get(ctx, selectAccountByEmail, email)
}

// Create persists the account. The account must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.db.Exec(ctx, insertAccount,
		a.ID, a.Email, a.Name, a.AvatarURL, a.PasswordHash, a.Status, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *PostgresRepository) get(ctx context.Context, query, arg string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.Name, &a.AvatarURL, &a.PasswordHash, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
