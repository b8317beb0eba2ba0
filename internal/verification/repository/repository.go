package repository

import (
	"context"
	"time"

	"workspace-console/internal/verification/domain"
)

// Repository defines persistence for owner verification challenges.
type Repository interface {
	Create(ctx context.Context, c *domain.Challenge) error
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	Delete(ctx context.Context, id string) error
}

// DefaultChallengeTTL is the default verification code expiry.
const DefaultChallengeTTL = 10 * time.Minute
