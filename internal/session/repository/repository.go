package repository

import (
	"context"
	"time"

	"workspace-console/internal/session/domain"
)

// Repository defines persistence for console sessions.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByAccount(ctx context.Context, accountID string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}
