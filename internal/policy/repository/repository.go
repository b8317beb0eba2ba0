package repository

import (
	"context"

	"workspace-console/internal/policy/domain"
)

// Repository defines persistence for eligibility policies.
type Repository interface {
	GetByWorkspace(ctx context.Context, workspaceID string) (*domain.EligibilityPolicy, error)
	Upsert(ctx context.Context, p *domain.EligibilityPolicy) error
}
