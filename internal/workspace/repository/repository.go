package repository

import (
	"context"

	"workspace-console/internal/workspace/domain"
)

// Repository defines persistence for workspaces and their memberships.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	Create(ctx context.Context, w *domain.Workspace) error

	GetMembership(ctx context.Context, workspaceID, accountID string) (*domain.Membership, error)
	// WorkspaceForAccount returns the id of the workspace the account belongs
	// to, or "" when the account has no membership.
	WorkspaceForAccount(ctx context.Context, accountID string) (string, error)
	CreateMembership(ctx context.Context, m *domain.Membership) error
	ListMembers(ctx context.Context, workspaceID string) ([]*domain.Member, error)

	// SwapOwner atomically makes newOwnerID the owner and demotes oldOwnerID
	// to admin within one transaction. Both must already be members.
	SwapOwner(ctx context.Context, workspaceID, oldOwnerID, newOwnerID string) error
}
