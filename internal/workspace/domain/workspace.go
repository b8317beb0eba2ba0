package domain

import (
	"errors"
	"time"
)

// Workspace represents a tenant whose ownership can be transferred.
type Workspace struct {
	ID        string
	Name      string
	Status    WorkspaceStatus
	CreatedAt time.Time
}

type WorkspaceStatus string

const (
	WorkspaceStatusActive   WorkspaceStatus = "active"
	WorkspaceStatusArchived WorkspaceStatus = "archived"
)

// Validate validates the workspace for persistence.
func (w *Workspace) Validate() error {
	if w.Name == "" {
		return errors.New("name is required")
	}
	if w.Status == "" {
		w.Status = WorkspaceStatusActive
	}
	return nil
}

// Role is a member's role within a workspace. Exactly one membership per
// workspace holds RoleOwner.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleNormal Role = "normal"
)

// Membership relates an account to a workspace with a role.
type Membership struct {
	ID          string
	WorkspaceID string
	AccountID   string
	Role        Role
	CreatedAt   time.Time
}

// Member is one roster entry: the membership joined with its account profile.
// Read-only to the transfer workflow.
type Member struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
	Role      Role
	Status    string
}
