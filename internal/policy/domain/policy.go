package domain

import "time"

// EligibilityPolicy is a per-workspace Rego override for the ownership
// transfer eligibility rules. At most one policy per workspace.
type EligibilityPolicy struct {
	ID          string
	WorkspaceID string
	Rego        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
