package domain

import "time"

// Challenge represents a pending owner email verification (stored in owner_challenges table).
// It is deleted when the code is verified successfully or when it expires.
type Challenge struct {
	ID          string
	WorkspaceID string
	AccountID   string
	Email       string
	CodeHash    string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the challenge is past its expiry at the given instant.
func (c *Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
