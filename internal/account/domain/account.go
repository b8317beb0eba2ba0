package domain

import (
	"errors"
	"time"
)

// Account represents a console user.
type Account struct {
	ID           string
	Email        string
	Name         string
	AvatarURL    string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusBanned AccountStatus = "banned"
)

// Validate validates the account for persistence. Returns an error describing the first validation failure.
func (a *Account) Validate() error {
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.Name == "" {
		return errors.New("name is required")
	}
	if a.Status == "" {
		a.Status = AccountStatusActive
	}
	return nil
}
