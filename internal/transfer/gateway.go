package transfer

import "context"

// Member is one roster entry offered by the owner picker.
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// VerifyOutcome is the gateway's answer to a code check. IsValid false is
// recoverable: the user may retry with the same or a freshly sent code.
type VerifyOutcome struct {
	IsValid bool
	// Token is the transfer token, set only when IsValid is true.
	Token string
}

// Gateway wraps the two verification calls. Implementations classify their
// failures as *NetworkError, *ValidationError, or *BusinessError.
type Gateway interface {
	// SendOwnerEmail emails a fresh code to the current owner and returns the
	// step token that binds this email to the verify call.
	SendOwnerEmail(ctx context.Context) (stepToken string, err error)
	// VerifyOwnerEmail checks code against the challenge behind stepToken.
	VerifyOwnerEmail(ctx context.Context, stepToken, code string) (*VerifyOutcome, error)
}

// Executor performs the final transfer call.
type Executor interface {
	TransferOwnership(ctx context.Context, newOwnerID, token string) error
}

// RosterProvider supplies the workspace member list. Read-only to the
// workflow; refreshed by its own caching layer.
type RosterProvider interface {
	Members(ctx context.Context) ([]Member, error)
}

// Notifier surfaces workflow outcomes to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
