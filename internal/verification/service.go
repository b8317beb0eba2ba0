package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	accountrepo "workspace-console/internal/account/repository"
	"workspace-console/internal/audit"
	"workspace-console/internal/devcode"
	"workspace-console/internal/security"
	"workspace-console/internal/verification/domain"
	"workspace-console/internal/verification/mail"
	"workspace-console/internal/verification/repository"
	workspacedomain "workspace-console/internal/workspace/domain"
	workspacerepo "workspace-console/internal/workspace/repository"
)

var (
	// ErrNotOwner is returned when the caller is not the workspace owner.
	ErrNotOwner = errors.New("caller is not the workspace owner")
	// ErrAccountNotFound is returned when the caller's account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrStepTokenInvalid is returned when the step token is malformed, expired,
	// or bound to a different account or workspace.
	ErrStepTokenInvalid = errors.New("invalid step token")
	// ErrMailDelivery is returned when the verification email could not be sent.
	ErrMailDelivery = errors.New("failed to send verification email")
)

// VerifyResult is the outcome of a code check. IsValid false means the code
// was wrong or the challenge expired; the caller may retry with a fresh code.
type VerifyResult struct {
	IsValid bool
	// Token is the transfer token, set only when IsValid is true.
	Token string
}

// Service implements owner email re-authentication: sending a one-time code
// to the current owner and exchanging a correct code for a transfer token.
type Service struct {
	challenges repository.Repository
	workspaces workspacerepo.Repository
	accounts   accountrepo.Repository
	sender     mail.Sender
	tokens     *security.TokenProvider
	devStore   devcode.Store
	audit      audit.Recorder
	logger     *zap.SugaredLogger

	challengeTTL time.Duration
	transferTTL  time.Duration
	nowF         func() time.Time
}

// NewService returns a verification service. devStore may be nil; then codes
// are never retrievable outside the email. auditRec may be nil.
func NewService(
	challenges repository.Repository,
	workspaces workspacerepo.Repository,
	accounts accountrepo.Repository,
	sender mail.Sender,
	tokens *security.TokenProvider,
	devStore devcode.Store,
	auditRec audit.Recorder,
	logger *zap.SugaredLogger,
	challengeTTL, transferTTL time.Duration,
) *Service {
	if challengeTTL <= 0 {
		challengeTTL = repository.DefaultChallengeTTL
	}
	return &Service{
		challenges:   challenges,
		workspaces:   workspaces,
		accounts:     accounts,
		sender:       sender,
		tokens:       tokens,
		devStore:     devStore,
		audit:        auditRec,
		logger:       logger,
		challengeTTL: challengeTTL,
		transferTTL:  transferTTL,
		nowF:         func() time.Time { return time.Now().UTC() },
	}
}

// SendOwnerEmail generates a fresh code, emails it to the calling owner, and
// returns a step token scoped to the new challenge. Each call creates a new
// challenge; earlier codes for the same owner stop working only when their
// challenge expires, but the step token returned here locates only this one.
func (s *Service) SendOwnerEmail(ctx context.Context, accountID, workspaceID string) (string, error) {
	membership, err := s.workspaces.GetMembership(ctx, workspaceID, accountID)
	if err != nil {
		return "", fmt.Errorf("get membership: %w", err)
	}
	if membership == nil || membership.Role != workspacedomain.RoleOwner {
		return "", ErrNotOwner
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return "", ErrAccountNotFound
	}

	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	now := s.nowF()
	challenge := &domain.Challenge{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		AccountID:   accountID,
		Email:       account.Email,
		CodeHash:    HashCode(code),
		ExpiresAt:   now.Add(s.challengeTTL),
		CreatedAt:   now,
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return "", fmt.Errorf("create challenge: %w", err)
	}

	if err := s.sender.SendOwnerCode(account.Email, code); err != nil {
		s.logger.Errorw("verification email delivery failed", "challenge_id", challenge.ID, "error", err)
		if derr := s.challenges.Delete(ctx, challenge.ID); derr != nil {
			s.logger.Warnw("cleanup of undelivered challenge failed", "challenge_id", challenge.ID, "error", derr)
		}
		return "", ErrMailDelivery
	}
	if s.devStore != nil {
		s.devStore.Put(ctx, challenge.ID, code, challenge.ExpiresAt)
	}

	token, err := s.tokens.IssueStep(challenge.ID, accountID, workspaceID, s.challengeTTL)
	if err != nil {
		return "", fmt.Errorf("issue step token: %w", err)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, workspaceID, accountID, audit.ActionOwnerCodeSent, "workspace:"+workspaceID, "email="+account.Email)
	}
	return token, nil
}

// VerifyOwnerEmail checks code against the challenge located by stepToken.
// A wrong code and an expired or already-consumed challenge both yield
// IsValid false with a nil error; the session stays at the code-entry step
// and the caller may request a new code. Only a token that fails validation
// or is bound to a different caller is an error.
func (s *Service) VerifyOwnerEmail(ctx context.Context, accountID, workspaceID, stepToken, code string) (*VerifyResult, error) {
	challengeID, tokAccount, tokWorkspace, err := s.tokens.ValidateStep(stepToken)
	if err != nil {
		return nil, ErrStepTokenInvalid
	}
	if tokAccount != accountID || tokWorkspace != workspaceID {
		return nil, ErrStepTokenInvalid
	}

	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	if challenge == nil || challenge.Expired(s.nowF()) {
		if challenge != nil {
			if derr := s.challenges.Delete(ctx, challenge.ID); derr != nil {
				s.logger.Warnw("cleanup of expired challenge failed", "challenge_id", challenge.ID, "error", derr)
			}
		}
		s.recordVerifyFailure(ctx, workspaceID, accountID, "challenge expired or missing")
		return &VerifyResult{IsValid: false}, nil
	}

	if !CodeEqual(code, challenge.CodeHash) {
		s.recordVerifyFailure(ctx, workspaceID, accountID, "code mismatch")
		return &VerifyResult{IsValid: false}, nil
	}

	if err := s.challenges.Delete(ctx, challenge.ID); err != nil {
		return nil, fmt.Errorf("consume challenge: %w", err)
	}
	token, err := s.tokens.IssueTransfer(accountID, workspaceID, s.transferTTL)
	if err != nil {
		return nil, fmt.Errorf("issue transfer token: %w", err)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, workspaceID, accountID, audit.ActionOwnerVerified, "workspace:"+workspaceID, "")
	}
	return &VerifyResult{IsValid: true, Token: token}, nil
}

func (s *Service) recordVerifyFailure(ctx context.Context, workspaceID, accountID, reason string) {
	s.logger.Infow("owner verification failed", "workspace_id", workspaceID, "account_id", accountID, "reason", reason)
	if s.audit != nil {
		s.audit.LogEvent(ctx, workspaceID, accountID, audit.ActionOwnerVerifyFail, "workspace:"+workspaceID, reason)
	}
}
