// Package auth implements console login and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	accountdomain "workspace-console/internal/account/domain"
	accountrepo "workspace-console/internal/account/repository"
	"workspace-console/internal/audit"
	"workspace-console/internal/security"
	sessiondomain "workspace-console/internal/session/domain"
	sessionrepo "workspace-console/internal/session/repository"
	workspacerepo "workspace-console/internal/workspace/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	// Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountBanned is returned when the account exists but is banned.
	ErrAccountBanned = errors.New("account is banned")
	// ErrNoMembership is returned when the account belongs to no workspace.
	ErrNoMembership = errors.New("account has no workspace")
	// ErrSessionNotFound is returned on logout of an unknown session.
	ErrSessionNotFound = errors.New("session not found")
)

// LoginResult carries the issued access token and the session it belongs to.
type LoginResult struct {
	Token       string
	ExpiresAt   time.Time
	SessionID   string
	AccountID   string
	WorkspaceID string
}

// Service implements login and logout against the account, workspace, and
// session stores.
type Service struct {
	accounts   accountrepo.Repository
	workspaces workspacerepo.Repository
	sessions   sessionrepo.Repository
	hasher     *security.Hasher
	tokens     *security.TokenProvider
	audit      audit.Recorder
	logger     *zap.SugaredLogger

	accessTTL time.Duration
	nowF      func() time.Time
}

// NewService returns an auth service. auditRec may be nil.
func NewService(
	accounts accountrepo.Repository,
	workspaces workspacerepo.Repository,
	sessions sessionrepo.Repository,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	auditRec audit.Recorder,
	logger *zap.SugaredLogger,
	accessTTL time.Duration,
) *Service {
	return &Service{
		accounts:   accounts,
		workspaces: workspaces,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		audit:      auditRec,
		logger:     logger,
		accessTTL:  accessTTL,
		nowF:       func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies email and password, creates a session scoped to the
// account's workspace, and returns an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		s.recordLoginFailure(ctx, "", "email="+email)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, []byte(password)); err != nil {
		s.recordLoginFailure(ctx, account.ID, "email="+email)
		return nil, ErrInvalidCredentials
	}
	if account.Status == accountdomain.AccountStatusBanned {
		s.recordLoginFailure(ctx, account.ID, "banned")
		return nil, ErrAccountBanned
	}

	workspaceID, err := s.workspaceFor(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	now := s.nowF()
	session := &sessiondomain.Session{
		ID:          uuid.New().String(),
		AccountID:   account.ID,
		WorkspaceID: workspaceID,
		ExpiresAt:   now.Add(s.accessTTL),
		CreatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, expiresAt, err := s.tokens.IssueAccess(session.ID, account.ID, workspaceID, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, workspaceID, account.ID, audit.ActionLogin, "session:"+session.ID, "")
	}
	return &LoginResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		SessionID:   session.ID,
		AccountID:   account.ID,
		WorkspaceID: workspaceID,
	}, nil
}

// Logout revokes the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, session.WorkspaceID, session.AccountID, audit.ActionLogout, "session:"+sessionID, "")
	}
	return nil
}

// Authenticate validates a bearer token and checks its session is still
// active. Returns the session on success.
func (s *Service) Authenticate(ctx context.Context, token string) (*sessiondomain.Session, error) {
	sessionID, _, _, err := s.tokens.ValidateAccess(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !session.Active(s.nowF()) {
		return nil, ErrInvalidCredentials
	}
	if err := s.sessions.UpdateLastSeen(ctx, sessionID, s.nowF()); err != nil {
		s.logger.Warnw("update last seen failed", "session_id", sessionID, "error", err)
	}
	return session, nil
}

// workspaceFor returns the workspace the account is a member of. Accounts
// belong to exactly one workspace in this console.
func (s *Service) workspaceFor(ctx context.Context, accountID string) (string, error) {
	// memberships are keyed by (workspace, account); the sessions table is the
	// only place that needs the reverse lookup, so the repo exposes it directly.
	workspaceID, err := s.workspaces.WorkspaceForAccount(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("workspace for account: %w", err)
	}
	if workspaceID == "" {
		return "", ErrNoMembership
	}
	return workspaceID, nil
}

func (s *Service) recordLoginFailure(ctx context.Context, accountID, metadata string) {
	s.logger.Infow("login failure", "account_id", accountID)
	if s.audit != nil {
		s.audit.LogEvent(ctx, "", accountID, audit.ActionLoginFailure, "session", metadata)
	}
}
