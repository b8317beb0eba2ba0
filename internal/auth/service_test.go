package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	accountdomain "workspace-console/internal/account/domain"
	"workspace-console/internal/security"
	sessiondomain "workspace-console/internal/session/domain"
	workspacedomain "workspace-console/internal/workspace/domain"
)

type fakeAccountRepo struct {
	byEmail map[string]*accountdomain.Account
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*accountdomain.Account, error) {
	return f.byEmail[email], nil
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *accountdomain.Account) error {
	return nil
}

type fakeWorkspaceRepo struct {
	workspaceByAccount map[string]string
}

func (f *fakeWorkspaceRepo) GetByID(ctx context.Context, id string) (*workspacedomain.Workspace, error) {
	return nil, nil
}

func (f *fakeWorkspaceRepo) Create(ctx context.Context, w *workspacedomain.Workspace) error {
	return nil
}

func (f *fakeWorkspaceRepo) GetMembership(ctx context.Context, workspaceID, accountID string) (*workspacedomain.Membership, error) {
	return nil, nil
}

func (f *fakeWorkspaceRepo) WorkspaceForAccount(ctx context.Context, accountID string) (string, error) {
	return f.workspaceByAccount[accountID], nil
}

func (f *fakeWorkspaceRepo) CreateMembership(ctx context.Context, m *workspacedomain.Membership) error {
	return nil
}

func (f *fakeWorkspaceRepo) ListMembers(ctx context.Context, workspaceID string) ([]*workspacedomain.Member, error) {
	return nil, nil
}

func (f *fakeWorkspaceRepo) SwapOwner(ctx context.Context, workspaceID, oldOwnerID, newOwnerID string) error {
	return nil
}

type fakeSessionRepo struct {
	mu sync.Mutex
	m  map[string]*sessiondomain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{m: make(map[string]*sessiondomain.Session)}
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*sessiondomain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.m[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.m[id]; ok {
		now := time.Now().UTC()
		s.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllByAccount(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for _, s := range f.m {
		if s.AccountID == accountID {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepo) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.m[id]; ok {
		s.LastSeenAt = &at
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeSessionRepo) {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	hasher := security.NewHasher(4) // min cost keeps the test fast
	ownerHash, err := hasher.Hash([]byte("correct horse"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	bannedHash, err := hasher.Hash([]byte("banned pass"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	accounts := &fakeAccountRepo{byEmail: map[string]*accountdomain.Account{
		"owner@example.com": {
			ID: "owner-1", Email: "owner@example.com", Name: "Owner",
			PasswordHash: ownerHash, Status: accountdomain.AccountStatusActive,
		},
		"banned@example.com": {
			ID: "banned-1", Email: "banned@example.com", Name: "Banned",
			PasswordHash: bannedHash, Status: accountdomain.AccountStatusBanned,
		},
	}}
	workspaces := &fakeWorkspaceRepo{workspaceByAccount: map[string]string{
		"owner-1": "ws-1",
	}}
	sessions := newFakeSessionRepo()
	svc := NewService(accounts, workspaces, sessions, hasher, tokens, nil,
		zap.NewNop().Sugar(), time.Hour)
	return svc, sessions
}

func TestLogin_Success(t *testing.T) {
	svc, sessions := newTestService(t)

	res, err := svc.Login(context.Background(), "owner@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected an access token")
	}
	if res.WorkspaceID != "ws-1" {
		t.Fatalf("workspace = %q, want ws-1", res.WorkspaceID)
	}
	if _, ok := sessions.m[res.SessionID]; !ok {
		t.Fatal("session row not created")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Login(context.Background(), "owner@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_Banned(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Login(context.Background(), "banned@example.com", "banned pass"); !errors.Is(err, ErrAccountBanned) {
		t.Fatalf("expected ErrAccountBanned, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "owner@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, res.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sessions.m[res.SessionID].RevokedAt == nil {
		t.Fatal("session should be revoked")
	}

	// token no longer authenticates
	if _, err := svc.Authenticate(ctx, res.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after logout, got %v", err)
	}
}

func TestLogout_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Logout(context.Background(), "no-such"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "owner@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	session, err := svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if session.AccountID != "owner-1" || session.WorkspaceID != "ws-1" {
		t.Fatalf("unexpected session identity: %+v", session)
	}

	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for garbage token, got %v", err)
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := WithIdentity(context.Background(), "acct-1", "ws-1", "sess-1")

	if v, ok := GetAccountID(ctx); !ok || v != "acct-1" {
		t.Fatalf("account_id = %q ok=%v", v, ok)
	}
	if v, ok := GetWorkspaceID(ctx); !ok || v != "ws-1" {
		t.Fatalf("workspace_id = %q ok=%v", v, ok)
	}
	if v, ok := GetSessionID(ctx); !ok || v != "sess-1" {
		t.Fatalf("session_id = %q ok=%v", v, ok)
	}

	if _, ok := GetAccountID(context.Background()); ok {
		t.Fatal("empty context should not carry an account id")
	}
}
