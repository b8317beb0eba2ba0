package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	accountdomain "workspace-console/internal/account/domain"
	"workspace-console/internal/devcode"
	"workspace-console/internal/security"
	"workspace-console/internal/verification/domain"
	workspacedomain "workspace-console/internal/workspace/domain"
)

type fakeChallengeRepo struct {
	mu        sync.Mutex
	m         map[string]*domain.Challenge
	createErr error
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{m: make(map[string]*domain.Challenge)}
}

func (f *fakeChallengeRepo) Create(ctx context.Context, c *domain.Challenge) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.m[c.ID] = &cp
	return nil
}

func (f *fakeChallengeRepo) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChallengeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
	return nil
}

type fakeWorkspaceRepo struct {
	memberships map[string]*workspacedomain.Membership // key: workspaceID+"/"+accountID
}

func (f *fakeWorkspaceRepo) GetByID(ctx context.Context, id string) (*workspacedomain.Workspace, error) {
	return nil, nil
}

func (f *fakeWorkspaceRepo) Create(ctx context.Context, w *workspacedomain.Workspace) error {
	return nil
}

func (f *fakeWorkspaceRepo) GetMembership(ctx context.Context, workspaceID, accountID string) (*workspacedomain.Membership, error) {
	m, ok := f.memberships[workspaceID+"/"+accountID]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (f *fakeWorkspaceRepo) WorkspaceForAccount(ctx context.Context, accountID string) (string, error) {
	for _, m := range f.memberships {
		if m.AccountID == accountID {
			return m.WorkspaceID, nil
		}
	}
	return "", nil
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

type fakeAccountRepo struct {
	byID map[string]*accountdomain.Account
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	return f.byID[id], nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*accountdomain.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *accountdomain.Account) error {
	return nil
}

type fakeSender struct {
	sentTo   []string
	lastCode string
	err      error
}

func (f *fakeSender) SendOwnerCode(email, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, email)
	f.lastCode = code
	return nil
}

func newTestService(t *testing.T, sender *fakeSender) (*Service, *fakeChallengeRepo, *devcode.MemoryStore) {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	challenges := newFakeChallengeRepo()
	workspaces := &fakeWorkspaceRepo{memberships: map[string]*workspacedomain.Membership{
		"ws-1/owner-1": {ID: "m-1", WorkspaceID: "ws-1", AccountID: "owner-1", Role: workspacedomain.RoleOwner},
		"ws-1/admin-1": {ID: "m-2", WorkspaceID: "ws-1", AccountID: "admin-1", Role: workspacedomain.RoleAdmin},
	}}
	accounts := &fakeAccountRepo{byID: map[string]*accountdomain.Account{
		"owner-1": {ID: "owner-1", Email: "owner@example.com", Name: "Owner", Status: accountdomain.AccountStatusActive},
	}}
	devStore := devcode.NewMemoryStore()
	svc := NewService(challenges, workspaces, accounts, sender, tokens, devStore, nil,
		zap.NewNop().Sugar(), 10*time.Minute, 10*time.Minute)
	return svc, challenges, devStore
}

func TestSendOwnerEmail_Success(t *testing.T) {
	sender := &fakeSender{}
	svc, challenges, devStore := newTestService(t, sender)
	ctx := context.Background()

	token, err := svc.SendOwnerEmail(ctx, "owner-1", "ws-1")
	if err != nil {
		t.Fatalf("SendOwnerEmail: %v", err)
	}
	if token == "" {
		t.Fatal("expected a step token")
	}
	if len(sender.sentTo) != 1 || sender.sentTo[0] != "owner@example.com" {
		t.Fatalf("expected mail to owner@example.com, got %v", sender.sentTo)
	}
	if len(sender.lastCode) != 6 {
		t.Fatalf("expected 6-digit code, got %q", sender.lastCode)
	}
	if len(challenges.m) != 1 {
		t.Fatalf("expected 1 challenge, got %d", len(challenges.m))
	}
	for id := range challenges.m {
		if code, ok := devStore.Get(ctx, id); !ok || code != sender.lastCode {
			t.Fatalf("dev store code = %q ok=%v, want %q", code, ok, sender.lastCode)
		}
	}
}

func TestSendOwnerEmail_NotOwner(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(t, sender)

	if _, err := svc.SendOwnerEmail(context.Background(), "admin-1", "ws-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if len(sender.sentTo) != 0 {
		t.Fatal("no mail should be sent for non-owners")
	}
}

func TestSendOwnerEmail_MailFailureCleansUp(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	svc, challenges, _ := newTestService(t, sender)

	if _, err := svc.SendOwnerEmail(context.Background(), "owner-1", "ws-1"); !errors.Is(err, ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}
	if len(challenges.m) != 0 {
		t.Fatalf("expected undelivered challenge to be removed, got %d", len(challenges.m))
	}
}

func TestVerifyOwnerEmail_CorrectCode(t *testing.T) {
	sender := &fakeSender{}
	svc, challenges, _ := newTestService(t, sender)
	ctx := context.Background()

	stepToken, err := svc.SendOwnerEmail(ctx, "owner-1", "ws-1")
	if err != nil {
		t.Fatalf("SendOwnerEmail: %v", err)
	}

	res, err := svc.VerifyOwnerEmail(ctx, "owner-1", "ws-1", stepToken, sender.lastCode)
	if err != nil {
		t.Fatalf("VerifyOwnerEmail: %v", err)
	}
	if !res.IsValid {
		t.Fatal("expected IsValid true for correct code")
	}
	if res.Token == "" {
		t.Fatal("expected a transfer token")
	}
	if len(challenges.m) != 0 {
		t.Fatal("challenge should be consumed after success")
	}
}

func TestVerifyOwnerEmail_WrongCode(t *testing.T) {
	sender := &fakeSender{}
	svc, challenges, _ := newTestService(t, sender)
	ctx := context.Background()

	stepToken, err := svc.SendOwnerEmail(ctx, "owner-1", "ws-1")
	if err != nil {
		t.Fatalf("SendOwnerEmail: %v", err)
	}

	wrong := "000000"
	if wrong == sender.lastCode {
		wrong = "000001"
	}
	res, err := svc.VerifyOwnerEmail(ctx, "owner-1", "ws-1", stepToken, wrong)
	if err != nil {
		t.Fatalf("VerifyOwnerEmail: %v", err)
	}
	if res.IsValid {
		t.Fatal("expected IsValid false for wrong code")
	}
	if res.Token != "" {
		t.Fatal("no transfer token for wrong code")
	}
	if len(challenges.m) != 1 {
		t.Fatal("challenge must survive a wrong code so the user can retry")
	}

	// the correct code still works afterwards
	res, err = svc.VerifyOwnerEmail(ctx, "owner-1", "ws-1", stepToken, sender.lastCode)
	if err != nil {
		t.Fatalf("VerifyOwnerEmail retry: %v", err)
	}
	if !res.IsValid {
		t.Fatal("expected retry with correct code to succeed")
	}
}

func TestVerifyOwnerEmail_ExpiredChallenge(t *testing.T) {
	sender := &fakeSender{}
	svc, challenges, _ := newTestService(t, sender)
	ctx := context.Background()

	stepToken, err := svc.SendOwnerEmail(ctx, "owner-1", "ws-1")
	if err != nil {
		t.Fatalf("SendOwnerEmail: %v", err)
	}

	svc.nowF = func() time.Time { return time.Now().UTC().Add(time.Hour) }

	res, err := svc.VerifyOwnerEmail(ctx, "owner-1", "ws-1", stepToken, sender.lastCode)
	if err != nil {
		t.Fatalf("VerifyOwnerEmail: %v", err)
	}
	if res.IsValid {
		t.Fatal("expected IsValid false for expired challenge")
	}
	if len(challenges.m) != 0 {
		t.Fatal("expired challenge should be removed")
	}
}

func TestVerifyOwnerEmail_TokenBoundToCaller(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(t, sender)
	ctx := context.Background()

	stepToken, err := svc.SendOwnerEmail(ctx, "owner-1", "ws-1")
	if err != nil {
		t.Fatalf("SendOwnerEmail: %v", err)
	}

	if _, err := svc.VerifyOwnerEmail(ctx, "admin-1", "ws-1", stepToken, sender.lastCode); !errors.Is(err, ErrStepTokenInvalid) {
		t.Fatalf("expected ErrStepTokenInvalid for mismatched account, got %v", err)
	}
	if _, err := svc.VerifyOwnerEmail(ctx, "owner-1", "ws-1", "garbage", sender.lastCode); !errors.Is(err, ErrStepTokenInvalid) {
		t.Fatalf("expected ErrStepTokenInvalid for garbage token, got %v", err)
	}
}
