package audit

import (
	"context"
	"errors"
	"testing"

	"workspace-console/internal/audit/domain"
)

type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByWorkspace(ctx context.Context, workspaceID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, func(ctx context.Context) string { return "192.168.1.1" })
	ctx := context.Background()

	logger.LogEvent(ctx, "ws-1", "acct-1", ActionOwnerCodeSent, "workspace:ws-1", "email=o@x.com")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.WorkspaceID != "ws-1" {
		t.Errorf("workspace_id = %q, want %q", entry.WorkspaceID, "ws-1")
	}
	if entry.AccountID != "acct-1" {
		t.Errorf("account_id = %q, want %q", entry.AccountID, "acct-1")
	}
	if entry.Action != ActionOwnerCodeSent {
		t.Errorf("action = %q, want %q", entry.Action, ActionOwnerCodeSent)
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_LogEvent_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.LogEvent(context.Background(), "ws-1", "acct-1", ActionLogin, "session", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want %q", repo.entries[0].IP, "unknown")
	}
}

func TestLogger_LogEvent_EmptyWorkspaceUsesSentinel(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.LogEvent(context.Background(), "", "", ActionLoginFailure, "session", "email=nobody@x.com")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].WorkspaceID != SentinelWorkspaceID {
		t.Errorf("workspace_id = %q, want %q", repo.entries[0].WorkspaceID, SentinelWorkspaceID)
	}
}

func TestLogger_LogEvent_RepoErrorSwallowed(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	logger := NewLogger(repo, nil)

	// must not panic or surface the error
	logger.LogEvent(context.Background(), "ws-1", "acct-1", ActionLogout, "session", "")

	if len(repo.entries) != 0 {
		t.Fatalf("expected 0 entries, got %d", len(repo.entries))
	}
}

func TestLogger_NilRepoNoop(t *testing.T) {
	logger := NewLogger(nil, nil)
	logger.LogEvent(context.Background(), "ws-1", "acct-1", ActionLogin, "session", "")
}
