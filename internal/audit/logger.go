// Package audit records who did what to which resource. Writes are
// best-effort: an audit failure never fails the operation being audited.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"workspace-console/internal/audit/domain"
	auditrepo "workspace-console/internal/audit/repository"
)

// SentinelWorkspaceID is the workspace_id used for audit events that have no
// workspace (e.g. login_failure for an unknown email).
const SentinelWorkspaceID = "_system"

// Actions recorded by the console.
const (
	ActionLogin           = "login"
	ActionLoginFailure    = "login_failure"
	ActionLogout          = "logout"
	ActionOwnerCodeSent   = "owner_code_sent"
	ActionOwnerVerified   = "owner_verified"
	ActionOwnerVerifyFail = "owner_verify_failure"
	ActionOwnerTransfer   = "ownership_transferred"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// Recorder writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type Recorder interface {
	LogEvent(ctx context.Context, workspaceID, accountID, action, resource, metadata string)
}

// Logger implements Recorder using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns a Recorder that persists to repo and uses ipExtractor for
// the client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, workspaceID, accountID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if workspaceID == "" {
		workspaceID = SentinelWorkspaceID
	}
	entry := &domain.AuditLog{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		AccountID:   accountID,
		Action:      action,
		Resource:    resource,
		IP:          ip,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}
