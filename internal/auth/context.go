package auth

import "context"

type contextKey struct{ name string }

var (
	accountIDKey   = contextKey{"account_id"}
	workspaceIDKey = contextKey{"workspace_id"}
	sessionIDKey   = contextKey{"session_id"}
	clientIPKey    = contextKey{"client_ip"}
)

// WithClientIP returns a context carrying the client IP for audit logging.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP from context, or "".
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// WithIdentity returns a context with account_id, workspace_id, and
// session_id set. Handlers read these via GetAccountID, GetWorkspaceID,
// GetSessionID.
func WithIdentity(ctx context.Context, accountID, workspaceID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, accountID)
	ctx = context.WithValue(ctx, workspaceIDKey, workspaceID)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// GetAccountID returns the account_id from context and true if set; otherwise "", false.
func GetAccountID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accountIDKey).(string)
	return v, ok
}

// GetWorkspaceID returns the workspace_id from context and true if set; otherwise "", false.
func GetWorkspaceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(workspaceIDKey).(string)
	return v, ok
}

// GetSessionID returns the session_id from context and true if set; otherwise "", false.
func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok
}
