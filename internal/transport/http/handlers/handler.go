// Package handlers wires HTTP delivery for the console API.
package handlers

import (
	"go.uber.org/zap"

	"workspace-console/internal/auth"
	"workspace-console/internal/devcode"
	"workspace-console/internal/security"
	"workspace-console/internal/verification"
	workspacesvc "workspace-console/internal/workspace/service"
)

// Handler serves the console endpoints using the service layer.
type Handler struct {
	log          *zap.SugaredLogger
	auth         *auth.Service
	verification *verification.Service
	workspace    *workspacesvc.Service
	tokens       *security.TokenProvider

	// devStore is set only when dev code retrieval is enabled.
	devStore devcode.Store
}

// NewHandler constructs the HTTP handler with service dependencies. devStore
// may be nil; then the dev code endpoint responds 404.
func NewHandler(
	log *zap.SugaredLogger,
	authSvc *auth.Service,
	verificationSvc *verification.Service,
	workspaceSvc *workspacesvc.Service,
	tokens *security.TokenProvider,
	devStore devcode.Store,
) *Handler {
	return &Handler{
		log:          log,
		auth:         authSvc,
		verification: verificationSvc,
		workspace:    workspaceSvc,
		tokens:       tokens,
		devStore:     devStore,
	}
}
