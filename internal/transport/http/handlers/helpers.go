package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"workspace-console/internal/auth"
	"workspace-console/internal/verification"
	workspacesvc "workspace-console/internal/workspace/service"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, verification.ErrStepTokenInvalid),
		errors.Is(err, workspacesvc.ErrTransferTokenInvalid):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, auth.ErrAccountBanned),
		errors.Is(err, auth.ErrNoMembership),
		errors.Is(err, verification.ErrNotOwner),
		errors.Is(err, workspacesvc.ErrNotOwner):
		status = http.StatusForbidden
		msg = err.Error()
	case errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, verification.ErrAccountNotFound),
		errors.Is(err, workspacesvc.ErrMemberNotFound),
		errors.Is(err, workspacesvc.ErrWorkspaceNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, workspacesvc.ErrMemberInactive),
		errors.Is(err, workspacesvc.ErrTransferToSelf),
		errors.Is(err, workspacesvc.ErrNotEligible):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, verification.ErrMailDelivery):
		status = http.StatusBadGateway
		msg = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// identity pulls the authenticated caller out of the request context. The
// auth middleware guarantees it is present on protected routes.
func identity(c *fiber.Ctx) (accountID, workspaceID, sessionID string, ok bool) {
	ctx := c.UserContext()
	accountID, ok1 := auth.GetAccountID(ctx)
	workspaceID, ok2 := auth.GetWorkspaceID(ctx)
	sessionID, ok3 := auth.GetSessionID(ctx)
	return accountID, workspaceID, sessionID, ok1 && ok2 && ok3
}
