package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"workspace-console/internal/auth"
	sessiondomain "workspace-console/internal/session/domain"
)

// Authenticator validates a bearer token and returns its live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*sessiondomain.Session, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity in the request context for handlers downstream.
func RequireAuth(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		session, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.SetUserContext(auth.WithIdentity(c.UserContext(), session.AccountID, session.WorkspaceID, session.ID))
		return c.Next()
	}
}
