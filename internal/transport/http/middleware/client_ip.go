package middleware

import (
	"github.com/gofiber/fiber/v2"

	"workspace-console/internal/auth"
)

// ClientIP stores the remote address in the request context so the audit
// logger can record it.
func ClientIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(auth.WithClientIP(c.UserContext(), c.IP()))
		return c.Next()
	}
}
