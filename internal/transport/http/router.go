// Package http assembles the console's fiber application.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"workspace-console/internal/transport/http/handlers"
	"workspace-console/internal/transport/http/middleware"
)

// NewApp builds the fiber application with middleware and routes registered.
func NewApp(log *zap.SugaredLogger, h *handlers.Handler, authn middleware.Authenticator) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.ClientIP())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	v1 := app.Group("/v1")
	v1.Post("/auth/login", h.PostLogin)

	authed := v1.Group("", middleware.RequireAuth(authn))
	authed.Post("/auth/logout", h.PostLogout)
	authed.Get("/workspaces/current/members", h.GetMembers)
	authed.Post("/workspaces/current/owner-email", h.PostOwnerEmail)
	authed.Post("/workspaces/current/owner-email/verify", h.PostOwnerEmailVerify)
	authed.Post("/workspaces/current/owner-transfer", h.PostOwnerTransfer)
	authed.Get("/dev/owner-code", h.GetDevOwnerCode)

	return app
}
