package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	WorkspaceID string    `json:"workspace_id"`
}

// PostLogin authenticates with email and password and returns an access token.
func (h *Handler) PostLogin(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	res, err := h.auth.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"result": "success",
		"data": loginData{
			AccessToken: res.Token,
			ExpiresAt:   res.ExpiresAt,
			WorkspaceID: res.WorkspaceID,
		},
	})
}

// PostLogout revokes the calling session.
func (h *Handler) PostLogout(c *fiber.Ctx) error {
	_, _, sessionID, ok := identity(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	if err := h.auth.Logout(c.UserContext(), sessionID); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"result": "success"})
}
