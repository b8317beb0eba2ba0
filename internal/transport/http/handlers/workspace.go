package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"workspace-console/internal/workspace/domain"
)

type memberEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// GetMembers returns the roster of the caller's workspace.
func (h *Handler) GetMembers(c *fiber.Ctx) error {
	_, workspaceID, _, ok := identity(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	members, err := h.workspace.Members(c.UserContext(), workspaceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": toMemberEntries(members)})
}

func toMemberEntries(members []*domain.Member) []memberEntry {
	out := make([]memberEntry, 0, len(members))
	for _, m := range members {
		out = append(out, memberEntry{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			AvatarURL: m.AvatarURL,
			Role:      string(m.Role),
			Status:    m.Status,
		})
	}
	return out
}

// PostOwnerEmail sends a verification code to the calling owner and returns
// the step token for the verify call.
func (h *Handler) PostOwnerEmail(c *fiber.Ctx) error {
	accountID, workspaceID, _, ok := identity(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	token, err := h.verification.SendOwnerEmail(c.UserContext(), accountID, workspaceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"result": "success", "data": token})
}

type verifyRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// PostOwnerEmailVerify checks the entered code. An invalid code is a 200 with
// is_valid false: the workflow stays on the code entry step and may retry.
func (h *Handler) PostOwnerEmailVerify(c *fiber.Ctx) error {
	accountID, workspaceID, _, ok := identity(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	var body verifyRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.Token == "" || body.Code == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "token and code are required"})
	}

	res, err := h.verification.VerifyOwnerEmail(c.UserContext(), accountID, workspaceID, body.Token, body.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"result":   "success",
		"is_valid": res.IsValid,
		"token":    res.Token,
	})
}

type transferRequest struct {
	NewOwnerID string `json:"new_owner_id"`
	Token      string `json:"token"`
}

// PostOwnerTransfer executes the ownership transfer.
func (h *Handler) PostOwnerTransfer(c *fiber.Ctx) error {
	accountID, workspaceID, _, ok := identity(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	var body transferRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.NewOwnerID == "" || body.Token == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "new_owner_id and token are required"})
	}

	if err := h.workspace.TransferOwnership(c.UserContext(), accountID, workspaceID, body.NewOwnerID, body.Token); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"result": "success"})
}

// GetDevOwnerCode returns the plain verification code for a step token.
// Available only when dev code mode is enabled; never in production.
func (h *Handler) GetDevOwnerCode(c *fiber.Ctx) error {
	if h.devStore == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	accountID, workspaceID, _, ok := identity(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	stepToken := c.Query("token")
	if stepToken == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}
	challengeID, tokAccount, tokWorkspace, err := h.tokens.ValidateStep(stepToken)
	if err != nil || tokAccount != accountID || tokWorkspace != workspaceID {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid step token"})
	}
	code, found := h.devStore.Get(c.UserContext(), challengeID)
	if !found {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "code not found or expired"})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"result": "success", "data": code})
}
