package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"workspace-console/internal/auth"
	"workspace-console/internal/verification"
	workspacesvc "workspace-console/internal/workspace/service"
)

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"step token", verification.ErrStepTokenInvalid, http.StatusUnauthorized},
		{"transfer token", workspacesvc.ErrTransferTokenInvalid, http.StatusUnauthorized},
		{"not owner", workspacesvc.ErrNotOwner, http.StatusForbidden},
		{"member not found", workspacesvc.ErrMemberNotFound, http.StatusNotFound},
		{"member inactive", workspacesvc.ErrMemberInactive, http.StatusConflict},
		{"transfer to self", workspacesvc.ErrTransferToSelf, http.StatusConflict},
		{"not eligible", workspacesvc.ErrNotEligible, http.StatusConflict},
		{"mail delivery", verification.ErrMailDelivery, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestWriteErrorUnknownIsInternal(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, errTest)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "internal error", body["error"])
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "sql: connection reset" }
