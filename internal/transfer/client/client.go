// Package client is the HTTP console client used by the transfer workflow.
// It implements the workflow's gateway, executor, and roster contracts over
// the console REST API and sorts failures into the workflow's error kinds.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"workspace-console/internal/transfer"
)

const defaultTimeout = 30 * time.Second

// Client calls the console API with a bearer access token.
type Client struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
}

// New returns a console client for baseURL authenticated with accessToken.
func New(baseURL, accessToken string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: defaultTimeout},
	}
}

type sendResponse struct {
	Result string `json:"result"`
	Data   string `json:"data"`
}

type verifyResponse struct {
	Result  string `json:"result"`
	IsValid bool   `json:"is_valid"`
	Token   string `json:"token"`
}

type resultResponse struct {
	Result string `json:"result"`
}

type membersResponse struct {
	Accounts []transfer.Member `json:"accounts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SendOwnerEmail requests a verification code for the current owner and
// returns the step token.
func (c *Client) SendOwnerEmail(ctx context.Context) (string, error) {
	var out sendResponse
	if err := c.do(ctx, http.MethodPost, "/v1/workspaces/current/owner-email", nil, &out); err != nil {
		return "", err
	}
	if out.Result != "success" || out.Data == "" {
		return "", &transfer.NetworkError{Err: fmt.Errorf("unexpected send response result %q", out.Result)}
	}
	return out.Data, nil
}

// VerifyOwnerEmail submits the entered code for the challenge behind stepToken.
func (c *Client) VerifyOwnerEmail(ctx context.Context, stepToken, code string) (*transfer.VerifyOutcome, error) {
	body := map[string]string{"token": stepToken, "code": code}
	var out verifyResponse
	if err := c.do(ctx, http.MethodPost, "/v1/workspaces/current/owner-email/verify", body, &out); err != nil {
		return nil, err
	}
	return &transfer.VerifyOutcome{IsValid: out.IsValid, Token: out.Token}, nil
}

// TransferOwnership executes the transfer to newOwnerID using the transfer token.
func (c *Client) TransferOwnership(ctx context.Context, newOwnerID, token string) error {
	body := map[string]string{"new_owner_id": newOwnerID, "token": token}
	var out resultResponse
	return c.do(ctx, http.MethodPost, "/v1/workspaces/current/owner-transfer", body, &out)
}

// Members returns the workspace roster.
func (c *Client) Members(ctx context.Context) ([]transfer.Member, error) {
	var out membersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces/current/members", nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// do issues one request and decodes the response into out. Transport
// failures become *transfer.NetworkError; non-2xx responses become
// *transfer.BusinessError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &transfer.NetworkError{Err: err}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &transfer.NetworkError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &transfer.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transfer.NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return &transfer.BusinessError{Message: e.Error}
		}
		return &transfer.NetworkError{Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &transfer.NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
