// Package mail sends verification codes through a transactional mail API.
package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Sender delivers a verification code to the given address.
// Implementations must not log the code.
type Sender interface {
	SendOwnerCode(email, code string) error
}

// Client sends verification emails via an HTTP mail API.
type Client struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewClient returns a mail client with the given API key, base URL, and From address.
func NewClient(apiKey, baseURL, from string) *Client {
	if baseURL == "" {
		baseURL = "https://api.mailchannels.net/tx/v1/send"
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SendOwnerCode sends the ownership-transfer verification code to email.
func (c *Client) SendOwnerCode(email, code string) error {
	if c.APIKey == "" {
		return fmt.Errorf("mail: API key not configured")
	}
	body := map[string]interface{}{
		"from":    map[string]string{"email": c.From},
		"to":      []map[string]string{{"email": email}},
		"subject": "Confirm workspace ownership transfer",
		"content": []map[string]string{{
			"type":  "text/plain",
			"value": fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
		}},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
