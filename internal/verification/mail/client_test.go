package mail

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendOwnerCode_MissingAPIKey(t *testing.T) {
	c := NewClient("", "", "no-reply@example.com")
	if err := c.SendOwnerCode("owner@example.com", "123456"); err == nil {
		t.Fatal("SendOwnerCode without API key should return error")
	}
}

func TestSendOwnerCode_PostsJSON(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("key-1", srv.URL, "no-reply@example.com")
	if err := c.SendOwnerCode("owner@example.com", "123456"); err != nil {
		t.Fatalf("SendOwnerCode: %v", err)
	}
	if gotAuth != "Bearer key-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	content, ok := gotBody["content"].([]interface{})
	if !ok || len(content) == 0 {
		t.Fatalf("body content missing: %v", gotBody)
	}
	text := content[0].(map[string]interface{})["value"].(string)
	if !strings.Contains(text, "123456") {
		t.Errorf("mail body %q should contain the code", text)
	}
}

func TestSendOwnerCode_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("key-1", srv.URL, "no-reply@example.com")
	err := c.SendOwnerCode("owner@example.com", "123456")
	if err == nil {
		t.Fatal("SendOwnerCode should surface non-2xx as error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %q, should carry the status", err.Error())
	}
}
