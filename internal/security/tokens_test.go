package security

import (
	"testing"
	"time"
)

func TestIssueAndValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, expiresAt, err := p.IssueAccess("sess-1", "acct-1", "ws-1", 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if token == "" {
		t.Fatal("IssueAccess returned empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expiresAt %v should be in the future", expiresAt)
	}
	sessionID, accountID, workspaceID, err := p.ValidateAccess(token)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if sessionID != "sess-1" || accountID != "acct-1" || workspaceID != "ws-1" {
		t.Errorf("claims = (%q, %q, %q)", sessionID, accountID, workspaceID)
	}
}

func TestIssueAndValidateStep(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, err := p.IssueStep("ch-1", "acct-1", "ws-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueStep: %v", err)
	}
	challengeID, accountID, workspaceID, err := p.ValidateStep(token)
	if err != nil {
		t.Fatalf("ValidateStep: %v", err)
	}
	if challengeID != "ch-1" || accountID != "acct-1" || workspaceID != "ws-1" {
		t.Errorf("claims = (%q, %q, %q)", challengeID, accountID, workspaceID)
	}
}

func TestIssueAndValidateTransfer(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, err := p.IssueTransfer("acct-1", "ws-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueTransfer: %v", err)
	}
	accountID, workspaceID, err := p.ValidateTransfer(token)
	if err != nil {
		t.Fatalf("ValidateTransfer: %v", err)
	}
	if accountID != "acct-1" || workspaceID != "ws-1" {
		t.Errorf("claims = (%q, %q)", accountID, workspaceID)
	}
}

func TestPurposesAreNotInterchangeable(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	step, err := p.IssueStep("ch-1", "acct-1", "ws-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueStep: %v", err)
	}
	if _, _, err := p.ValidateTransfer(step); err == nil {
		t.Error("step token must not validate as transfer token")
	}
	if _, _, _, err := p.ValidateAccess(step); err == nil {
		t.Error("step token must not validate as access token")
	}

	transfer, err := p.IssueTransfer("acct-1", "ws-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueTransfer: %v", err)
	}
	if _, _, _, err := p.ValidateStep(transfer); err == nil {
		t.Error("transfer token must not validate as step token")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, err := p.IssueTransfer("acct-1", "ws-1", -1*time.Minute)
	if err != nil {
		t.Fatalf("IssueTransfer: %v", err)
	}
	if _, _, err := p.ValidateTransfer(token); err == nil {
		t.Error("expired token must not validate")
	}
}

func TestValidate_WrongKey(t *testing.T) {
	p1, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	p2, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, err := p1.IssueTransfer("acct-1", "ws-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueTransfer: %v", err)
	}
	if _, _, err := p2.ValidateTransfer(token); err == nil {
		t.Error("token signed with another key must not validate")
	}
}

func TestValidate_Garbage(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, _, err := p.ValidateTransfer("not-a-jwt"); err == nil {
		t.Error("garbage must not validate")
	}
	if _, _, _, err := p.ValidateAccess(""); err == nil {
		t.Error("empty string must not validate")
	}
}
