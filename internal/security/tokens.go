package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or carries the wrong purpose.
var ErrInvalidToken = errors.New("invalid token")

// Purpose distinguishes the three token kinds issued by the console.
type Purpose string

const (
	// PurposeAccess is the bearer token issued at login.
	PurposeAccess Purpose = "access"
	// PurposeStep binds a sent verification email to the subsequent verify call.
	PurposeStep Purpose = "owner_transfer_step"
	// PurposeTransfer proves successful owner re-authentication; required by the transfer call.
	PurposeTransfer Purpose = "owner_transfer"
)

// Claims holds JWT claims shared by access, step, and transfer tokens.
// Subject is the account id; WorkspaceID scopes the token to one tenant.
type Claims struct {
	jwt.RegisteredClaims
	Purpose     Purpose `json:"purpose"`
	WorkspaceID string  `json:"workspace_id"`
	SessionID   string  `json:"session_id,omitempty"`
	ChallengeID string  `json:"challenge_id,omitempty"`
}

// TokenProvider issues and validates console JWTs using RS256 or ES256 (private/public key).
// One signing key serves all three purposes; the purpose claim keeps them from being interchanged.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and validated on every parse.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
	}
}

// IssueAccess issues an access JWT for the given session, account, and workspace.
// Returns the token string and its expiration time.
func (p *TokenProvider) IssueAccess(sessionID, accountID, workspaceID string, ttl time.Duration) (string, time.Time, error) {
	claims, expiresAt, err := p.baseClaims(accountID, workspaceID, PurposeAccess, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	claims.SessionID = sessionID
	token, err := p.sign(claims)
	return token, expiresAt, err
}

// IssueStep issues the opaque step token returned by the send-owner-email call.
// The token carries the challenge id so verify can locate the stored code hash.
func (p *TokenProvider) IssueStep(challengeID, accountID, workspaceID string, ttl time.Duration) (string, error) {
	claims, _, err := p.baseClaims(accountID, workspaceID, PurposeStep, ttl)
	if err != nil {
		return "", err
	}
	claims.ChallengeID = challengeID
	return p.sign(claims)
}

// IssueTransfer issues the verified token returned by a successful verify call.
// It is bound to the re-authenticated owner and the workspace, not to any
// stored row, so a failed transfer call does not consume it.
func (p *TokenProvider) IssueTransfer(accountID, workspaceID string, ttl time.Duration) (string, error) {
	claims, _, err := p.baseClaims(accountID, workspaceID, PurposeTransfer, ttl)
	if err != nil {
		return "", err
	}
	return p.sign(claims)
}

// ValidateAccess parses and validates an access token (signature, exp, iss, aud, purpose).
// Returns sessionID, accountID, workspaceID, or error.
func (p *TokenProvider) ValidateAccess(tokenString string) (sessionID, accountID, workspaceID string, err error) {
	claims, err := p.parse(tokenString, PurposeAccess)
	if err != nil {
		return "", "", "", err
	}
	return claims.SessionID, claims.Subject, claims.WorkspaceID, nil
}

// ValidateStep parses and validates a step token. Returns challengeID, accountID, workspaceID, or error.
func (p *TokenProvider) ValidateStep(tokenString string) (challengeID, accountID, workspaceID string, err error) {
	claims, err := p.parse(tokenString, PurposeStep)
	if err != nil {
		return "", "", "", err
	}
	return claims.ChallengeID, claims.Subject, claims.WorkspaceID, nil
}

// ValidateTransfer parses and validates a transfer token. Returns accountID, workspaceID, or error.
func (p *TokenProvider) ValidateTransfer(tokenString string) (accountID, workspaceID string, err error) {
	claims, err := p.parse(tokenString, PurposeTransfer)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.WorkspaceID, nil
}

func (p *TokenProvider) baseClaims(accountID, workspaceID string, purpose Purpose, ttl time.Duration) (*Claims, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return nil, time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   accountID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose:     purpose,
		WorkspaceID: workspaceID,
	}, expiresAt, nil
}

func (p *TokenProvider) sign(claims *Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

func (p *TokenProvider) parse(tokenString string, purpose Purpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
