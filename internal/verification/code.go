// Package verification implements the owner email re-authentication flow:
// 6-digit codes delivered by mail, stored hashed, exchanged for a transfer token.
package verification

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const codeDigits = 6

// GenerateCode draws a 6-digit code from crypto/rand. Leading zeros are
// allowed, so callers must treat the code as a string, never an int.
func GenerateCode() (string, error) {
	b := make([]byte, codeDigits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := make([]byte, codeDigits)
	for i := range s {
		s[i] = '0' + (b[i] % 10)
	}
	return string(s), nil
}

// HashCode is the at-rest form of a code: hex-encoded SHA-256. Challenges
// store only this, never the plaintext.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// CodeEqual reports whether the submitted code matches the stored hash,
// comparing in constant time.
func CodeEqual(submitted, storedHash string) bool {
	sum := HashCode(submitted)
	return subtle.ConstantTimeCompare([]byte(sum), []byte(storedHash)) == 1
}
