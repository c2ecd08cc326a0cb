package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// HashSecret returns the hex-encoded SHA-256 digest of a secret. The same
// digest function covers both passwords and security answers; stored values
// are compared by digest equality, never recovered.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// CheckSecret reports whether a candidate secret matches a stored digest.
func CheckSecret(secret, storedHash string) bool {
	return storedHash != "" && HashSecret(secret) == storedHash
}

// HashSecurityAnswer normalizes a security answer (lowercased, surrounding
// whitespace trimmed) before hashing, so verification is tolerant of casing
// and stray spaces.
func HashSecurityAnswer(answer string) string {
	return HashSecret(strings.ToLower(strings.TrimSpace(answer)))
}

// NewUserID creates a new globally unique account identifier
func NewUserID() string {
	return uuid.New().String()
}

// NewOAuthState creates an opaque value for the OAuth state/nonce cookies
func NewOAuthState() string {
	return uuid.New().String()
}

// GenerateInviteCode generates a random invitation code
func GenerateInviteCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
