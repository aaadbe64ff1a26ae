package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenPurpose names the single-use token family a value belongs to.
type TokenPurpose string

const (
	TokenPurposeVerification TokenPurpose = "verification"
	TokenPurposeReset        TokenPurpose = "reset"
)

const tokenBytes = 20

// IssuedToken carries a freshly generated single-use token. Plain is handed
// to the user exactly once and never persisted; only Hash and ExpiresAt are
// stored.
type IssuedToken struct {
	Purpose   TokenPurpose
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// IssueToken generates a random single-use token with an absolute expiry of
// now + ttl.
func IssueToken(purpose TokenPurpose, now time.Time, ttl time.Duration) (IssuedToken, error) {
	if ttl <= 0 {
		return IssuedToken{}, fmt.Errorf("token ttl must be positive")
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return IssuedToken{}, fmt.Errorf("generate token: %w", err)
	}

	plain := hex.EncodeToString(buf)
	return IssuedToken{
		Purpose:   purpose,
		Plain:     plain,
		Hash:      HashToken(plain),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// HashToken returns the hex sha256 digest stored in place of the plaintext.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// ValidateToken reports whether the presented plaintext matches the stored
// hash and the stored expiry is strictly in the future. It never distinguishes
// a mismatch from a missing or expired token; callers surface a single
// "invalid or expired" failure so token state cannot be enumerated. On success
// the caller must clear the stored hash and expiry to enforce single use.
func ValidateToken(plain string, storedHash *string, storedExpire *time.Time, now time.Time) bool {
	if plain == "" || storedHash == nil || storedExpire == nil {
		return false
	}
	if !storedExpire.After(now) {
		return false
	}
	computed := HashToken(plain)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(*storedHash)) == 1
}
