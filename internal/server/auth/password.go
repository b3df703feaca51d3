package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's effective input limit. Both HashPassword and
// VerifyPassword truncate their input to this bound first, so two passwords
// that differ only beyond it hash and verify identically. This mirrors the
// historical behavior of bcrypt wrappers that silently truncate, and it is a
// documented compatibility contract, not an oversight: stored digests were
// produced from truncated input, so verification must truncate the same way.
const MaxPasswordBytes = 72

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// HashPassword produces a bcrypt digest of the (truncated) password. The
// digest embeds its own cost factor and salt, so verification needs no state
// besides the digest itself.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether the (truncated) password matches the digest.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(password)) == nil
}
