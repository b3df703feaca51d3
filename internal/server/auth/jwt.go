// Package auth implements the credential primitives of the identity
// subsystem: signed bearer tokens and password hashing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codequest-dev/codequest/internal/common"
)

// now is a seam for tests that need deterministic issue/validation time.
var now = time.Now

// Claims carries the token payload: the subject user id and email alongside
// the registered expiry claim.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken mints an HS256-signed token for the user, valid for
// validityDuration from now. Issuance is the only place wall-clock time is
// embedded; validation is a pure function of (token, secret, current time).
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	issuedAt := now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// ParseToken validates the token signature and expiry and returns the claims.
// The three failure modes map to distinct sentinels (common.ErrTokenMalformed,
// common.ErrTokenSignatureInvalid, common.ErrTokenExpired) so callers can log
// the root cause; the HTTP boundary presents all of them identically.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithTimeFunc(now))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, common.ErrTokenSignatureInvalid
	case err != nil:
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}
