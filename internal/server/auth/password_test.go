package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, VerifyPassword("correct horse battery staple", digest))
	assert.False(t, VerifyPassword("correct horse battery stable", digest))
}

func TestPassword_DigestIsSalted(t *testing.T) {
	t.Parallel()

	d1, err := HashPassword("same password")
	require.NoError(t, err)
	d2, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2, "two hashes of the same password must differ by salt")
	assert.True(t, VerifyPassword("same password", d1))
	assert.True(t, VerifyPassword("same password", d2))
}

func TestPassword_TruncationEquivalence(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", MaxPasswordBytes+10)

	digest, err := HashPassword(long)
	require.NoError(t, err)

	// The password itself verifies.
	assert.True(t, VerifyPassword(long, digest))

	// Any suffix change beyond the bound is invisible.
	assert.True(t, VerifyPassword(long+"whatever", digest))
	assert.True(t, VerifyPassword(strings.Repeat("a", MaxPasswordBytes), digest))

	// A change inside the bound is not.
	inside := strings.Repeat("a", MaxPasswordBytes-1) + "b"
	assert.False(t, VerifyPassword(inside, digest))
}

func TestPassword_ExactBoundDoesNotError(t *testing.T) {
	t.Parallel()

	exact := strings.Repeat("x", MaxPasswordBytes)
	digest, err := HashPassword(exact)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(exact, digest))
}
