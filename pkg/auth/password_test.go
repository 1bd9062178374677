package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pw1")
	require.NoError(t, err)
	h2, err := HashPassword("pw1")
	require.NoError(t, err)

	// Fresh salt per call: same input, different output.
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordWrongHash(t *testing.T) {
	h2, err := HashPassword("pw2")
	require.NoError(t, err)

	ok, err := VerifyPassword("pw1", h2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	// Garbage in the password column is a mismatch, not an error.
	tests := []string{"", "not-a-bcrypt-hash", "$2a$xx$zz", "plaintext-password"}
	for _, hash := range tests {
		ok, err := VerifyPassword("anything", hash)
		assert.NoError(t, err, "hash %q", hash)
		assert.False(t, ok, "hash %q", hash)
	}
}
