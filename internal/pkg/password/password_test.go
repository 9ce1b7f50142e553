package password_test

import (
	"testing"

	"colisso/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := password.Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.True(t, password.Verify("correct-horse-battery", hash))
	assert.False(t, password.Verify("wrong-horse-battery", hash))
	assert.False(t, password.Verify("correct-horse-battery", "not-a-bcrypt-hash"))
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	h1 := password.HashToken("some-refresh-token")
	h2 := password.HashToken("some-refresh-token")
	h3 := password.HashToken("another-token")

	// SHA256 hex digest, deterministic
	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, password.Validate("12345678"))
	assert.True(t, password.Validate("a much longer passphrase"))
	assert.False(t, password.Validate("1234567"))
	assert.False(t, password.Validate(""))
}
