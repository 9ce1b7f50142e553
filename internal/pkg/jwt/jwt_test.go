package jwt_test

import (
	"testing"

	"colisso/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := jwt.GenerateAccessToken(42, "+22501020304", "Awa Diop", "client", testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "+22501020304", claims.Phone)
	assert.Equal(t, "Awa Diop", claims.FullName)
	assert.Equal(t, "client", claims.Role)
	assert.Equal(t, "colisso", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := jwt.GenerateAccessToken(1, "+22500000000", "Test User", "admin", testSecret, 15)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	t.Parallel()

	token, err := jwt.GenerateAccessToken(1, "+22500000000", "Test User", "admin", testSecret, -1)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessTokenGarbage(t *testing.T) {
	t.Parallel()

	_, err := jwt.ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := jwt.GenerateRefreshToken(7, "token-id-123", testSecret, 7)
	require.NoError(t, err)

	claims, err := jwt.ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "token-id-123", claims.TokenID)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	t.Parallel()

	refresh, err := jwt.GenerateRefreshToken(7, "token-id-123", testSecret, 7)
	require.NoError(t, err)

	// Parses with the same key but carries no user identity claims
	claims, err := jwt.ValidateAccessToken(refresh, testSecret)
	if err == nil {
		assert.Empty(t, claims.Phone)
		assert.Empty(t, claims.Role)
	}
}
