package jwt_test

import (
	"testing"

	"shelfwise/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessToken_RoundTrip(t *testing.T) {
	token, err := jwt.GenerateAccessToken(7, "alice", false, testSecret, 60)
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestAccessToken_CarriesAdminFlag(t *testing.T) {
	token, err := jwt.GenerateAccessToken(1, "admin", true, testSecret, 60)
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := jwt.GenerateAccessToken(7, "alice", false, testSecret, 60)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestAccessToken_Expired(t *testing.T) {
	token, err := jwt.GenerateAccessToken(7, "alice", false, testSecret, -1)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	token, err := jwt.GenerateRefreshToken(7, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := jwt.ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestRefreshToken_NotValidAsAccessToken(t *testing.T) {
	access, err := jwt.GenerateAccessToken(7, "alice", false, testSecret, 60)
	require.NoError(t, err)

	// Access tokens parse under the refresh claims shape but with an
	// empty token id; refresh tokens signed with another secret fail.
	refresh, err := jwt.GenerateRefreshToken(7, "token-id-1", "other-secret", 7)
	require.NoError(t, err)

	_, err = jwt.ValidateRefreshToken(refresh, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)

	claims, err := jwt.ValidateRefreshToken(access, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.TokenID)
}
