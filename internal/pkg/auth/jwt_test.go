package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "clubhub.test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT(time.Hour)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "member@club.org")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 3600, pair.ExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)

	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "member@club.org", claims.Email)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT(-time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "member@club.org")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	pair, err := newTestJWT(time.Hour).GenerateTokenPair(uuid.New(), "member@club.org")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "clubhub.test"})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestRefreshTokens(t *testing.T) {
	svc := newTestJWT(time.Hour)
	a, err := svc.GenerateTokenPair(uuid.New(), "member@club.org")
	require.NoError(t, err)
	b, err := svc.GenerateTokenPair(uuid.New(), "member@club.org")
	require.NoError(t, err)

	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
	assert.Len(t, HashRefreshToken(a.RefreshToken), 64)
	assert.Equal(t, HashRefreshToken(a.RefreshToken), HashRefreshToken(a.RefreshToken))
	assert.NotEqual(t, a.RefreshToken, HashRefreshToken(a.RefreshToken))
}
