package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "user@example.com", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "user@example.com", claims["email"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("right", 1, "a@b.c", 5)
	require.NoError(t, err)
	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	r1, err := NewRefreshToken(7)
	require.NoError(t, err)
	r2, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, r1.Raw, 64) // 32 random bytes, hex encoded
	assert.NotEqual(t, r1.Raw, r2.Raw)
	assert.Equal(t, HashRefreshRaw(r1.Raw), HashRefreshRaw(r1.Raw))
	assert.NotEqual(t, HashRefreshRaw(r1.Raw), HashRefreshRaw(r2.Raw))
	assert.NotEqual(t, r1.Raw, HashRefreshRaw(r1.Raw))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Azer123456", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "Azer123456"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
