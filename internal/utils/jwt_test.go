package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "user", 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), tok.Exp, time.Minute)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.ID)
	assert.Equal(t, "user", claims.Role)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret-a", 7, "admin", 7)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret-b", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  float64(1),
		"role": "user",
		"exp":  time.Now().UTC().Add(-time.Hour).Unix(),
		"iat":  time.Now().UTC().Add(-2 * time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenMissingRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
