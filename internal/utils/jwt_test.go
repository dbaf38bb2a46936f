package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken(testSecret, 42, "admin", 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseSessionToken(testSecret, tok.Token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "admin", claims.Role)
	require.WithinDuration(t, tok.Exp, claims.ExpiresAt, time.Second)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken(testSecret, 1, "user", 1)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", tok.Token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken(testSecret, 1, "user", -1)
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, tok.Token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := ParseSessionToken(testSecret, raw)
		require.ErrorIs(t, err, ErrInvalidSession, "raw=%q", raw)
	}
}

func TestSessionTokenTamperedSignature(t *testing.T) {
	tok, err := NewSessionToken(testSecret, 1, "user", 1)
	require.NoError(t, err)

	raw := tok.Token[:len(tok.Token)-3] + "abc"
	if raw == tok.Token {
		raw = tok.Token[:len(tok.Token)-3] + "cba"
	}
	_, err = ParseSessionToken(testSecret, raw)
	require.ErrorIs(t, err, ErrInvalidSession)
}
