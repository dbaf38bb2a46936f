package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cr3t!!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cr3t!!", hash)
	require.True(t, VerifyPassword(hash, "s3cr3t!!"))
	require.False(t, VerifyPassword(hash, "wrong"))
}

func TestVerifyPasswordBadHash(t *testing.T) {
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "whatever"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	h1, err := HashPassword("same-input-11!", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-input-11!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
