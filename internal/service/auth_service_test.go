package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/shoply/internal/mocks"
	"github.com/iliyamo/shoply/internal/model"
	"github.com/iliyamo/shoply/internal/utils"
)

func seedUser(t *testing.T, users *mocks.UserStore, email, password, role string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return users.Seed("tester", email, hash, role)
}

func TestAuthenticateSuccess(t *testing.T) {
	users := mocks.NewUserStore()
	id := seedUser(t, users, "a@example.com", "pw11!x", model.RoleUser)
	svc := NewAuthService(users)

	ident, err := svc.Authenticate(context.Background(), " A@Example.com ", "pw11!x", model.RoleUser)
	require.NoError(t, err)
	require.Equal(t, id, ident.ID)
	require.Equal(t, model.RoleUser, ident.Role)
	require.Equal(t, "a@example.com", ident.Email)
	require.Equal(t, 1, users.Logins[id], "successful login must be recorded")
}

func TestAuthenticateMissingFields(t *testing.T) {
	svc := NewAuthService(mocks.NewUserStore())
	for _, tc := range []struct{ email, password, role string }{
		{"", "pw", "user"},
		{"a@example.com", "", "user"},
		{"a@example.com", "pw", ""},
	} {
		_, err := svc.Authenticate(context.Background(), tc.email, tc.password, tc.role)
		require.ErrorIs(t, err, ErrMissingCredentials)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewAuthService(mocks.NewUserStore())
	_, err := svc.Authenticate(context.Background(), "ghost@example.com", "pw11!x", model.RoleUser)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	users := mocks.NewUserStore()
	id := seedUser(t, users, "a@example.com", "pw11!x", model.RoleUser)
	svc := NewAuthService(users)

	_, err := svc.Authenticate(context.Background(), "a@example.com", "different", model.RoleUser)
	require.ErrorIs(t, err, ErrIncorrectPassword)
	require.Zero(t, users.Logins[id], "failed login must not touch telemetry")
}

func TestAuthenticateRoleMismatch(t *testing.T) {
	users := mocks.NewUserStore()
	id := seedUser(t, users, "a@example.com", "pw11!x", model.RoleUser)
	svc := NewAuthService(users)

	// Correct password, but the claimed role does not match the stored one.
	_, err := svc.Authenticate(context.Background(), "a@example.com", "pw11!x", model.RoleAdmin)
	require.ErrorIs(t, err, ErrRoleMismatch)
	require.Zero(t, users.Logins[id])
}

func TestAuthenticateTelemetryFailureTolerated(t *testing.T) {
	users := mocks.NewUserStore()
	seedUser(t, users, "a@example.com", "pw11!x", model.RoleUser)
	users.RecordLoginErr = errors.New("db gone")
	svc := NewAuthService(users)

	ident, err := svc.Authenticate(context.Background(), "a@example.com", "pw11!x", model.RoleUser)
	require.NoError(t, err, "telemetry failure must not fail a verified login")
	require.NotNil(t, ident)
}
