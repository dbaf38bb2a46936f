// Package service holds the business logic between handlers and the
// repositories.
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/iliyamo/shoply/internal/repository"
	"github.com/iliyamo/shoply/internal/utils"
)

// Failure taxonomy for credential verification. Handlers surface
// ErrUserNotFound and ErrIncorrectPassword to clients as one generic
// invalid-credentials answer so account existence cannot be probed; the
// distinct values exist for server-side logs and tests.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrRoleMismatch       = errors.New("role mismatch")
)

// Identity is the claim returned by a successful authentication. It feeds
// directly into session token issuance.
type Identity struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthService verifies an email/password/claimed-role triple against the
// user directory.
type AuthService struct {
	users repository.UserStore
}

func NewAuthService(users repository.UserStore) *AuthService {
	return &AuthService{users: users}
}

// Authenticate runs the credential checks in order: presence, lookup,
// password, claimed role. The role check stops a user account from minting
// an admin session by picking "admin" on the login form. Nothing is
// mutated until every check has passed; on success the login telemetry
// (login_count, is_online, last_login) is recorded best-effort.
func (s *AuthService) Authenticate(ctx context.Context, email, password, role string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || role == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrIncorrectPassword
	}
	if u.Role != role {
		return nil, ErrRoleMismatch
	}

	// Telemetry failures never fail a verified login.
	if err := s.users.RecordLogin(ctx, u.ID); err != nil {
		log.Printf("auth: record login for user %d failed: %v", u.ID, err)
	}

	return &Identity{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}, nil
}
