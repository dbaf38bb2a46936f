package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/shoply/internal/mailer"
	"github.com/iliyamo/shoply/internal/repository"
	"github.com/iliyamo/shoply/internal/utils"
)

// ErrDelivery marks a reset request that failed only because the email
// could not be sent. It is kept distinct from a missing account so
// operators can tell a transport outage from a bad address.
var ErrDelivery = errors.New("reset email delivery failed")

// ResetService drives the password-reset token lifecycle: mint, persist,
// email, consume.
type ResetService struct {
	users      repository.UserStore
	tokens     repository.ResetTokenStore
	mail       mailer.Mailer
	baseURL    string
	ttl        time.Duration
	bcryptCost int
}

func NewResetService(users repository.UserStore, tokens repository.ResetTokenStore, mail mailer.Mailer, baseURL string, ttlMin, bcryptCost int) *ResetService {
	return &ResetService{
		users:      users,
		tokens:     tokens,
		mail:       mail,
		baseURL:    baseURL,
		ttl:        time.Duration(ttlMin) * time.Minute,
		bcryptCost: bcryptCost,
	}
}

// Request mints a token for the account behind email, stores it with a
// fixed expiry window and emails a reset link. A second request for the
// same email mints an independent token; earlier ones stay valid until
// their own expiry. Returns ErrUserNotFound for unknown accounts and
// ErrDelivery when the mail transport fails after the token was stored.
func (s *ResetService) Request(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	token, err := utils.NewResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.ttl)
	if err := s.tokens.Insert(ctx, u.ID, token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	html := fmt.Sprintf(
		"<h2>Password Reset Request</h2><p>Hello %s,</p><p>Click below to reset your password (valid %d minutes):</p><a href=%q>%s</a>",
		u.Username, int(s.ttl.Minutes()), resetURL, resetURL)
	if err := s.mail.Send(u.Email, "Password Reset Request", html); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// Consume redeems a token and sets the new password. The caller validates
// password strength first; this method hashes and hands both mutations to
// the store as one unit. A second call with the same token, or any call
// past the expiry window, returns repository.ErrTokenInvalid.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) error {
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	_, err = s.tokens.Consume(ctx, token, hash)
	return err
}
