package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/shoply/internal/mocks"
	"github.com/iliyamo/shoply/internal/model"
	"github.com/iliyamo/shoply/internal/repository"
	"github.com/iliyamo/shoply/internal/utils"
)

func newResetFixture(t *testing.T, ttlMin int) (*ResetService, *mocks.UserStore, *mocks.ResetTokenStore, *mocks.Mailer, uint64) {
	t.Helper()
	users := mocks.NewUserStore()
	tokens := mocks.NewResetTokenStore(users)
	mail := &mocks.Mailer{}
	id := seedUser(t, users, "a@example.com", "old-pw-11!", model.RoleUser)
	svc := NewResetService(users, tokens, mail, "http://localhost:8080", ttlMin, bcrypt.MinCost)
	return svc, users, tokens, mail, id
}

// tokenFromMail pulls the opaque token out of the reset link.
func tokenFromMail(t *testing.T, html string) string {
	t.Helper()
	i := strings.Index(html, "token=")
	require.GreaterOrEqual(t, i, 0, "mail body must carry a reset link")
	rest := html[i+len("token="):]
	if j := strings.IndexAny(rest, `"<`); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func TestRequestStoresTokenAndMailsLink(t *testing.T) {
	svc, _, tokens, mail, _ := newResetFixture(t, 15)

	require.NoError(t, svc.Request(context.Background(), "a@example.com"))
	require.Equal(t, 1, tokens.Count())
	require.Len(t, mail.Sent, 1)
	require.Equal(t, "a@example.com", mail.Sent[0].To)
	require.Contains(t, mail.Sent[0].HTML, "/reset-password?token=")
}

func TestRequestUnknownEmail(t *testing.T) {
	svc, _, tokens, mail, _ := newResetFixture(t, 15)

	err := svc.Request(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Zero(t, tokens.Count())
	require.Empty(t, mail.Sent)
}

func TestRequestDeliveryFailure(t *testing.T) {
	svc, _, tokens, mail, _ := newResetFixture(t, 15)
	mail.Err = errors.New("smtp refused")

	err := svc.Request(context.Background(), "a@example.com")
	require.ErrorIs(t, err, ErrDelivery)
	// The token was already persisted when delivery failed.
	require.Equal(t, 1, tokens.Count())
}

func TestConsumeIsSingleUse(t *testing.T) {
	svc, users, _, mail, id := newResetFixture(t, 15)
	require.NoError(t, svc.Request(context.Background(), "a@example.com"))
	token := tokenFromMail(t, mail.Sent[0].HTML)

	require.NoError(t, svc.Consume(context.Background(), token, "new-pw-22!"))
	u, err := users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "new-pw-22!"))
	require.False(t, utils.VerifyPassword(u.PasswordHash, "old-pw-11!"))

	// The same token is gone after the first redemption.
	err = svc.Consume(context.Background(), token, "third-pw-33!")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)
}

func TestConsumeExpiredToken(t *testing.T) {
	svc, users, _, mail, id := newResetFixture(t, -1) // already past expiry when stored
	require.NoError(t, svc.Request(context.Background(), "a@example.com"))
	token := tokenFromMail(t, mail.Sent[0].HTML)

	err := svc.Consume(context.Background(), token, "new-pw-22!")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)

	u, getErr := users.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "old-pw-11!"), "expired token must not change the password")
}

func TestConsumeExpiryBoundary(t *testing.T) {
	svc, _, tokens, _, id := newResetFixture(t, 15)
	now := time.Now().UTC()

	// One second inside the window redeems; one second past it does not.
	require.NoError(t, tokens.Insert(context.Background(), id, "almost-expired", now.Add(time.Second)))
	require.NoError(t, svc.Consume(context.Background(), "almost-expired", "new-pw-22!"))

	require.NoError(t, tokens.Insert(context.Background(), id, "just-expired", now.Add(-time.Second)))
	err := svc.Consume(context.Background(), "just-expired", "new-pw-33!")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)
}

func TestRepeatedRequestsMintIndependentTokens(t *testing.T) {
	svc, _, tokens, mail, _ := newResetFixture(t, 15)

	require.NoError(t, svc.Request(context.Background(), "a@example.com"))
	require.NoError(t, svc.Request(context.Background(), "a@example.com"))
	require.Len(t, mail.Sent, 2)

	t1 := tokenFromMail(t, mail.Sent[0].HTML)
	t2 := tokenFromMail(t, mail.Sent[1].HTML)
	require.NotEqual(t, t1, t2)
	require.Equal(t, 2, tokens.Count())

	// Consuming the newer token leaves the older one redeemable.
	require.NoError(t, svc.Consume(context.Background(), t2, "new-pw-22!"))
	require.NoError(t, svc.Consume(context.Background(), t1, "new-pw-33!"))
}
