package repository

// Handlers and services depend on these capability interfaces rather than
// on the MySQL implementations, so tests can substitute in-memory fakes.

import (
	"context"
	"time"

	"github.com/iliyamo/shoply/internal/model"
)

// UserStore is the persistent user directory.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	UpdateUsername(ctx context.Context, id uint64, username string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) (*model.User, error)
	// RecordLogin increments login_count and stamps last_login/is_online
	// after a fully verified login. Telemetry only; last-writer-wins.
	RecordLogin(ctx context.Context, id uint64) error
	// MarkOffline best-effort clears the presence flag on logout.
	MarkOffline(ctx context.Context, id uint64) error
}

// ResetTokenStore persists single-use password-reset grants.
type ResetTokenStore interface {
	Insert(ctx context.Context, userID uint64, token string, expiresAt time.Time) error
	// Consume atomically deletes an unexpired token row and updates the
	// owning user's password hash. Exactly one of N concurrent calls for
	// the same token succeeds; the rest get ErrTokenInvalid.
	Consume(ctx context.Context, token, newPasswordHash string) (uint64, error)
	// DeleteExpired removes stale rows; expiry is enforced at read time,
	// so this is an operational sweep, not a correctness requirement.
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProfileStore persists the optional one-to-one user profile.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uint64) (*model.Profile, error)
	// Upsert is the single create-if-absent entry point; the explicit
	// profile form and the avatar path both go through it.
	Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error)
	SetAvatar(ctx context.Context, userID uint64, avatarURL string) (*model.Profile, error)
}

// ProductStore persists the product catalog.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	List(ctx context.Context, search string) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
}
