package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ResetTokenRepo persists password-reset tokens. Rows are single-use:
// consuming a token deletes it, and expiry is enforced at read time via the
// expires_at comparison, so no background sweep is required for correctness.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Insert stores a freshly minted token. Multiple outstanding tokens per
// user are allowed; each stays honorable until its own expiry.
func (r *ResetTokenRepo) Insert(ctx context.Context, userID uint64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO reset_tokens (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, expiresAt)
	return err
}

// Consume redeems a token inside one transaction: lock the unexpired row,
// delete it, then update the owning user's password hash. Deleting before
// updating means a half-applied failure can only leave the token burned,
// never reusable. Concurrent consumers serialize on the row lock; the
// loser finds no row and gets ErrTokenInvalid.
func (r *ResetTokenRepo) Consume(ctx context.Context, token, newPasswordHash string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM reset_tokens WHERE token=? AND expires_at > UTC_TIMESTAMP() FOR UPDATE",
		token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenInvalid
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM reset_tokens WHERE token=?", token)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, ErrTokenInvalid
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET password_hash=?, password_changed_at=UTC_TIMESTAMP() WHERE id=?",
		newPasswordHash, userID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return userID, nil
}

// DeleteExpired sweeps rows whose window has passed and reports how many
// were removed.
func (r *ResetTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM reset_tokens WHERE expires_at <= UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
