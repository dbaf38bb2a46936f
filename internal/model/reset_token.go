package model

import "time"

// ResetToken models an entry in the `reset_tokens` table.  A token is a
// single-use password-recovery grant: valid while the row exists and
// expires_at lies in the future.  Consuming a token deletes its row, so a
// token string can never be honored twice.  Multiple outstanding tokens per
// user are allowed; each is honorable until its own expiry.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token, cascade-deleted with the user.
//  Token     – high-entropy random hex string, unique.
//  ExpiresAt – expiration timestamp (creation + 15 minutes).
//  CreatedAt – timestamp of creation.
type ResetToken struct {
    ID        uint64    // reset_tokens.id
    UserID    uint64    // reset_tokens.user_id
    Token     string    // reset_tokens.token
    ExpiresAt time.Time // reset_tokens.expires_at
    CreatedAt time.Time // reset_tokens.created_at
}
