package utils

import (
    "crypto/rand"
    "encoding/hex"
)

// NewResetToken returns a cryptographically random token for the password
// reset flow: 32 bytes of entropy encoded as 64 hex characters.  The token
// is stored verbatim and compared at consume time, so uniqueness is also
// enforced by the reset_tokens.token unique index.
func NewResetToken() (string, error) {
    buf := make([]byte, 32)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
