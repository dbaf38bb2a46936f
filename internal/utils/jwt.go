package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidSession is returned for any session token that cannot be
// accepted: bad signature, malformed payload or past expiry.  Callers treat
// all of these identically to an absent token.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken represents a signed session token along with its expiry.
// The Token field contains the serialized JWT string.  Sessions are
// stateless bearer credentials: nothing is persisted server-side and
// validity is entirely determined by the signature and the embedded expiry.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// SessionClaims is the verified content of a session token.  The role is
// fixed at issuance time and is not re-checked against the user directory
// on each request; a role revoked mid-session stays effective in tokens
// already issued until they expire.
type SessionClaims struct {
    UserID    uint64
    Role      string
    IssuedAt  time.Time
    ExpiresAt time.Time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's role, and a TTL in days (default
// deployment uses 30).  The JWT carries the standard claims subject (sub),
// expiration (exp) and issued at (iat), plus the role.
func NewSessionToken(secret string, userID uint64, role string, ttlDays int) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a raw token string
// and extracts its claims.  Any failure maps to ErrInvalidSession.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSession
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, ErrInvalidSession
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil, ErrInvalidSession
    }

    out := &SessionClaims{}
    switch sub := claims["sub"].(type) {
    case float64:
        out.UserID = uint64(sub)
    default:
        return nil, ErrInvalidSession
    }
    role, ok := claims["role"].(string)
    if !ok || role == "" {
        return nil, ErrInvalidSession
    }
    out.Role = role
    if iat, ok := claims["iat"].(float64); ok {
        out.IssuedAt = time.Unix(int64(iat), 0).UTC()
    }
    if exp, ok := claims["exp"].(float64); ok {
        out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
    }
    return out, nil
}
