package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/shoply/internal/response"
    "github.com/iliyamo/shoply/internal/utils"
)

// sessionCookieName is the cookie the browser client keeps the session
// token in. API clients may send the same token as a Bearer header instead.
const sessionCookieName = "session"

// SessionAuth returns an Echo middleware that validates a session token and
// injects the verified claims into the request context. The provided secret
// must match the one used when issuing tokens. Handlers access the
// authenticated user via `c.Get("user_id")`, `c.Get("role")` and
// `c.Get("claims")`. An invalid or expired token is treated identically to
// an absent one: 401.
func SessionAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, err := utils.ParseSessionToken(secret, extractToken(c))
            if err != nil {
                return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
            }
            c.Set("user_id", claims.UserID)
            c.Set("role", claims.Role)
            c.Set("claims", claims)
            return next(c)
        }
    }
}

// extractToken pulls the raw token from the Authorization header or, when
// absent, from the session cookie. Returns "" when neither is present.
func extractToken(c echo.Context) string {
    if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    if ck, err := c.Cookie(sessionCookieName); err == nil && ck.Value != "" {
        return ck.Value
    }
    return ""
}

// CurrentUserID extracts the authenticated user id stored by SessionAuth.
// The boolean is false when the request carried no valid session.
func CurrentUserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get("user_id").(uint64)
    return id, ok
}
