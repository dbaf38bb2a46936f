package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // sentinel error matching
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/shoply/internal/config"     // app configuration
    "github.com/iliyamo/shoply/internal/middleware" // session identity helpers
    "github.com/iliyamo/shoply/internal/model"      // table row types
    "github.com/iliyamo/shoply/internal/repository" // DB repositories
    "github.com/iliyamo/shoply/internal/response"   // uniform API envelope
    "github.com/iliyamo/shoply/internal/service"    // credential and reset flows
    "github.com/iliyamo/shoply/internal/utils"      // hashing and token issuing
    "github.com/iliyamo/shoply/internal/validator"  // boundary input rules
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg   config.Config
    Users repository.UserStore
    Auth  *service.AuthService
    Reset *service.ResetService
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, auth *service.AuthService, reset *service.ResetService) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: users, Auth: auth, Reset: reset}
}

// ----- DTOs -----

type registerReq struct {
    Username    string `json:"username"`
    Email       string `json:"email"`
    Password    string `json:"password"`
    Role        string `json:"role"` // user | admin
    AdminSecret string `json:"adminSecret"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"`
}
type usernameReq struct {
    Username string `json:"username"`
}
type updatePasswordReq struct {
    Password    string `json:"password"`
    NewPassword string `json:"newPassword"`
}
type forgotPasswordReq struct {
    Email string `json:"email"`
}
type resetPasswordReq struct {
    Token       string `json:"token"`
    NewPassword string `json:"newPassword"`
}

type loginResp struct {
    Token string           `json:"token"`
    User  service.Identity `json:"user"`
}

// Register creates a user account. Admin accounts additionally require the
// shared admin secret; a wrong secret is a distinct 403.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
        return response.Fail(c, http.StatusBadRequest, "All fields are required.")
    }
    if check := validator.ValidateEmail(req.Email); !check.Valid {
        return response.Fail(c, http.StatusBadRequest, check.Message)
    }
    if check := validator.ValidatePassword(req.Password); !check.Valid {
        return response.Fail(c, http.StatusBadRequest, check.Message)
    }

    role := model.RoleUser
    if req.Role == model.RoleAdmin {
        if req.AdminSecret == "" {
            return response.Fail(c, http.StatusBadRequest, "Admin secret key is required for admin registration")
        }
        if req.AdminSecret != h.Cfg.AdminSecretKey {
            return response.Fail(c, http.StatusForbidden, "Invalid admin secret key")
        }
        role = model.RoleAdmin
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return h.internal(c, "Failed to register user", err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, role)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return response.Fail(c, http.StatusBadRequest, "User already exists with the same email")
        }
        return h.internal(c, "Failed to register user", err)
    }
    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return h.internal(c, "Failed to register user", err)
    }
    return response.OK(c, http.StatusCreated, "User registered successfully", u.Safe())
}

// Login exchanges credentials for a session token. Missing-account and
// wrong-password rejections share one client-facing message; the specific
// reason only reaches the server log.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ident, err := h.Auth.Authenticate(ctx, req.Email, req.Password, req.Role)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrMissingCredentials):
            return response.Fail(c, http.StatusBadRequest, "Email, password and role are required.")
        case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrIncorrectPassword):
            c.Logger().Warnf("login rejected for %s: %v", req.Email, err)
            return response.Fail(c, http.StatusUnauthorized, "Invalid credentials")
        case errors.Is(err, service.ErrRoleMismatch):
            c.Logger().Warnf("login rejected for %s: claimed role %q", req.Email, req.Role)
            return response.Fail(c, http.StatusForbidden, "Invalid credentials for the selected role")
        default:
            return h.internal(c, "Login failed", err)
        }
    }

    tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, ident.ID, ident.Role, h.Cfg.SessionTTLDays)
    if err != nil {
        return h.internal(c, "Login failed", err)
    }
    c.SetCookie(&http.Cookie{
        Name:     "session",
        Value:    tok.Token,
        Path:     "/",
        Expires:  tok.Exp,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
    return response.OK(c, http.StatusOK, "Logged in successfully", loginResp{Token: tok.Token, User: *ident})
}

// Logout clears the session cookie and best-effort marks the user offline.
// Tokens held by other clients stay valid until they expire; there is no
// server-side revocation list.
func (h *AuthHandler) Logout(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Users.MarkOffline(ctx, uid); err != nil {
        c.Logger().Warnf("logout: mark offline for user %d failed: %v", uid, err)
    }

    c.SetCookie(&http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
    return response.OK(c, http.StatusOK, "Logged out", nil)
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if errors.Is(err, repository.ErrNotFound) {
        return response.Fail(c, http.StatusNotFound, "User not found")
    }
    if err != nil {
        return h.internal(c, "Failed to fetch user", err)
    }
    return response.OK(c, http.StatusOK, "Authorized", u.Safe())
}

// AllUsers lists every account for the admin user screen.
func (h *AuthHandler) AllUsers(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Users.GetAll(ctx)
    if err != nil {
        return h.internal(c, "Failed to fetch users", err)
    }
    if len(users) == 0 {
        return response.Fail(c, http.StatusNotFound, "No users found")
    }
    safe := make([]model.SafeUser, 0, len(users))
    for i := range users {
        safe = append(safe, users[i].Safe())
    }
    return response.OK(c, http.StatusOK, "Users fetched successfully", safe)
}

// UpdateUsername changes the display name of the session's own account.
// The target id always comes from the session, never from the body.
func (h *AuthHandler) UpdateUsername(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }
    var req usernameReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" {
        return response.Fail(c, http.StatusBadRequest, "Please provide a username to be updated.")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.UpdateUsername(ctx, uid, req.Username)
    if err != nil {
        return h.internal(c, "Failed to update username", err)
    }
    return response.OK(c, http.StatusOK, "Username updated successfully.", u.Safe())
}

// UpdatePassword re-verifies the current password before accepting a new
// one, then stamps password_changed_at.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }
    var req updatePasswordReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    if req.Password == "" || req.NewPassword == "" {
        return response.Fail(c, http.StatusBadRequest, "Both fields are required")
    }
    if check := validator.ValidatePassword(req.NewPassword); !check.Valid {
        return response.Fail(c, http.StatusBadRequest, check.Message)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if errors.Is(err, repository.ErrNotFound) {
        return response.Fail(c, http.StatusNotFound, "User not found")
    }
    if err != nil {
        return h.internal(c, "Failed to update password", err)
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return response.Fail(c, http.StatusBadRequest, "Current password is wrong")
    }

    hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
    if err != nil {
        return h.internal(c, "Failed to update password", err)
    }
    updated, err := h.Users.UpdatePassword(ctx, uid, hash)
    if err != nil {
        return h.internal(c, "Failed to update password", err)
    }
    return response.OK(c, http.StatusOK, "Password updated successfully", updated.Safe())
}

// ForgotPassword mints and emails a reset token. An unknown address is a
// 404 by contract; a mail transport failure is a distinct 500 so operators
// can tell the two apart.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
    var req forgotPasswordReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" {
        return response.Fail(c, http.StatusBadRequest, "Email is required")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    err := h.Reset.Request(ctx, req.Email)
    switch {
    case errors.Is(err, service.ErrUserNotFound):
        return response.Fail(c, http.StatusNotFound, "No account found")
    case errors.Is(err, service.ErrDelivery):
        return h.internal(c, "Failed to send reset email", err)
    case err != nil:
        return h.internal(c, "Failed to send reset email", err)
    }
    return response.OK(c, http.StatusOK, "Password reset email sent successfully", nil)
}

// ResetPassword consumes a reset token. Validation runs before any store
// mutation; an absent, expired or already-used token yields one answer.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
    var req resetPasswordReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    if req.Token == "" || req.NewPassword == "" {
        return response.Fail(c, http.StatusBadRequest, "Missing fields")
    }
    if check := validator.ValidatePassword(req.NewPassword); !check.Valid {
        return response.Fail(c, http.StatusBadRequest, check.Message)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    err := h.Reset.Consume(ctx, req.Token, req.NewPassword)
    if errors.Is(err, repository.ErrTokenInvalid) {
        return response.Fail(c, http.StatusBadRequest, "Invalid or expired token")
    }
    if err != nil {
        return h.internal(c, "Password reset failed", err)
    }
    return response.OK(c, http.StatusOK, "Password updated successfully", nil)
}

// internal logs the underlying error server-side and answers with a fixed
// message; raw error text never reaches the client.
func (h *AuthHandler) internal(c echo.Context, msg string, err error) error {
    c.Logger().Errorf("%s: %v", msg, err)
    return response.Fail(c, http.StatusInternalServerError, msg)
}

// reqCtx bounds handler DB work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
