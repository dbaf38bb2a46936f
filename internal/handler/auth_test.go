package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/shoply/internal/config"
	"github.com/iliyamo/shoply/internal/mocks"
	"github.com/iliyamo/shoply/internal/model"
	"github.com/iliyamo/shoply/internal/response"
	"github.com/iliyamo/shoply/internal/service"
	"github.com/iliyamo/shoply/internal/utils"
)

const testAdminSecret = "letmein"

func newAuthFixture() (*AuthHandler, *mocks.UserStore, *mocks.Mailer) {
	users := mocks.NewUserStore()
	tokens := mocks.NewResetTokenStore(users)
	mail := &mocks.Mailer{}
	cfg := config.Config{
		JWTSecret:      "handler-test-secret",
		SessionTTLDays: 1,
		ResetTTLMin:    15,
		BcryptCost:     bcrypt.MinCost,
		AdminSecretKey: testAdminSecret,
		BaseURL:        "http://localhost:8080",
	}
	auth := service.NewAuthService(users)
	reset := service.NewResetService(users, tokens, mail, cfg.BaseURL, cfg.ResetTTLMin, cfg.BcryptCost)
	return NewAuthHandler(cfg, users, auth, reset), users, mail
}

func jsonCtx(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	h, users, _ := newAuthFixture()
	c, rec := jsonCtx(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"pw11!x","role":"user"}`)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	u, err := users.GetByEmail(c.Request().Context(), "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "pw11!x", u.PasswordHash, "password must be stored hashed")

	body := rec.Body.String()
	require.NotContains(t, body, "pw11!x")
	require.NotContains(t, body, u.PasswordHash)
	require.NotContains(t, body, "passwordHash")
}

func TestRegisterAdminSecret(t *testing.T) {
	h, _, _ := newAuthFixture()

	// Missing secret for an admin account.
	c, rec := jsonCtx(http.MethodPost, "/auth/register",
		`{"username":"boss","email":"boss@example.com","password":"pw11!x","role":"admin"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong secret.
	c, rec = jsonCtx(http.MethodPost, "/auth/register",
		`{"username":"boss","email":"boss@example.com","password":"pw11!x","role":"admin","adminSecret":"nope"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Correct secret creates the admin.
	c, rec = jsonCtx(http.MethodPost, "/auth/register",
		`{"username":"boss","email":"boss@example.com","password":"pw11!x","role":"admin","adminSecret":"`+testAdminSecret+`"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, users, _ := newAuthFixture()
	users.Seed("alice", "alice@example.com", "whatever-hash", model.RoleUser)

	c, rec := jsonCtx(http.MethodPost, "/auth/register",
		`{"username":"alice2","email":"alice@example.com","password":"pw11!x","role":"user"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User already exists with the same email", decodeEnvelope(t, rec).Message)
}

func TestRegisterWeakPassword(t *testing.T) {
	h, _, _ := newAuthFixture()
	c, rec := jsonCtx(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"short","role":"user"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedAccount(t *testing.T, h *AuthHandler, users *mocks.UserStore, email, password, role string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return users.Seed("tester", email, hash, role)
}

func TestLoginIssuesSession(t *testing.T) {
	h, users, _ := newAuthFixture()
	id := seedAccount(t, h, users, "alice@example.com", "pw11!x", model.RoleUser)

	c, rec := jsonCtx(http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"pw11!x","role":"user"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// The token in the body must verify and carry the account identity.
	env := decodeEnvelope(t, rec)
	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	claims, err := utils.ParseSessionToken(h.Cfg.JWTSecret, resp.Token)
	require.NoError(t, err)
	require.Equal(t, id, claims.UserID)
	require.Equal(t, model.RoleUser, claims.Role)

	// The same token rides in an HttpOnly cookie for browser clients.
	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" {
			session = ck
		}
	}
	require.NotNil(t, session)
	require.Equal(t, resp.Token, session.Value)
	require.True(t, session.HttpOnly)
}

func TestLoginRejections(t *testing.T) {
	h, users, _ := newAuthFixture()
	seedAccount(t, h, users, "alice@example.com", "pw11!x", model.RoleUser)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"missing fields", `{"email":"alice@example.com"}`,
			http.StatusBadRequest, "Email, password and role are required."},
		{"unknown email", `{"email":"ghost@example.com","password":"pw11!x","role":"user"}`,
			http.StatusUnauthorized, "Invalid credentials"},
		{"wrong password", `{"email":"alice@example.com","password":"nope","role":"user"}`,
			http.StatusUnauthorized, "Invalid credentials"},
		{"claimed admin role", `{"email":"alice@example.com","password":"pw11!x","role":"admin"}`,
			http.StatusForbidden, "Invalid credentials for the selected role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonCtx(http.MethodPost, "/auth/login", tt.body)
			require.NoError(t, h.Login(c))
			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, tt.message, decodeEnvelope(t, rec).Message)
		})
	}
}

func TestUpdateUsernameTargetsSessionOnly(t *testing.T) {
	h, users, _ := newAuthFixture()
	id1 := seedAccount(t, h, users, "alice@example.com", "pw11!x", model.RoleUser)
	id2 := seedAccount(t, h, users, "bob@example.com", "pw22!y", model.RoleUser)

	// A spoofed id in the body must be ignored; the session decides.
	c, rec := jsonCtx(http.MethodPut, "/auth/username", `{"username":"neo","id":999,"userId":2}`)
	c.Set("user_id", id1)
	require.NoError(t, h.UpdateUsername(c))
	require.Equal(t, http.StatusOK, rec.Code)

	u1, err := users.GetByID(c.Request().Context(), id1)
	require.NoError(t, err)
	require.Equal(t, "neo", u1.Username)
	u2, err := users.GetByID(c.Request().Context(), id2)
	require.NoError(t, err)
	require.Equal(t, "tester", u2.Username)
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	h, users, _ := newAuthFixture()
	id := seedAccount(t, h, users, "alice@example.com", "pw11!x", model.RoleUser)

	c, rec := jsonCtx(http.MethodPut, "/auth/update-password",
		`{"password":"not-the-current","newPassword":"new-pw-22!"}`)
	c.Set("user_id", id)
	require.NoError(t, h.UpdatePassword(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Current password is wrong", decodeEnvelope(t, rec).Message)
}

func TestForgotPasswordUnknownAccount(t *testing.T) {
	h, _, mail := newAuthFixture()
	c, rec := jsonCtx(http.MethodPost, "/auth/forgot-password", `{"email":"ghost@example.com"}`)
	require.NoError(t, h.ForgotPassword(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, mail.Sent)
}

func TestResetPasswordWeakPasswordLeavesTokenIntact(t *testing.T) {
	h, users, mail := newAuthFixture()
	seedAccount(t, h, users, "alice@example.com", "pw11!x", model.RoleUser)

	c, rec := jsonCtx(http.MethodPost, "/auth/forgot-password", `{"email":"alice@example.com"}`)
	require.NoError(t, h.ForgotPassword(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, mail.Sent, 1)
	i := strings.Index(mail.Sent[0].HTML, "token=")
	require.GreaterOrEqual(t, i, 0)
	token := mail.Sent[0].HTML[i+len("token="):]
	if j := strings.IndexAny(token, `"<`); j >= 0 {
		token = token[:j]
	}

	// Validation rejects the weak replacement before the token is touched.
	c, rec = jsonCtx(http.MethodPost, "/auth/reset-password",
		`{"token":"`+token+`","newPassword":"short"}`)
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The same token still redeems with an acceptable password.
	c, rec = jsonCtx(http.MethodPost, "/auth/reset-password",
		`{"token":"`+token+`","newPassword":"new-pw-22!"}`)
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordBadToken(t *testing.T) {
	h, _, _ := newAuthFixture()
	c, rec := jsonCtx(http.MethodPost, "/auth/reset-password",
		`{"token":"never-issued","newPassword":"new-pw-22!"}`)
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired token", decodeEnvelope(t, rec).Message)
}
