package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shoply/internal/model"
	"github.com/iliyamo/shoply/internal/utils"
)

func TestDecide(t *testing.T) {
	user := &utils.SessionClaims{UserID: 7, Role: model.RoleUser}
	admin := &utils.SessionClaims{UserID: 8, Role: model.RoleAdmin}

	tests := []struct {
		name   string
		path   string
		claims *utils.SessionClaims
		allow  bool
		target string
	}{
		{"guest on login form", "/login", nil, true, ""},
		{"guest on reset form", "/reset-password", nil, true, ""},
		{"guest browsing products", "/products", nil, true, ""},
		{"guest on product detail", "/products/3", nil, true, ""},
		{"guest on dashboard", "/dashboard", nil, false, "/login"},
		{"guest on users page", "/users", nil, false, "/login"},
		{"guest on contact", "/contact", nil, false, "/login"},
		{"guest on profile", "/profile", nil, false, "/login"},

		{"user back on login form", "/login", user, false, "/"},
		{"user back on register form", "/register", user, false, "/"},
		{"admin back on login form", "/login", admin, false, "/dashboard"},

		{"user browsing products", "/products", user, true, ""},
		{"admin browsing products", "/products/3", admin, false, "/dashboard"},

		{"user on dashboard", "/dashboard", user, false, "/"},
		{"user on reports", "/reports", user, false, "/"},
		{"user on add-product", "/add-product", user, false, "/"},
		{"admin on dashboard", "/dashboard", admin, true, ""},
		{"admin on all-products", "/all-products", admin, true, ""},

		{"user on contact", "/contact", user, true, ""},
		{"admin on contact", "/contact", admin, false, "/dashboard"},

		{"user on profile", "/profile", user, true, ""},
		{"admin on profile", "/profile", admin, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.path, tt.claims)
			require.Equal(t, tt.allow, d.Allow)
			if !tt.allow {
				require.Equal(t, tt.target, d.Target)
			}
		})
	}
}

func TestRouteGuard(t *testing.T) {
	const secret = "guard-secret"
	e := echo.New()
	e.Pre(RouteGuard(secret))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/dashboard", func(c echo.Context) error { return c.String(http.StatusOK, "admin home") })

	// Paths the guard does not watch pass straight through.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// No session on a guarded page redirects to login.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	// A valid admin token passes.
	tok, err := utils.NewSessionToken(secret, 1, model.RoleAdmin, 1)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// A token that fails to parse counts as no session at all.
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer nonsense")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	// The cookie is an equivalent token carrier.
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: tok.Token})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
