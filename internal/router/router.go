package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/shoply/internal/config"
	"github.com/iliyamo/shoply/internal/handler"
	"github.com/iliyamo/shoply/internal/middleware"
	"github.com/iliyamo/shoply/internal/model"
)

// Deps carries everything route registration needs: handlers, the session
// secret for the auth middleware, and the rate-limit/cache middlewares
// built in main (nil-safe: a disabled limiter is just a pass-through).
type Deps struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Product *handler.ProductHandler
	Secret  string
	Limiter echo.MiddlewareFunc
	Cache   echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Unauthenticated
// operations live under /auth; session-bound endpoints apply SessionAuth
// and, where needed, RequireRole.
func RegisterAuth(e *echo.Echo, d Deps) {
	g := e.Group("/auth")
	if d.Limiter != nil {
		// Credential and reset endpoints are the brute-force surface.
		g.Use(d.Limiter)
	}
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)
	g.POST("/forgot-password", d.Auth.ForgotPassword)
	g.POST("/reset-password", d.Auth.ResetPassword)

	auth := e.Group("/auth")
	auth.Use(middleware.SessionAuth(d.Secret))
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me)
	auth.PUT("/username", d.Auth.UpdateUsername)
	auth.PUT("/update-password", d.Auth.UpdatePassword)
	auth.GET("/allusers", d.Auth.AllUsers, middleware.RequireRole(model.RoleAdmin))
}

// RegisterProfile registers the profile endpoints. All of them operate on
// the session's own row, so SessionAuth is the only gate.
func RegisterProfile(e *echo.Echo, d Deps) {
	g := e.Group("/profile")
	g.Use(middleware.SessionAuth(d.Secret))
	g.GET("/me", d.Profile.Me)
	g.PUT("/me", d.Profile.Upsert)
	g.POST("/avatar", d.Profile.Avatar)
}

// RegisterProducts registers the catalog. Reads are public (and cached when
// Redis is up); mutations are admin-only.
func RegisterProducts(e *echo.Echo, d Deps) {
	reads := e.Group("/api/products")
	if d.Cache != nil {
		reads.Use(d.Cache)
	}
	reads.GET("", d.Product.List)
	reads.GET("/:id", d.Product.Get)

	admin := e.Group("/api/products")
	admin.Use(middleware.SessionAuth(d.Secret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("", d.Product.Create)
	admin.PUT("/:id", d.Product.Update)
	admin.DELETE("/:id", d.Product.Delete)
}

// RegisterContact registers the contact form, reserved for signed-in
// regular users.
func RegisterContact(e *echo.Echo, d Deps) {
	e.POST("/api/contact", handler.Contact,
		middleware.SessionAuth(d.Secret),
		middleware.RequireRole(model.RoleUser))
}

// Apply wires the page-level route guard plus every endpoint group.
func Apply(e *echo.Echo, cfg config.Config, d Deps) {
	e.Pre(middleware.RouteGuard(cfg.JWTSecret))
	RegisterRoutes(e)
	RegisterAuth(e, d)
	RegisterProfile(e, d)
	RegisterProducts(e, d)
	RegisterContact(e, d)
}
