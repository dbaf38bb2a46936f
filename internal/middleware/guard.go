package middleware

// The route guard intercepts page navigation before any handler runs. It
// classifies the requested path, checks the session token, and either lets
// the request through or answers with a redirect. Decide is a pure function
// of (path, claims) so the full precedence table is unit-testable; the
// Echo wrapper only extracts and parses the token. The guard performs no
// database I/O: it trusts the role claim baked into the token at issuance.

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shoply/internal/model"
    "github.com/iliyamo/shoply/internal/utils"
)

// Decision is the outcome of classifying one request.
type Decision struct {
    Allow  bool   // pass the request through unmodified
    Target string // redirect target when Allow is false
}

var (
    allow    = Decision{Allow: true}
    redirect = func(target string) Decision { return Decision{Target: target} }
)

// publicPaths need no session: the auth forms plus product browsing.
var publicPaths = map[string]bool{
    "/login":           true,
    "/register":        true,
    "/forgot-password": true,
    "/reset-password":  true,
}

const productsPrefix = "/products"

// adminPrefixes are reachable only with an admin session.
var adminPrefixes = []string{"/dashboard", "/users", "/reports", "/add-product", "/all-products"}

// userPrefixes are reachable only with a user session; admins are sent to
// their dashboard instead.
var userPrefixes = []string{"/contact"}

// guardedPaths is the matcher: the guard only acts on these path roots,
// everything else passes through untouched. /profile is listed because it
// needs a session, though both roles may open it.
var guardedPaths = []string{
    "/login", "/register", "/forgot-password", "/reset-password",
    "/dashboard", "/users", "/reports", "/add-product", "/all-products",
    "/products", "/contact", "/profile",
}

// Decide classifies a path against the session claims (nil when no valid
// token accompanied the request). The checks run in fixed precedence
// order; the first match wins.
func Decide(path string, claims *utils.SessionClaims) Decision {
    isPublic := publicPaths[path] || strings.HasPrefix(path, productsPrefix)

    // An authenticated user has no business on the auth forms; send them
    // to their landing page. Product browsing is exempt from this rule.
    if isPublic && claims != nil && !strings.HasPrefix(path, productsPrefix) {
        return redirect(landingPage(claims.Role))
    }

    // Product browsing is a user-facing surface; admins manage the catalog
    // from the dashboard instead.
    if strings.HasPrefix(path, productsPrefix) && claims != nil && claims.Role == model.RoleAdmin {
        return redirect("/dashboard")
    }

    if !isPublic && claims == nil {
        return redirect("/login")
    }

    if hasAnyPrefix(path, adminPrefixes) && claims.Role != model.RoleAdmin {
        return redirect("/")
    }

    if hasAnyPrefix(path, userPrefixes) && claims.Role != model.RoleUser {
        return redirect("/dashboard")
    }

    return allow
}

// landingPage is where each role ends up after authentication.
func landingPage(role string) string {
    if role == model.RoleAdmin {
        return "/dashboard"
    }
    return "/"
}

func hasAnyPrefix(path string, prefixes []string) bool {
    for _, p := range prefixes {
        if strings.HasPrefix(path, p) {
            return true
        }
    }
    return false
}

// RouteGuard returns the Echo middleware applying Decide to every request
// whose path the guard watches. Registered with e.Pre so it runs before
// routing and before any handler touches a store. Guard outcomes are
// never errors: either the request proceeds or the client is redirected.
func RouteGuard(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            path := c.Request().URL.Path
            if !hasAnyPrefix(path, guardedPaths) {
                return next(c)
            }
            // A token that fails to parse counts as absent.
            claims, err := utils.ParseSessionToken(secret, extractToken(c))
            if err != nil {
                claims = nil
            }
            if d := Decide(path, claims); !d.Allow {
                return c.Redirect(http.StatusFound, d.Target)
            }
            return next(c)
        }
    }
}
