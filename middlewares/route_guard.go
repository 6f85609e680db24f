// file: middlewares/route_guard.go
package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JuanSign/iecom-itb/services"
)

var (
	protectedRoutes = []string{"/dashboard"}
	authRoutes      = []string{"/register", "/login"}

	// Fail closed: page paths outside this list bounce to registration
	// regardless of session state.
	allowedPaths = []string{"/register", "/dashboard"}

	// API and asset paths are exempt from the page guard; the API enforces
	// its own authentication via SessionRequired.
	guardExemptPrefixes = []string{"/api", "/static", "/favicon.ico"}
)

// RouteGuard classifies every page path as protected, auth-only or neither,
// and redirects accordingly: unauthenticated visitors away from protected
// pages, authenticated visitors away from the auth pages.
func RouteGuard(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, prefix := range guardExemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		validSession := false
		if token, err := c.Cookie(services.SessionCookieName); err == nil && token != "" {
			if _, err := sessions.Verify(token); err == nil {
				validSession = true
			}
		}

		if hasAnyPrefix(path, protectedRoutes) && !validSession {
			c.Redirect(http.StatusFound, "/register")
			c.Abort()
			return
		}

		if hasAnyPrefix(path, authRoutes) && validSession {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}

		if !hasAnyPrefix(path, allowedPaths) {
			c.Redirect(http.StatusFound, "/register")
			c.Abort()
			return
		}

		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
