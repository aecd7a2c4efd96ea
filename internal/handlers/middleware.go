package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/auth"
)

const sessionContextKey = "session"

// RequireSession resolves the bearer token into a Session and checks the
// required capability. The session is attached to the echo context for the
// handler.
func RequireSession(svc *auth.Service, perm auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				return c.JSON(http.StatusUnauthorized, errResponse{"error", "missing session token"})
			}
			sess, err := svc.Resume(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errResponse{"error", "invalid session"})
			}
			if !sess.Can(perm) {
				return c.JSON(http.StatusForbidden, errResponse{"error", "insufficient permissions"})
			}
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// SessionFromContext returns the session attached by RequireSession, or nil.
func SessionFromContext(c echo.Context) *auth.Session {
	if s, ok := c.Get(sessionContextKey).(*auth.Session); ok {
		return s
	}
	return nil
}
