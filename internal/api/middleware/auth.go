package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/core/ports"
)

// RequireSession rejects requests while the process session is anonymous and
// injects the session user and role into the context. A bearer token, when
// sent, must be the current session token.
func RequireSession(session ports.SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := session.CurrentUser()
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
				if parts[1] != session.Token() {
					return echo.NewHTTPError(http.StatusUnauthorized, "stale session token")
				}
			}

			c.Set("user", user)
			c.Set("role", string(user.Role))

			return next(c)
		}
	}
}
