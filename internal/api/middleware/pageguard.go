package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// PageGuard blocks a route behind the tier configured for pageID. An
// insufficient session gets 403 along with the open challenge, so the
// caller knows which tier to unlock and how many attempts remain.
func PageGuard(access ports.AccessService, pageID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, _ := c.Get("session_id").(string)
			if sessionID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
			}

			decision := access.EvaluatePage(sessionID, pageID)
			if !decision.Allowed {
				return c.JSON(http.StatusForbidden, decision)
			}
			return next(c)
		}
	}
}
