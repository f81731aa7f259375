package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSessionID extracts the session key injected by the Auth middleware
// and fast-fails before any service call. An empty value means the
// middleware never ran or the token carried no subject; either way the
// request cannot be tied to an access session.
func ctxSessionID(c echo.Context) (string, error) {
	sessionID, _ := c.Get("session_id").(string)
	if sessionID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return sessionID, nil
}
