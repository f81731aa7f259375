package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// SessionHandler exposes the per-session tier state machine.
type SessionHandler struct {
	access ports.AccessService
}

func NewSessionHandler(access ports.AccessService) *SessionHandler {
	return &SessionHandler{access: access}
}

// Current handles GET /v1/session.
//
// @Summary      Get the current session tier
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	tier := h.access.CurrentTier(sessionID)
	return c.JSON(http.StatusOK, sessionResponse{Tier: int(tier), TierName: tier.String()})
}

// Downgrade handles POST /v1/session/downgrade. No password needed;
// lowering privileges is always free.
//
// @Summary      Downgrade the session tier
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      downgradeRequest  true  "Target tier"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/session/downgrade [post]
func (h *SessionHandler) Downgrade(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req downgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	target, err := domain.ParseTier(req.Tier)
	if err != nil {
		return err
	}
	if err := h.access.Downgrade(sessionID, target); err != nil {
		return err
	}

	tier := h.access.CurrentTier(sessionID)
	return c.JSON(http.StatusOK, sessionResponse{Tier: int(tier), TierName: tier.String()})
}

// Reset handles POST /v1/session/reset — the logout path, forcing the
// session back to the doctor tier.
//
// @Summary      Reset the session tier
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/session/reset [post]
func (h *SessionHandler) Reset(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	h.access.Reset(sessionID)
	tier := h.access.CurrentTier(sessionID)
	return c.JSON(http.StatusOK, sessionResponse{Tier: int(tier), TierName: tier.String()})
}
