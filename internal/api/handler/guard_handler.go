package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// GuardHandler implements the page guard protocol: evaluate, unlock,
// cancel.
type GuardHandler struct {
	access ports.AccessService
}

func NewGuardHandler(access ports.AccessService) *GuardHandler {
	return &GuardHandler{access: access}
}

// Evaluate handles GET /v1/pages/:page_id/access. An insufficient tier
// opens (or returns the existing) challenge for the page.
//
// @Summary      Evaluate access to a page
// @Tags         guard
// @Produce      json
// @Security     BearerAuth
// @Param        page_id  path      string  true  "Page identifier"
// @Success      200      {object}  ports.PageAccess
// @Failure      401      {object}  errorResponse
// @Router       /v1/pages/{page_id}/access [get]
func (h *GuardHandler) Evaluate(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	decision := h.access.EvaluatePage(sessionID, c.Param("page_id"))
	return c.JSON(http.StatusOK, decision)
}

// Unlock handles POST /v1/pages/:page_id/unlock — one password submission
// against the page's challenge.
//
// @Summary      Submit a password for a page challenge
// @Tags         guard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        page_id  path      string         true  "Page identifier"
// @Param        body     body      unlockRequest  true  "Step-up password"
// @Success      200      {object}  unlockResponse
// @Failure      401      {object}  unlockResponse
// @Failure      429      {object}  unlockResponse
// @Router       /v1/pages/{page_id}/unlock [post]
func (h *GuardHandler) Unlock(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req unlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.access.SubmitPassword(sessionID, c.Param("page_id"), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrChallengeLocked) {
			retry := int(result.RetryAfter.Seconds() + 0.5)
			c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
			return c.JSON(http.StatusTooManyRequests, unlockResponse{
				Locked:     true,
				RetryAfter: retry,
			})
		}
		return err
	}

	if result.Granted {
		tier := h.access.CurrentTier(sessionID)
		return c.JSON(http.StatusOK, unlockResponse{
			Granted:     true,
			CurrentTier: tier.String(),
		})
	}

	resp := unlockResponse{
		AttemptsLeft: result.AttemptsLeft,
		Locked:       result.Locked,
	}
	if result.Locked {
		resp.RetryAfter = int(result.RetryAfter.Seconds() + 0.5)
	}
	return c.JSON(http.StatusUnauthorized, resp)
}

// Cancel handles DELETE /v1/pages/:page_id/unlock — discards the page's
// challenge without rendering anything.
//
// @Summary      Cancel a page challenge
// @Tags         guard
// @Security     BearerAuth
// @Param        page_id  path  string  true  "Page identifier"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/pages/{page_id}/unlock [delete]
func (h *GuardHandler) Cancel(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	h.access.CancelChallenge(sessionID, c.Param("page_id"))
	return c.NoContent(http.StatusNoContent)
}
