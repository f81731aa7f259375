package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// AccessHandler exposes the page-access configuration surface used by the
// superuser tooling.
type AccessHandler struct {
	access ports.AccessService
}

func NewAccessHandler(access ports.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// ListPages handles GET /v1/access/pages — the effective page-to-tier map.
//
// @Summary      List page access tiers
// @Tags         access
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  pageTierEntry
// @Failure      401  {object}  errorResponse
// @Router       /v1/access/pages [get]
func (h *AccessHandler) ListPages(c echo.Context) error {
	pages := h.access.Pages()

	entries := make([]pageTierEntry, 0, len(pages))
	for pageID, tier := range pages {
		entries = append(entries, pageTierEntry{
			PageID:   pageID,
			Tier:     int(tier),
			TierName: tier.String(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PageID < entries[j].PageID })

	return c.JSON(http.StatusOK, entries)
}

// SetPageTier handles PUT /v1/access/pages/:page_id. Rejected with 403
// unless the calling session currently holds the superuser tier.
//
// @Summary      Override a page's required tier
// @Tags         access
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        page_id  path      string              true  "Page identifier"
// @Param        body     body      setPageTierRequest  true  "New minimum tier"
// @Success      200      {object}  pageTierEntry
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/access/pages/{page_id} [put]
func (h *AccessHandler) SetPageTier(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req setPageTierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		return err
	}

	pageID := c.Param("page_id")
	if err := h.access.SetRequiredTier(c.Request().Context(), sessionID, pageID, tier); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pageTierEntry{
		PageID:   pageID,
		Tier:     int(tier),
		TierName: tier.String(),
	})
}
