package preference

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/preferences", h.UpdatePreferences)
	g.DELETE("/preferences/tag", h.RemoveTag)
	g.POST("/session/enter", h.EnterPage)
}

type updateRequest struct {
	Action  string            `json:"action"`
	Sido    string            `json:"sido"`
	Sigungu string            `json:"sigungu"`
	Etype   string            `json:"etype"`
	Filters map[string]string `json:"filters"`
	Sort    string            `json:"sort"`
}

// UpdatePreferences is the single mutation endpoint for all preference
// dimensions: {action: "region"|"filter"|"sort"|"reset", ...}. Every
// successful mutation marks the following reload as button-triggered so the
// reset guard leaves the new state alone.
func (h *Handler) UpdatePreferences(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	sid := session.FromContext(c)

	switch req.Action {
	case "region":
		h.svc.SetRegion(ctx, sid, req.Sido, req.Sigungu)
	case "filter":
		h.svc.SetFilter(ctx, sid, req.Etype, decodeFilters(req.Filters))
	case "sort":
		h.svc.SetSort(ctx, sid, SortMode(req.Sort))
	case "reset":
		h.svc.Reset(ctx, sid)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}

	if err := h.svc.Guard().MarkButtonReload(ctx, sid); err != nil {
		// The reload marker is advisory; a miss costs one spurious reset.
		c.Logger().Warn(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type removeTagRequest struct {
	Dimension string `json:"dimension"`
	Key       string `json:"key"`
}

// RemoveTag clears a single filter chip without touching anything else.
func (h *Handler) RemoveTag(c echo.Context) error {
	var req removeTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dim := Dimension(req.Dimension)
	switch dim {
	case DimRegion, DimType, DimEquipment, DimSort:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown dimension")
	}

	ctx := c.Request().Context()
	sid := session.FromContext(c)
	h.svc.RemoveTag(ctx, sid, dim, req.Key)

	if err := h.svc.Guard().MarkButtonReload(ctx, sid); err != nil {
		c.Logger().Warn(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type enterPageRequest struct {
	Navigation       string `json:"navigation"`
	InternalReferrer bool   `json:"internal_referrer"`
}

type enterPageResponse struct {
	Reset bool `json:"reset"`
}

// EnterPage reports whether this page entry reset the stored preferences, so
// the client can re-render from the cleared state.
func (h *Handler) EnterPage(c echo.Context) error {
	var req enterPageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	sid := session.FromContext(c)

	reset, err := h.svc.EnterPage(ctx, sid, Navigation(req.Navigation), req.InternalReferrer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, enterPageResponse{Reset: reset})
}

// decodeFilters converts the wire encoding ({"ct":"1"}) into the equipment
// set. Anything but "1" is an unselected chip.
func decodeFilters(filters map[string]string) map[string]bool {
	if filters == nil {
		return nil
	}
	eq := make(map[string]bool, len(filters))
	for k, v := range filters {
		if v == "1" {
			eq[k] = true
		}
	}
	return eq
}
