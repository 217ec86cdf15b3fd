package favorite

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wlstjr1123/carebridge/internal/platform/auth"
	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/favorites/toggle", h.Toggle, auth.RequireLogin)
	g.GET("/favorites", h.List, auth.RequireLogin)
	g.PUT("/favorites/:id/memo", h.UpdateMemo, auth.RequireLogin)
	g.DELETE("/favorites/:id", h.Remove, auth.RequireLogin)
}

type toggleRequest struct {
	FacilityID string `json:"facility_id" form:"er_id"`
}

// Toggle flips the bookmark state for one facility.
func (h *Handler) Toggle(c echo.Context) error {
	userID, _ := auth.UserID(c)

	var req toggleRequest
	if err := c.Bind(&req); err != nil || req.FacilityID == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"ok": false, "error": "no_er_id"})
	}
	facilityID, err := uuid.Parse(req.FacilityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"ok": false, "error": "no_er_id"})
	}

	isFavorite, err := h.svc.Toggle(c.Request().Context(), userID, facilityID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "favorite toggle failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "is_favorite": isFavorite})
}

// List serves the favorites page data with distances from the cached fix.
func (h *Handler) List(c echo.Context) error {
	userID, _ := auth.UserID(c)

	entries, err := h.svc.List(c.Request().Context(), userID, session.FromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "favorite list failed")
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "favorites": entries})
}

type memoRequest struct {
	Memo string `json:"memo"`
}

// UpdateMemo replaces the memo on one bookmark.
func (h *Handler) UpdateMemo(c echo.Context) error {
	userID, _ := auth.UserID(c)

	favID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid favorite id")
	}

	var req memoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.UpdateMemo(c.Request().Context(), userID, favID, req.Memo); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "memo update failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}

// Remove deletes one bookmark.
func (h *Handler) Remove(c echo.Context) error {
	userID, _ := auth.UserID(c)

	favID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid favorite id")
	}

	if err := h.svc.Remove(c.Request().Context(), userID, favID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "favorite delete failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}
