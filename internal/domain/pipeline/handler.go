package pipeline

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wlstjr1123/carebridge/internal/platform/auth"
	"github.com/wlstjr1123/carebridge/internal/platform/location"
	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/emergency", h.List)
	g.POST("/save_location", h.SaveLocation)
}

// List serves the ranked emergency room list for the current session. A
// fresh browser fix rides in on the X-User-Lat/X-User-Lng headers and takes
// precedence over the session-cached one; coordinates never travel in the
// query string.
func (h *Handler) List(c echo.Context) error {
	sid := session.FromContext(c)

	var userID *uuid.UUID
	if id, ok := auth.UserID(c); ok {
		userID = &id
	}

	view, err := h.svc.Build(c.Request().Context(), sid, userID, headerFix(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "emergency list failed")
	}
	return c.JSON(http.StatusOK, view)
}

// headerFix reads the location headers, nil when absent or malformed.
func headerFix(c echo.Context) *location.Fix {
	latStr := c.Request().Header.Get("X-User-Lat")
	lngStr := c.Request().Header.Get("X-User-Lng")
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return &location.Fix{Lat: lat, Lng: lng, CapturedAt: time.Now()}
}

type saveLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SaveLocation mirrors the browser's geolocation fix into the session so
// follow-up requests rank by proximity without coordinates in the URL.
func (h *Handler) SaveLocation(c echo.Context) error {
	var req saveLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return echo.NewHTTPError(http.StatusBadRequest, "coordinates out of range")
	}

	h.svc.SaveLocation(c.Request().Context(), session.FromContext(c), &location.Fix{
		Lat:        req.Lat,
		Lng:        req.Lng,
		CapturedAt: time.Now(),
	})
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
