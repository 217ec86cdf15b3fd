package facility

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wlstjr1123/carebridge/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/emergency/facilities", h.ListFacilities)
	g.GET("/emergency/facilities/:id", h.GetFacility)
	g.GET("/emergency/regions", h.Regions)
	g.GET("/emergency/sigungu", h.Sigungu)
}

// ListFacilities serves a paginated facility directory, optionally scoped to
// a region (?sido=...&sigungu=...).
func (h *Handler) ListFacilities(c echo.Context) error {
	filter := RegionFilter{
		Sido:    c.QueryParam("sido"),
		Sigungu: c.QueryParam("sigungu"),
	}

	items, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "facility lookup failed")
	}

	p := pagination.FromContext(c)
	total := len(items)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], total, p.Limit, p.Offset))
}

// GetFacility serves the detail modal payload.
func (h *Handler) GetFacility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid facility id")
	}

	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "facility not found")
	}
	return c.JSON(http.StatusOK, detail)
}

// Regions serves the full sido to sigungu dictionary for the region picker.
func (h *Handler) Regions(c echo.Context) error {
	dict, err := h.svc.Regions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "region lookup failed")
	}
	return c.JSON(http.StatusOK, dict)
}

// Sigungu serves the district list for one sido (?sido=...).
func (h *Handler) Sigungu(c echo.Context) error {
	sido := c.QueryParam("sido")
	if sido == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sido is required")
	}

	list, err := h.svc.Sigungu(c.Request().Context(), sido)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "sigungu lookup failed")
	}
	if list == nil {
		list = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sido": NormalizeSido(sido), "sigungu": list})
}
