package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders sets the fixed security response headers. The portal's
// front end needs the geolocation permission for the nearest-ER feature, so
// Permissions-Policy grants it to same origin only.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "same-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(self)")

			// Bed availability is near-real-time; never let an intermediary
			// serve a stale list.
			h.Set("Cache-Control", "no-store")

			return next(c)
		}
	}
}
