package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName carries the anonymous session identifier.
const CookieName = "cb_session"

const contextKey = "session_id"

// Middleware ensures every request carries a session ID, minting a new one
// and setting the cookie when absent. The ID is exposed to handlers via
// FromContext.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
				sid = cookie.Value
			} else {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(contextKey, sid)
			return next(c)
		}
	}
}

// FromContext returns the session ID established by Middleware, or "" when
// the middleware is not installed.
func FromContext(c echo.Context) string {
	sid, _ := c.Get(contextKey).(string)
	return sid
}
