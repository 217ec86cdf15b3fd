package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName carries the login token. The portal works logged out; the
// cookie is simply absent then.
const CookieName = "cb_auth"

const userIDContextKey = "auth.user_id"

// Middleware resolves the login cookie into a user ID when present.
// Invalid or expired tokens are treated as logged out, never as errors.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				if claims, err := issuer.Parse(cookie.Value); err == nil {
					if id, err := uuid.Parse(claims.UserID); err == nil {
						c.Set(userIDContextKey, id)
					}
				}
			}
			return next(c)
		}
	}
}

// RequireLogin rejects anonymous requests with the fixed payload the
// front end keys its login prompt on.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := UserID(c); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"ok":    false,
				"error": "login_required",
			})
		}
		return next(c)
	}
}

// UserID returns the authenticated user, if any.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDContextKey).(uuid.UUID)
	return id, ok
}
