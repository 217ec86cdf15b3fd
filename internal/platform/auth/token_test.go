package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintParseRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "carebridge")
	userID := uuid.New()

	raw, err := issuer.Mint(userID, "홍길동")
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "홍길동", claims.Name)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer([]byte("secret-a"), "carebridge").Mint(uuid.New(), "")
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("secret-b"), "carebridge").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	raw, err := NewTokenIssuer([]byte("secret"), "other-service").Mint(uuid.New(), "")
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("secret"), "carebridge").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), "carebridge")
	_, err := issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareResolvesCookie(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), "carebridge")
	userID := uuid.New()
	raw, err := issuer.Mint(userID, "")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(issuer)(func(c echo.Context) error {
		got, ok := UserID(c)
		assert.True(t, ok)
		assert.Equal(t, userID, got)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
}

func TestMiddlewareIgnoresBadCookie(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), "carebridge")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(issuer)(func(c echo.Context) error {
		_, ok := UserID(c)
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
}

func TestRequireLoginRejectsAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/favorites/toggle", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireLogin(func(c echo.Context) error {
		t.Fatal("handler must not run for anonymous requests")
		return nil
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"login_required"}`, rec.Body.String())
}
