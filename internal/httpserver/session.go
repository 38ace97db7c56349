package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "cart_session"

// sessionToken returns the caller's cart-session token, minting a fresh one
// and setting the cookie when the browser has none yet.
func sessionToken(c echo.Context) string {
	if ck, err := c.Cookie(sessionCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}

	token := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
