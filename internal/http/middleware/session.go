package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/session"
)

// SessionHeader carries the session token for clients that do not keep cookies.
const SessionHeader = "X-Session-Token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// TokenFromRequest reads the session token from the header, falling back to the cookie.
func TokenFromRequest(c echo.Context, cookieName string) string {
	if t := strings.TrimSpace(c.Request().Header.Get(SessionHeader)); t != "" {
		return t
	}
	if ck, err := c.Cookie(cookieName); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

// SessionMiddleware admits requests that carry a live admin session.
func SessionMiddleware(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c, cookieName)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "missing session"})
			}

			_, err := auth.Authenticate(c.Request().Context(), token)
			if errors.Is(err, apperr.ErrUnauthorized) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "session expired"})
			}
			if err != nil {
				log.Errorf("session lookup failed: %v", err)
				return c.JSON(http.StatusBadGateway, map[string]string{"error": "transport_error", "message": "session store unavailable"})
			}

			return next(c)
		}
	}
}
