package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bgbarbearia/barbershop-admin/internal/http/middleware"
	"github.com/bgbarbearia/barbershop-admin/internal/service/auth"
	"github.com/bgbarbearia/barbershop-admin/internal/session"
)

type loginReq struct {
	Password string `json:"password" validate:"required,len=6"`
}

func loginHandler(authSvc *auth.Service, cookieName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}

		sess, err := authSvc.Login(c.Request().Context(), req.Password, session.Meta{
			RemoteIP:  c.RealIP(),
			UserAgent: c.Request().UserAgent(),
		})
		if err != nil {
			return errorJSON(c, err)
		}

		ck := &http.Cookie{
			Name:     cookieName,
			Value:    sess.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if !sess.ExpiresAt.IsZero() {
			ck.Expires = sess.ExpiresAt
		}
		c.SetCookie(ck)

		resp := map[string]any{"authenticated": true, "token": sess.Token}
		if !sess.ExpiresAt.IsZero() {
			resp["expires_at"] = sess.ExpiresAt
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func logoutHandler(authSvc *auth.Service, cookieName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := middleware.TokenFromRequest(c, cookieName)
		if err := authSvc.Logout(c.Request().Context(), token); err != nil {
			return errorJSON(c, err)
		}

		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
		return c.NoContent(http.StatusNoContent)
	}
}

// sessionHandler reports whether the caller holds a live session; it never fails with 401.
func sessionHandler(authSvc *auth.Service, cookieName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := middleware.TokenFromRequest(c, cookieName)
		if token == "" {
			return c.JSON(http.StatusOK, map[string]bool{"authenticated": false})
		}

		_, err := authSvc.Authenticate(c.Request().Context(), token)
		if err != nil {
			if isUnauthorized(err) {
				return c.JSON(http.StatusOK, map[string]bool{"authenticated": false})
			}
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, map[string]bool{"authenticated": true})
	}
}
