package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
)

// errorJSON maps service errors to a status and a {"error","message"} body.
func errorJSON(c echo.Context, err error) error {
	switch {
	case apperr.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "validation_error", "message": validationMessage(err)})
	case apperr.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not_found", "message": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "invalid password"})
	case apperr.IsTransport(err):
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "transport_error", "message": "upstream unavailable, try again"})
	default:
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal_error", "message": "internal error"})
	}
}

func validationMessage(err error) string {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad_request", "message": "malformed request body"})
}

// bindValid binds the body into req and runs struct validation.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c)
	}
	if err := c.Validate(req); err != nil {
		return false, errorJSON(c, err)
	}
	return true, nil
}

func isUnauthorized(err error) bool {
	return errors.Is(err, apperr.ErrUnauthorized)
}
