package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/util"
)

const qrSize = 300

func unitsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.UnitCatalog())
	}
}

func registrationLinkHandler(publicURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"link": util.RegistrationLink(publicURL)})
	}
}

func registrationQRHandler(publicURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		png, err := qrcode.Encode(util.RegistrationLink(publicURL), qrcode.Medium, qrSize)
		if err != nil {
			log.Errorf("qr encode failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal_error", "message": "qr generation failed"})
		}
		return c.Blob(http.StatusOK, "image/png", png)
	}
}

// registrationModeHandler tells the form which layout to use.
func registrationModeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		mode := "tablet"
		if util.IsMobileEntry(c.QueryParam(util.MobileQueryParam)) {
			mode = "mobile"
		}
		return c.JSON(http.StatusOK, map[string]string{"mode": mode})
	}
}
