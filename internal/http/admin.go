package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bgbarbearia/barbershop-admin/internal/dispatcher"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/service/customers"
	"github.com/bgbarbearia/barbershop-admin/internal/service/stats"
	"github.com/bgbarbearia/barbershop-admin/internal/service/templates"
	"github.com/bgbarbearia/barbershop-admin/internal/settings"
)

func dashboardHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), "", "")
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, stats.ComputeStats(list, time.Now()))
	}
}

type createTemplateReq struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func listTemplatesHandler(svc *templates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func createTemplateHandler(svc *templates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTemplateReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}

		t, err := svc.Create(c.Request().Context(), model.NewTemplate{
			Name:        req.Name,
			Description: req.Description,
			Content:     req.Content,
		})
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, t)
	}
}

type dispatchReq struct {
	TemplateID string `json:"template_id" validate:"required"`
	Unit       string `json:"unit"`
}

// dispatchHandler runs the whole dispatch inside the request; the response carries the tally.
func dispatchHandler(svc *dispatcher.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dispatchReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}

		res, err := svc.Dispatch(c.Request().Context(), req.TemplateID, req.Unit)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func dispatchUnitsHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		units, err := svc.UnitsPresent(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}

		out := make([]model.UnitInfo, 0, len(units))
		for _, u := range units {
			out = append(out, model.UnitInfo{Value: u, Label: u.Label()})
		}
		return c.JSON(http.StatusOK, out)
	}
}

func getSettingsHandler(store *settings.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := store.Get(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, s)
	}
}

type settingsReq struct {
	NotifyWebhookURL string `json:"notify_webhook_url" validate:"omitempty,url"`
}

func putSettingsHandler(store *settings.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req settingsReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}

		s, err := store.Update(c.Request().Context(), model.Settings{NotifyWebhookURL: req.NotifyWebhookURL})
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, s)
	}
}
