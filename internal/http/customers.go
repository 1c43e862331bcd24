package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/service/customers"
	"github.com/bgbarbearia/barbershop-admin/internal/util"
)

// createCustomerReq accepts either a full phone or its ddi/ddd/number parts.
type createCustomerReq struct {
	Name      string      `json:"name"       validate:"required,max=255"`
	Phone     string      `json:"phone"`
	DDI       string      `json:"ddi"`
	DDD       string      `json:"ddd"`
	Number    string      `json:"number"`
	Email     *string     `json:"email"      validate:"omitempty,email"`
	BirthDate *model.Date `json:"birth_date"`
	Unit      string      `json:"unit"       validate:"required"`
	Notes     *string     `json:"notes"`
}

func (r createCustomerReq) toNew() model.NewCustomer {
	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		phone = util.ComposePhone(r.DDI, r.DDD, r.Number)
	}
	return model.NewCustomer{
		Name:      r.Name,
		Phone:     phone,
		Email:     r.Email,
		BirthDate: r.BirthDate,
		Unit:      model.Unit(r.Unit),
		Notes:     r.Notes,
	}
}

// patchCustomerReq leaves absent keys untouched. For email, birth_date and notes an explicit
// null clears the field, same as "".
type patchCustomerReq struct {
	Name      *string                    `json:"name"`
	Phone     *string                    `json:"phone"`
	Email     model.Nullable[string]     `json:"email"      validate:"omitempty,email"`
	BirthDate model.Nullable[model.Date] `json:"birth_date"`
	Unit      *string                    `json:"unit"`
	Notes     model.Nullable[string]     `json:"notes"`
}

func (r patchCustomerReq) toPatch() model.CustomerPatch {
	p := model.CustomerPatch{
		Name:  r.Name,
		Phone: r.Phone,
		Email: clearable(r.Email),
		Notes: clearable(r.Notes),
	}
	if r.BirthDate.Set {
		// the zero date clears the column
		var d model.Date
		if r.BirthDate.Value != nil {
			d = *r.BirthDate.Value
		}
		p.BirthDate = &d
	}
	if r.Unit != nil {
		u := model.Unit(*r.Unit)
		p.Unit = &u
	}
	return p
}

// clearable maps null to "" so the store clears the column; absent stays nil.
func clearable(n model.Nullable[string]) *string {
	if !n.Set {
		return nil
	}
	if n.Value == nil {
		empty := ""
		return &empty
	}
	return n.Value
}

// createCustomerHandler serves both the public registration form and the admin create.
func createCustomerHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createCustomerReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}

		cust, err := svc.Create(c.Request().Context(), req.toNew())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, cust)
	}
}

func listCustomersHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), c.QueryParam("q"), c.QueryParam("unit"))
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"items": list,
			"count": len(list),
		})
	}
}

func updateCustomerHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req patchCustomerReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}

		cust, err := svc.Update(c.Request().Context(), c.Param("id"), req.toPatch())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, cust)
	}
}

func deleteCustomerHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return errorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func refreshCustomersHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Refresh(c.Request().Context()); err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, map[string]int{"count": len(svc.Snapshot())})
	}
}

// ExportFilename names the customer export for day.
func ExportFilename(day time.Time) string {
	return "clientes-" + day.Format("2006-01-02") + ".json"
}

func exportCustomersHandler(svc *customers.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, err := svc.Export(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ExportFilename(time.Now())+`"`)
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b)
	}
}
