package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
)

// EchoValidator plugs validator/v10 into echo.Context.Validate and reports the first
// violation as an apperr.ValidationError keyed by the JSON field name.
type EchoValidator struct {
	validator *validator.Validate
}

func Echo() *EchoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Nullable strings validate as their value; absent and null read as "" so omitempty skips them.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if n, ok := f.Interface().(model.Nullable[string]); ok && n.Value != nil {
			return *n.Value
		}
		return ""
	}, model.Nullable[string]{})
	return &EchoValidator{validator: v}
}

func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return apperr.Validation(ve[0].Field(), message(ve[0]))
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return "must have " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "max":
		return "must have at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
