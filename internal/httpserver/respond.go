package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/internal/transport"
	"github.com/capstore/online_shop/pkg/logging"
)

var classes = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

func statusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return http.StatusInternalServerError
}

// publicMessage drops the trailing error class that service errors wrap.
func publicMessage(err error) string {
	msg := err.Error()
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return strings.TrimSuffix(msg, ": "+c.err.Error())
		}
	}
	return msg
}

// fail logs err under event and turns it into the HTTP error the client
// sees. Server faults are logged at error level and keep their raw text.
func fail(l *slog.Logger, event string, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
		return echo.NewHTTPError(code, err.Error()).SetInternal(err)
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, publicMessage(err)).SetInternal(err)
}

func badRequest(l *slog.Logger, event, msg string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", msg, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, transport.Envelope{Success: true, Data: data})
}

func okMessage(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, transport.Envelope{Success: true, Data: data, Message: msg})
}

func list[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, transport.Envelope{Success: true, Data: items, Count: &n})
}

// ErrorHandler renders every error in the response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if s, isStr := he.Message.(string); isStr {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	case code < http.StatusInternalServerError:
		msg = publicMessage(err)
	default:
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, transport.Envelope{Success: false, Message: msg})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}

// Validator plugs go-playground/validator into echo and reports fields by
// their JSON names.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describe(fe))
	}
	return fmt.Errorf("%s: %w", strings.Join(parts, "; "), service.ErrValidation)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es obligatorio"
	case "email":
		return fe.Field() + " no es un correo válido"
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	case "uuid":
		return fe.Field() + " no es un identificador válido"
	default:
		return fmt.Sprintf("%s no cumple %s", fe.Field(), fe.Tag())
	}
}

// bindValid binds and validates req, logging failures under event.
func bindValid(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest(l, event, "cuerpo de la petición inválido", err)
	}
	if err := c.Validate(req); err != nil {
		return fail(l, event, err)
	}
	return nil
}
