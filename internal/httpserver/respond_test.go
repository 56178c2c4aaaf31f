package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capstore/online_shop/internal/service"
)

func TestStatusForAndMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "validation", err: service.ErrEmptyCart, code: http.StatusBadRequest, msg: "el carrito está vacío"},
		{name: "stock", err: fmt.Errorf("wrap: %w", &service.InsufficientStockError{Product: "Nike"}), code: http.StatusBadRequest, msg: "wrap: stock insuficiente para Nike"},
		{name: "unauthorized", err: service.ErrInvalidCredentials, code: http.StatusUnauthorized, msg: "credenciales inválidas"},
		{name: "forbidden", err: fmt.Errorf("ajena: %w", service.ErrForbidden), code: http.StatusForbidden, msg: "ajena"},
		{name: "not found", err: service.ErrOrderNotFound, code: http.StatusNotFound, msg: "compra no encontrada"},
		{name: "conflict", err: fmt.Errorf("ocupado: %w", service.ErrConflict), code: http.StatusConflict, msg: "ocupado"},
		{name: "echo error", err: echo.NewHTTPError(http.StatusTeapot, "x"), code: http.StatusTeapot},
		{name: "internal", err: errors.New("boom"), code: http.StatusInternalServerError, msg: "boom"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.code, statusFor(tt.err))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, publicMessage(tt.err))
			}
		})
	}
}

func TestValidatorUsesJSONNames(t *testing.T) {
	t.Parallel()

	type req struct {
		Qty int    `json:"cantidad" validate:"required,gte=1"`
		ID  string `json:"id_gorra" validate:"required,uuid"`
	}
	err := NewValidator().Validate(&req{ID: "nope"})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, "cantidad es obligatorio; id_gorra no es un identificador válido", publicMessage(err))
}

func TestErrorHandlerRendersEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "server fault keeps raw text", err: fail(slog.Default(), "x", errors.New("pq: relation orders does not exist")), code: http.StatusInternalServerError, msg: "pq: relation orders does not exist"},
		{name: "unwrapped fault", err: errors.New("disk full"), code: http.StatusInternalServerError, msg: "disk full"},
		{name: "client error trims class", err: fail(slog.Default(), "x", service.ErrEmptyCart), code: http.StatusBadRequest, msg: "el carrito está vacío"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}
