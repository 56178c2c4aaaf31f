package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capstore/online_shop/pkg/logging"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantCode  int
		wantLevel string
	}{
		{
			name: "ok",
			handler: func(c echo.Context) error {
				logging.FromContext(c.Request().Context()).Info("inside")
				return c.NoContent(http.StatusOK)
			},
			wantCode:  http.StatusOK,
			wantLevel: "INFO",
		},
		{
			name: "client error",
			handler: func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusNotFound, "missing")
			},
			wantCode:  http.StatusNotFound,
			wantLevel: "WARN",
		},
		{
			name: "server error",
			handler: func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusInternalServerError, "boom")
			},
			wantCode:  http.StatusInternalServerError,
			wantLevel: "ERROR",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()
			e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
			e.GET("/x", tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set(echo.HeaderXRequestID, "rid-1")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			var last map[string]any
			require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
			assert.Equal(t, "request completed", last["msg"])
			assert.Equal(t, tt.wantLevel, last["level"])
			assert.EqualValues(t, tt.wantCode, last["status"])
			assert.Equal(t, "rid-1", last["request_id"])
			assert.Equal(t, "/x", last["path"])
		})
	}
}
