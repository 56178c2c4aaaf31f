package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/gorras/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") })

	okCounter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/gorras/:id", "200")
	nfCounter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/boom", "404")
	okBefore := testutil.ToFloat64(okCounter)
	nfBefore := testutil.ToFloat64(nfCounter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gorras/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(okCounter))
	assert.Equal(t, nfBefore+1, testutil.ToFloat64(nfCounter))
}
