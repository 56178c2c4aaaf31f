package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/capstore/online_shop/internal/report"
	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/pkg/logging"
)

type ReportHTTP struct {
	Svc *service.ReportService
}

func (h *ReportHTTP) Sales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.sales")

	from, to, err := dateRange(c)
	if err != nil {
		return fail(l, "sales_report_error", err)
	}
	rep, err := h.Svc.Sales(ctx, report.Range{From: from, To: to})
	if err != nil {
		return fail(l, "sales_report_error", err)
	}
	return ok(c, http.StatusOK, rep)
}

func (h *ReportHTTP) TopProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.top_products")

	from, to, err := dateRange(c)
	if err != nil {
		return fail(l, "top_products_error", err)
	}
	limit := 0
	if v := strings.TrimSpace(c.QueryParam("limite")); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return badRequest(l, "top_products_error", "limite debe ser un entero", err)
		}
	}

	top, err := h.Svc.TopProducts(ctx, report.Range{From: from, To: to}, limit)
	if err != nil {
		return fail(l, "top_products_error", err)
	}
	return list(c, top)
}
