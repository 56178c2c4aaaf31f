package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/capstore/online_shop/internal/middleware/auth"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/internal/transport"
	"github.com/capstore/online_shop/pkg/logging"
)

const (
	dateLayout          = "2006-01-02"
	headerIdempotentKey = "Idempotency-Key"
)

type OrderHTTP struct {
	Checkout *service.CheckoutService
	Orders   *service.OrderService
}

func (h *OrderHTTP) Finalize(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.finalize")

	var req transport.FinalizeRequest
	if err := bindValid(c, l, "finalize_error", &req); err != nil {
		return err
	}

	in := service.FinalizeInput{
		PaymentMethod:  strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(headerIdempotentKey)),
	}
	if t := req.Transfer; t != nil {
		in.Transfer = &service.TransferInput{
			OriginAccount:      t.OriginAccount,
			DestinationAccount: t.DestinationAccount,
			Amount:             t.Amount,
			TransferredAt:      t.TransferredAt,
		}
	}

	order, created, err := h.Checkout.Finalize(ctx, authmw.CurrentUser(c).ID, in)
	if err != nil {
		return fail(l, "finalize_error", err)
	}
	if !created {
		return okMessage(c, http.StatusOK, "compra ya registrada", order)
	}
	return okMessage(c, http.StatusCreated, "compra realizada", order)
}

func (h *OrderHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	q, err := orderQuery(c)
	if err != nil {
		return fail(l, "history_error", err)
	}
	orders, err := h.Orders.History(ctx, authmw.CurrentUser(c).ID, q)
	if err != nil {
		return fail(l, "history_error", err)
	}
	return list(c, orders)
}

func (h *OrderHTTP) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.detail")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "order_detail_error", "id no es un identificador válido", err)
	}
	order, err := h.Orders.Detail(ctx, id, authmw.CurrentUser(c))
	if err != nil {
		return fail(l, "order_detail_error", err)
	}
	return ok(c, http.StatusOK, order)
}

// AdminList serves the sales listing; metodo_pago is honoured here only.
func (h *OrderHTTP) AdminList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_list")

	q, err := orderQuery(c)
	if err != nil {
		return fail(l, "admin_orders_error", err)
	}
	q.Method = c.QueryParam("metodo_pago")
	if q.Page, err = pageParam(c); err != nil {
		return fail(l, "admin_orders_error", err)
	}
	orders, err := h.Orders.AdminList(ctx, q)
	if err != nil {
		return fail(l, "admin_orders_error", err)
	}
	return list(c, orders)
}

func orderQuery(c echo.Context) (service.OrderQuery, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return service.OrderQuery{}, err
	}
	return service.OrderQuery{From: from, To: to, Status: c.QueryParam("estado")}, nil
}

// pageParam reads the optional pagina and tamano parameters. Without either
// the listing is returned whole.
func pageParam(c echo.Context) (repo.Page, error) {
	rawPage, rawSize := c.QueryParam("pagina"), c.QueryParam("tamano")
	if rawPage == "" && rawSize == "" {
		return repo.Page{}, nil
	}
	num := func(name, v string) (int, error) {
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s debe ser un entero: %w", name, service.ErrValidation)
		}
		return n, nil
	}
	page, err := num("pagina", rawPage)
	if err != nil {
		return repo.Page{}, err
	}
	size, err := num("tamano", rawSize)
	if err != nil {
		return repo.Page{}, err
	}
	return repo.NewPage(page, size), nil
}

// dateRange reads fecha_inicio and fecha_fin as UTC days. The end day is
// inclusive, so the returned upper bound is the start of the next day.
func dateRange(c echo.Context) (from, to *time.Time, err error) {
	parse := func(name string) (*time.Time, error) {
		v := strings.TrimSpace(c.QueryParam(name))
		if v == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%s debe tener formato AAAA-MM-DD: %w", name, service.ErrValidation)
		}
		return &t, nil
	}

	if from, err = parse("fecha_inicio"); err != nil {
		return nil, nil, err
	}
	if to, err = parse("fecha_fin"); err != nil {
		return nil, nil, err
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	return from, to, nil
}
