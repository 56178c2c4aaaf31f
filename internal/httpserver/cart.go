package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/capstore/online_shop/internal/middleware/auth"
	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/internal/transport"
	"github.com/capstore/online_shop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.Svc.Get(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return ok(c, http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := bindValid(c, l, "add_item_error", &req); err != nil {
		return err
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return badRequest(l, "add_item_error", "id_gorra no es un identificador válido", err)
	}

	cart, err := h.Svc.AddItem(ctx, authmw.CurrentUser(c).ID, productID, req.Quantity)
	if err != nil {
		return fail(l, "add_item_error", err)
	}
	return okMessage(c, http.StatusOK, "gorra agregada al carrito", cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	itemID, err := uuid.Parse(c.Param("idItem"))
	if err != nil {
		return badRequest(l, "update_item_error", "idItem no es un identificador válido", err)
	}
	var req transport.UpdateItemRequest
	if err := bindValid(c, l, "update_item_error", &req); err != nil {
		return err
	}

	cart, err := h.Svc.UpdateQuantity(ctx, authmw.CurrentUser(c).ID, itemID, req.Quantity)
	if err != nil {
		return fail(l, "update_item_error", err)
	}
	return okMessage(c, http.StatusOK, "cantidad actualizada", cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	itemID, err := uuid.Parse(c.Param("idItem"))
	if err != nil {
		return badRequest(l, "remove_item_error", "idItem no es un identificador válido", err)
	}
	cart, err := h.Svc.RemoveItem(ctx, authmw.CurrentUser(c).ID, itemID)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}
	return okMessage(c, http.StatusOK, "gorra eliminada del carrito", cart)
}

func (h *CartHTTP) Empty(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.empty")

	cart, err := h.Svc.Empty(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return fail(l, "empty_cart_error", err)
	}
	return okMessage(c, http.StatusOK, "carrito vaciado", cart)
}
