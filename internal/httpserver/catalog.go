package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/internal/storage"
	"github.com/capstore/online_shop/internal/transport"
	"github.com/capstore/online_shop/pkg/logging"
)

type CatalogHTTP struct {
	Svc    *service.CatalogService
	Images *storage.ImageStore
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	p := service.SearchParams{
		Category: c.QueryParam("tipo"),
		Size:     strings.ToUpper(c.QueryParam("talla")),
		Color:    c.QueryParam("color"),
		Query:    c.QueryParam("busqueda"),
	}

	var err error
	if p.PriceMin, err = decimalParam(c, "precio_min"); err != nil {
		return badRequest(l, "search_error", "precio_min no es un número", err)
	}
	if p.PriceMax, err = decimalParam(c, "precio_max"); err != nil {
		return badRequest(l, "search_error", "precio_max no es un número", err)
	}

	switch v := strings.ToLower(c.QueryParam("disponible")); v {
	case "all":
	case "false", "0":
		off := false
		p.Available = &off
	default:
		on := true
		p.Available = &on
	}

	items, err := h.Svc.Search(ctx, p)
	if err != nil {
		return fail(l, "search_error", err)
	}
	return list(c, items)
}

func (h *CatalogHTTP) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.featured")

	items, err := h.Svc.Featured(ctx)
	if err != nil {
		return fail(l, "featured_error", err)
	}
	return list(c, items)
}

func (h *CatalogHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_product_error", "id no es un identificador válido", err)
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return ok(c, http.StatusOK, p)
}

func (h *CatalogHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create")

	in, uploaded, err := h.productInput(c)
	if err != nil {
		return fail(l, "create_product_error", err)
	}
	p, err := h.Svc.Create(ctx, in)
	if err != nil {
		h.discard(l, uploaded)
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return okMessage(c, http.StatusCreated, "gorra creada", p)
}

func (h *CatalogHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_product_error", "id no es un identificador válido", err)
	}
	in, uploaded, err := h.productInput(c)
	if err != nil {
		return fail(l, "update_product_error", err)
	}
	p, err := h.Svc.Update(ctx, id, in)
	if err != nil {
		h.discard(l, uploaded)
		return fail(l, "update_product_error", err)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return okMessage(c, http.StatusOK, "gorra actualizada", p)
}

func (h *CatalogHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_product_error", "id no es un identificador válido", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return okMessage(c, http.StatusOK, "gorra eliminada", nil)
}

func (h *CatalogHTTP) Restock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.restock")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "restock_product_error", "id no es un identificador válido", err)
	}
	var req transport.RestockRequest
	if err := bindValid(c, l, "restock_product_error", &req); err != nil {
		return err
	}

	p, err := h.Svc.Restock(ctx, id, req.Quantity)
	if err != nil {
		return fail(l, "restock_product_error", err)
	}

	l.Info("restock_product_success", "product_id", id, "quantity", req.Quantity, "stock", p.Stock)
	return okMessage(c, http.StatusOK, "stock actualizado", p)
}

// productInput reads either a JSON body or a multipart form whose optional
// "imagen" file is stored and referenced by URL. uploaded is that reference,
// empty when no file came with the request.
func (h *CatalogHTTP) productInput(c echo.Context) (in service.ProductInput, uploaded string, err error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return h.formInput(c)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return in, "", invalid("cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return in, "", err
	}
	return service.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Size:        req.Size,
		Color:       req.Color,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Available:   req.Available,
		Featured:    req.Featured,
		Stock:       req.Stock,
	}, "", nil
}

// discard removes an image stored for a request whose write failed.
func (h *CatalogHTTP) discard(l *slog.Logger, uploaded string) {
	if uploaded == "" || h.Images == nil {
		return
	}
	if err := h.Images.Remove(uploaded); err != nil {
		l.Warn("discard_image_error", "image", uploaded, "error", err)
	}
}

func (h *CatalogHTTP) formInput(c echo.Context) (service.ProductInput, string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return service.ProductInput{}, "", invalid("formulario inválido")
	}

	str := func(k string) *string {
		if v, ok := form.Value[k]; ok && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}

	in := service.ProductInput{
		Name:        str("nombre"),
		Category:    str("tipo"),
		Size:        str("talla"),
		Color:       str("color"),
		Description: str("descripcion"),
		Image:       str("imagen"),
	}
	if v := str("precio"); v != nil {
		d, err := decimal.NewFromString(*v)
		if err != nil {
			return in, "", invalid("precio no es un número")
		}
		in.Price = &d
	}
	if v := str("stock"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return in, "", invalid("stock no es un entero")
		}
		in.Stock = &n
	}
	for key, dst := range map[string]**bool{"disponible": &in.Available, "destacada": &in.Featured} {
		if v := str(key); v != nil {
			b, err := strconv.ParseBool(*v)
			if err != nil {
				return in, "", invalid(key + " debe ser true o false")
			}
			*dst = &b
		}
	}

	if files := form.File["imagen"]; len(files) > 0 && h.Images != nil {
		url, err := h.Images.Save(files[0])
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return in, "", invalid("imagen no soportada: use jpg, png, gif o webp de hasta 5MB")
		}
		if err != nil {
			return in, "", err
		}
		in.Image = &url
		return in, url, nil
	}
	return in, "", nil
}

func invalid(msg string) error {
	return fmt.Errorf("%s: %w", msg, service.ErrValidation)
}

func decimalParam(c echo.Context, name string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
