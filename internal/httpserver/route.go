package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	authmw "github.com/capstore/online_shop/internal/middleware/auth"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/pkg/db"
	"github.com/capstore/online_shop/pkg/logging"
)

type Deps struct {
	DB *gorm.DB

	Auth    *AuthHTTP
	Users   *UserHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Reports *ReportHTTP
	Guard   *authmw.Guard

	UploadDir       string
	UploadURLPrefix string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if d.UploadDir != "" {
		e.Static(d.UploadURLPrefix, d.UploadDir)
	}

	api := e.Group("/api")
	authed := d.Guard.RequireAuth
	staff := d.Guard.RequireRoles(models.RoleAdmin, models.RoleWarehouse)
	adminOnly := d.Guard.RequireRoles(models.RoleAdmin)

	users := api.Group("/usuarios")
	users.POST("/registro", d.Auth.Register)
	users.POST("/login", d.Auth.Login)
	users.POST("/cambiar-contrasena", d.Users.ChangePassword, authed)

	me := api.Group("/usuario", authed)
	me.GET("/perfil", d.Users.Profile)
	me.PUT("/perfil", d.Users.UpdateProfile)
	me.PUT("/desactivar-cuenta", d.Users.Deactivate)

	caps := api.Group("/gorras")
	caps.GET("", d.Catalog.Search)
	caps.GET("/destacadas", d.Catalog.Featured)
	caps.GET("/:id", d.Catalog.Get)

	cart := api.Group("/carrito", authed)
	cart.GET("", d.Cart.Get)
	cart.DELETE("", d.Cart.Empty)
	cart.POST("/items", d.Cart.AddItem)
	cart.PUT("/items/:idItem", d.Cart.UpdateItem)
	cart.DELETE("/items/:idItem", d.Cart.RemoveItem)

	orders := api.Group("/compras", authed)
	orders.POST("/finalizar", d.Orders.Finalize)
	orders.GET("/historial", d.Orders.History)
	orders.GET("/:id", d.Orders.Detail)

	admin := api.Group("/admin", authed)
	admin.POST("/gorras", d.Catalog.Create, staff)
	admin.PUT("/gorras/:id", d.Catalog.Update, staff)
	admin.POST("/gorras/:id/stock", d.Catalog.Restock, staff)
	admin.DELETE("/gorras/:id", d.Catalog.Delete, adminOnly)
	admin.GET("/ventas", d.Orders.AdminList, adminOnly)
	admin.GET("/reportes/ventas", d.Reports.Sales, adminOnly)
	admin.GET("/reportes/productos-mas-vendidos", d.Reports.TopProducts, adminOnly)
	admin.GET("/clientes", d.Users.AdminList, adminOnly)
	admin.GET("/clientes/:id", d.Users.AdminGet, adminOnly)
	admin.PUT("/clientes/:id", d.Users.AdminUpdate, adminOnly)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = db.Ping(c.Request().Context(), sqlDB)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
