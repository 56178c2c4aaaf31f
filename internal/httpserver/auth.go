package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/internal/transport"
	"github.com/capstore/online_shop/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := bindValid(c, l, "register_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Surname:    req.Surname,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_successful", "user_id", res.User.ID)
	return okMessage(c, http.StatusCreated, "usuario registrado", transport.NewAuthResponse(res.User, res.Token, res.ExpiresAt))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bindValid(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return okMessage(c, http.StatusOK, "inicio de sesión exitoso", transport.NewAuthResponse(res.User, res.Token, res.ExpiresAt))
}
