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

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Profile(c echo.Context) error {
	return ok(c, http.StatusOK, authmw.CurrentUser(c))
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	var req transport.ProfileRequest
	if err := bindValid(c, l, "update_profile_error", &req); err != nil {
		return err
	}
	u, err := h.Svc.UpdateProfile(ctx, authmw.CurrentUser(c).ID, profileInput(req))
	if err != nil {
		return fail(l, "update_profile_error", err)
	}
	return okMessage(c, http.StatusOK, "perfil actualizado", u)
}

func (h *UserHTTP) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.deactivate")

	if err := h.Svc.Deactivate(ctx, authmw.CurrentUser(c).ID); err != nil {
		return fail(l, "deactivate_error", err)
	}
	l.Info("account_deactivated")
	return okMessage(c, http.StatusOK, "cuenta desactivada", nil)
}

func (h *UserHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_password")

	var req transport.ChangePasswordRequest
	if err := bindValid(c, l, "change_password_error", &req); err != nil {
		return err
	}
	if err := h.Svc.ChangePassword(ctx, authmw.CurrentUser(c), req.Email, req.NewPassword, req.Confirm); err != nil {
		return fail(l, "change_password_error", err)
	}
	return okMessage(c, http.StatusOK, "contraseña actualizada", nil)
}

func (h *UserHTTP) AdminList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.admin_list")

	page, err := pageParam(c)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	users, err := h.Svc.List(ctx, page)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return list(c, users)
}

func (h *UserHTTP) AdminGet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.admin_get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_user_error", "id no es un identificador válido", err)
	}
	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return ok(c, http.StatusOK, u)
}

func (h *UserHTTP) AdminUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.admin_update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_user_error", "id no es un identificador válido", err)
	}
	var req transport.AdminUserRequest
	if err := bindValid(c, l, "update_user_error", &req); err != nil {
		return err
	}
	u, err := h.Svc.AdminUpdate(ctx, id, service.AdminUserInput{
		ProfileInput: profileInput(req.ProfileRequest),
		Role:         req.Role,
		Active:       req.Active,
	})
	if err != nil {
		return fail(l, "update_user_error", err)
	}
	return okMessage(c, http.StatusOK, "usuario actualizado", u)
}

func profileInput(req transport.ProfileRequest) service.ProfileInput {
	return service.ProfileInput{
		Name:    req.Name,
		Surname: req.Surname,
		Phone:   req.Phone,
		Address: req.Address,
	}
}
