package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
)

type sysConfigApi struct {
	svc sysconfig.ServiceInterface
}

func registerSysConfigAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := sysConfigApi{svc: deps.SysConfigSvc}

	cg := g.Group("/sysconfig")

	// public: the login surface needs the flags before any identity exists
	cg.GET("", api.retrieve)

	// toggles are a superadmin-only administrative action
	tg := cg.Group("", jwt, roleMiddleware(user.RoleSuperAdmin))
	tg.POST("/toggle-login", api.toggleLogin)
	tg.POST("/toggle-registration", api.toggleRegistration)
}

// Handlers

func (api *sysConfigApi) retrieve(ctx echo.Context) error {
	cfg, err := api.svc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "reading system config")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *sysConfigApi) toggleLogin(ctx echo.Context) error {
	cfg, err := api.svc.ToggleLogin(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "toggling allow_login")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *sysConfigApi) toggleRegistration(ctx echo.Context) error {
	cfg, err := api.svc.ToggleAdminRegistration(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "toggling allow_admin_registration")
	}
	return ctx.JSON(http.StatusOK, cfg)
}
