package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/user"
)

var errNoPermsToSetRole = "not enough rights to provision this role"

type userApi struct {
	conf     *core.Config
	svc      user.ServiceInterface
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		conf:     deps.Conf,
		svc:      deps.UserSvc,
		validate: deps.Validate,
	}

	// un-authed endpoints; both are gated server-side by the system config
	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/register", api.register)

	// operator endpoints
	ug := g.Group("/users", jwt, roleMiddleware(user.RoleAdmin, user.RoleSuperAdmin))
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.GET("/roles", api.queryRoles)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Role, data.Secret)
	if err != nil {
		return err
	}

	// the response role is the stored one; it may only confirm the claimed role
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		ID:    usr.ID,
		Name:  usr.Name,
		Role:  usr.Role,
		Token: token,
	})
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}

	// the service reads the registration gate before validating fields
	if _, err := api.svc.RegisterAdmin(ctx.Request().Context(), data); err != nil {
		return err
	}

	// no identity issued; the new admin must log in
	return ctx.JSON(http.StatusCreated, echo.Map{})
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	// admins provision students/teachers only; superadmins provision anyone
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.Role == user.RoleAdmin && (data.Role == user.RoleAdmin || data.Role == user.RoleSuperAdmin) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

type (
	LoginRequest struct {
		Username string    `json:"username" validate:"required"`
		Secret   string    `json:"secret" validate:"required"`
		Role     user.Role `json:"role" validate:"required"`
	}

	LoginResponse struct {
		ID    string    `json:"id"`
		Name  string    `json:"name"`
		Role  user.Role `json:"role"`
		Token string    `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	if err := validate.Struct(lr); err != nil {
		return err
	}
	if !lr.Role.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	return nil
}
