package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/user"
)

type userApi struct {
	svc      user.ServiceInterface
	resolver *userIDResolver
	conf     *core.Config
	validate *validator.Validate
}

func registerUserAPI(
	g *echo.Group,
	svc user.ServiceInterface,
	resolver *userIDResolver,
	conf *core.Config,
	validate *validator.Validate,
) {
	api := userApi{
		svc:      svc,
		resolver: resolver,
		conf:     conf,
		validate: validate,
	}

	g.POST("/signup", api.signup)
	g.POST("/login", api.login)
	g.POST("/logout", api.logout)
	g.POST("/verifyAuthentication", api.verifyAuthentication)
	g.GET("/isAuthenticated", api.isAuthenticated)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	token, err := newUserToken(usr, api.conf)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, SignupResponse{ID: usr.ID, Email: usr.Email, Token: token})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errUserNotFound
		}
		return errors.Wrap(err, "logging in")
	}
	token, err := newUserToken(usr, api.conf)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		ID:            usr.ID,
		Email:         usr.Email,
		Authenticated: usr.Authenticated,
		Token:         token,
	})
}

func (api *userApi) logout(ctx echo.Context) error {
	var data IDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IDRequest")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}

	if err = api.svc.Logout(ctx.Request().Context(), userID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

func (api *userApi) verifyAuthentication(ctx echo.Context) error {
	var data IDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IDRequest")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}

	ok, err := api.svc.VerifyAuthentication(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "verifying authentication")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"isAuthenticated": ok})
}

func (api *userApi) isAuthenticated(ctx echo.Context) error {
	usr, err := api.svc.IsAuthenticated(ctx.Request().Context(), ctx.QueryParam("email"))
	if err != nil {
		return errors.Wrap(err, "checking authentication")
	}
	if !usr.Authenticated {
		return echo.NewHTTPError(http.StatusNotFound, "User not authenticated")
	}
	return ctx.JSON(http.StatusOK, UserResponse{ID: usr.ID, Email: usr.Email, Authenticated: usr.Authenticated})
}

type (
	// IDRequest is the body of the requests acting on behalf of a user.
	IDRequest struct {
		ID string `json:"id"`
	}

	SignupResponse struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Token string `json:"token"`
	}

	UserResponse struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Authenticated bool   `json:"authenticated"`
	}

	LoginResponse struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Authenticated bool   `json:"authenticated"`
		Token         string `json:"token"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
