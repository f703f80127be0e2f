package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core/subject"
)

type subjectApi struct {
	svc      subject.ServiceInterface
	resolver *userIDResolver
	validate *validator.Validate
}

func registerSubjectAPI(g *echo.Group, svc subject.ServiceInterface, resolver *userIDResolver, validate *validator.Validate) {
	api := subjectApi{
		svc:      svc,
		resolver: resolver,
		validate: validate,
	}

	sg := g.Group("/subjects")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:subjectId", api.retrieve)
	sg.PATCH("/:subjectId", api.update)
	sg.DELETE("/:subjectId", api.destroy)
}

// Handlers

func (api *subjectApi) query(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	subjects, err := api.svc.QueryAll(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []subject.Subject{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subjects": subjects, "count": len(subjects)})
}

func (api *subjectApi) create(ctx echo.Context) error {
	var data struct {
		IDRequest
		Subject *subject.NewSubject `json:"subject"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Subject == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Subject data is required")
	}
	if err = data.Subject.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), userID, *data.Subject)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Subject created successfully", "subject": s})
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	s, err := api.svc.GetByID(ctx.Request().Context(), userID, ctx.Param("subjectId"))
	if err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subject": s})
}

func (api *subjectApi) update(ctx echo.Context) error {
	var data struct {
		IDRequest
		Subject *subject.UpdateSubject `json:"subject"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Subject == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Subject data is required")
	}
	if err = data.Subject.Validate(api.validate); err != nil {
		return err
	}

	if _, err = api.svc.Update(ctx.Request().Context(), userID, ctx.Param("subjectId"), *data.Subject); err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Subject updated successfully"})
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	var data IDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IDRequest")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), userID, ctx.Param("subjectId")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Subject deleted successfully"})
}
