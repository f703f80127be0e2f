package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core/note"
)

type noteApi struct {
	svc      note.ServiceInterface
	resolver *userIDResolver
	validate *validator.Validate
}

func registerNoteAPI(g *echo.Group, svc note.ServiceInterface, resolver *userIDResolver, validate *validator.Validate) {
	api := noteApi{
		svc:      svc,
		resolver: resolver,
		validate: validate,
	}

	ng := g.Group("/notes")
	ng.GET("", api.query)
	ng.POST("", api.create)
	ng.GET("/:noteId", api.retrieve)
	ng.PATCH("/:noteId", api.update)
	ng.DELETE("/:noteId", api.destroy)
}

// Handlers

func (api *noteApi) query(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}
	filter, err := bindNoteFilter(ctx)
	if err != nil {
		return err
	}

	notes, err := api.svc.Query(ctx.Request().Context(), userID, filter)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	if notes == nil {
		notes = []note.Note{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"notes": notes, "count": len(notes)})
}

func (api *noteApi) create(ctx echo.Context) error {
	var data struct {
		IDRequest
		Note *note.NewNote `json:"note"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Note == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Note data is required")
	}
	if err = data.Note.Validate(api.validate); err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), userID, *data.Note)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Note created successfully", "note": n})
}

func (api *noteApi) retrieve(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	n, err := api.svc.GetByID(ctx.Request().Context(), userID, ctx.Param("noteId"))
	if err != nil {
		return errors.Wrap(err, "finding note by ID")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"note": n})
}

func (api *noteApi) update(ctx echo.Context) error {
	var data struct {
		IDRequest
		Note *note.UpdateNote `json:"note"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNote")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Note == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Note data is required")
	}
	if err = data.Note.Validate(api.validate); err != nil {
		return err
	}

	if _, err = api.svc.Update(ctx.Request().Context(), userID, ctx.Param("noteId"), *data.Note); err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Note updated successfully"})
}

func (api *noteApi) destroy(ctx echo.Context) error {
	var data IDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IDRequest")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), userID, ctx.Param("noteId")); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Note deleted successfully"})
}
