package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core/task"
)

type taskApi struct {
	svc      task.ServiceInterface
	resolver *userIDResolver
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, svc task.ServiceInterface, resolver *userIDResolver, validate *validator.Validate) {
	api := taskApi{
		svc:      svc,
		resolver: resolver,
		validate: validate,
	}

	tg := g.Group("/tasks")
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:taskId", api.retrieve)
	tg.PATCH("/:taskId", api.update)
	tg.DELETE("/:taskId", api.destroy)
}

// Handlers

func (api *taskApi) query(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}
	filter, err := bindTaskFilter(ctx)
	if err != nil {
		return err
	}

	tasks, err := api.svc.Query(ctx.Request().Context(), userID, filter)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"tasks": tasks, "count": len(tasks)})
}

func (api *taskApi) create(ctx echo.Context) error {
	var data struct {
		IDRequest
		Task *task.NewTask `json:"task"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Task == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Task data is required")
	}
	if err = data.Task.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), userID, *data.Task)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Task created successfully", "task": t})
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), userID, ctx.Param("taskId"))
	if err != nil {
		return errors.Wrap(err, "finding task by ID")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"task": t})
}

func (api *taskApi) update(ctx echo.Context) error {
	var data struct {
		IDRequest
		Task *task.UpdateTask `json:"task"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Task == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Task data is required")
	}
	if err = data.Task.Validate(api.validate); err != nil {
		return err
	}

	if _, err = api.svc.Update(ctx.Request().Context(), userID, ctx.Param("taskId"), *data.Task); err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Task updated successfully"})
}

func (api *taskApi) destroy(ctx echo.Context) error {
	var data IDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IDRequest")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), userID, ctx.Param("taskId")); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
