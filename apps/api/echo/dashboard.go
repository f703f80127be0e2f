package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core/dashboard"
)

type dashboardApi struct {
	svc           dashboard.ServiceInterface
	resolver      *userIDResolver
	upcomingLimit int
}

// registerDashboardAPI mounts the dashboard endpoints.
// upcomingLimit is used when a request has no usable limit; 0 leaves the choice to the service.
func registerDashboardAPI(g *echo.Group, svc dashboard.ServiceInterface, resolver *userIDResolver, upcomingLimit int) {
	if upcomingLimit < 0 {
		upcomingLimit = 0
	}
	api := dashboardApi{
		svc:           svc,
		resolver:      resolver,
		upcomingLimit: upcomingLimit,
	}

	dg := g.Group("/dashboard")
	dg.GET("", api.overview)
	dg.GET("/tasks-summary", api.tasksSummary)
	dg.GET("/upcoming-tasks", api.upcomingTasks)
}

// Handlers

func (api *dashboardApi) overview(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	opts := dashboard.Options{UpcomingLimit: bindLimit(ctx, "upcomingLimit", api.upcomingLimit)}
	overview, err := api.svc.GetOverview(ctx.Request().Context(), userID, opts)
	if err != nil {
		return errors.Wrap(err, "getting dashboard overview")
	}
	return ctx.JSON(http.StatusOK, DataResponse{Success: true, Data: overview})
}

func (api *dashboardApi) tasksSummary(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	summary, err := api.svc.GetTasksSummary(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "getting tasks summary")
	}
	return ctx.JSON(http.StatusOK, DataResponse{Success: true, Data: summary})
}

func (api *dashboardApi) upcomingTasks(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	tasks, err := api.svc.GetUpcomingTasks(ctx.Request().Context(), userID, bindLimit(ctx, "limit", api.upcomingLimit))
	if err != nil {
		return errors.Wrap(err, "getting upcoming tasks")
	}
	return ctx.JSON(http.StatusOK, ListResponse{Success: true, Count: len(tasks), Data: tasks})
}

type (
	DataResponse struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}

	ListResponse struct {
		Success bool        `json:"success"`
		Count   int         `json:"count"`
		Data    interface{} `json:"data"`
	}
)
