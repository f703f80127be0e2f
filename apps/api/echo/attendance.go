package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core/attendance"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	resolver *userIDResolver
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, svc attendance.ServiceInterface, resolver *userIDResolver, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		resolver: resolver,
		validate: validate,
	}

	sg := g.Group("/subjects/:subjectId")
	sg.GET("/attendance", api.query)
	sg.POST("/attendance", api.save)
	sg.GET("/attendance/:date", api.retrieve)
	sg.DELETE("/attendance/:date", api.destroy)
	sg.GET("/attendance-stats", api.stats)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}
	filter, err := bindAttendanceFilter(ctx)
	if err != nil {
		return err
	}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), userID, ctx.Param("subjectId"), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records, "count": len(records)})
}

func (api *attendanceApi) save(ctx echo.Context) error {
	var data struct {
		IDRequest
		Attendance *attendance.NewAttendance `json:"attendance"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}
	if data.Attendance == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Attendance data is required")
	}
	if err = data.Attendance.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Upsert(ctx.Request().Context(), userID, ctx.Param("subjectId"), *data.Attendance)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Attendance saved successfully", "attendance": a})
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	a, err := api.svc.GetByDate(ctx.Request().Context(), userID, ctx.Param("subjectId"), ctx.Param("date"))
	if err != nil {
		return errors.Wrap(err, "finding attendance by date")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": a})
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	var data IDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IDRequest")
	}
	userID, err := api.resolver.resolve(ctx, data.ID)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), userID, ctx.Param("subjectId"), ctx.Param("date")); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Attendance deleted successfully"})
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	userID, err := api.resolver.resolve(ctx, "")
	if err != nil {
		return err
	}

	stats, err := api.svc.Stats(ctx.Request().Context(), userID, ctx.Param("subjectId"))
	if err != nil {
		return errors.Wrap(err, "computing attendance stats")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"stats": stats})
}
