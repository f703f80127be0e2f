package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/note"
	"github.com/trezcool/taskly/core/task"
)

// bindLimit reads a lenient limit param: anything but a positive integer gives fallback.
func bindLimit(ctx echo.Context, param string, fallback int) int {
	val := ctx.QueryParam(param)
	if val == "" {
		return fallback
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// optionalBool binds a `true|false` param to *dest, leaving it nil when the param is absent.
func optionalBool(param string, dest **bool) func(values []string) []error {
	return func(values []string) []error {
		if len(values) == 0 || values[0] == "" {
			return nil
		}
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return []error{echo.NewBindingError(param, values[:1], "must be true or false", err)}
		}
		*dest = &b
		return nil
	}
}

func bindTaskFilter(ctx echo.Context) (task.QueryFilter, error) {
	var filter task.QueryFilter
	err := echo.QueryParamsBinder(ctx).
		String("subjectId", &filter.SubjectID).
		String("status", (*string)(&filter.Status)).
		String("type", (*string)(&filter.Type)).
		CustomFunc("isOverdue", optionalBool("isOverdue", &filter.IsOverdue)).
		Int("dueOnStart", &filter.DueOnStart).
		Int("dueOnEnd", &filter.DueOnEnd).
		BindError()
	return filter, err
}

func bindNoteFilter(ctx echo.Context) (note.QueryFilter, error) {
	var filter note.QueryFilter
	err := echo.QueryParamsBinder(ctx).
		String("subjectId", &filter.SubjectID).
		CustomFunc("pinned", optionalBool("pinned", &filter.Pinned)).
		String("search", &filter.Search).
		BindError()
	return filter, err
}

func bindAttendanceFilter(ctx echo.Context) (attendance.QueryFilter, error) {
	var filter attendance.QueryFilter
	err := echo.QueryParamsBinder(ctx).
		String("status", (*string)(&filter.Status)).
		String("dateStart", &filter.DateStart).
		String("dateEnd", &filter.DateEnd).
		Int("limit", &filter.Limit).
		BindError()
	return filter, err
}
