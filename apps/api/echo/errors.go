package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/dashboard"
	"github.com/trezcool/taskly/core/note"
	"github.com/trezcool/taskly/core/subject"
	"github.com/trezcool/taskly/core/task"
	"github.com/trezcool/taskly/core/user"
)

const (
	msgValidationFailed = "Validation failed"
	msgInvalidFilters   = "Invalid filters"
	msgInternalError    = "Internal server error"
)

var (
	errMalformedToken = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	errInvalidToken   = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
	errUserNotFound   = echo.NewHTTPError(http.StatusNotFound, "User not found")

	notFoundErrors = []struct {
		err error
		msg string
	}{
		{err: task.ErrNotFound, msg: "Task not found"},
		{err: subject.ErrNotFound, msg: "Subject not found"},
		{err: note.ErrNotFound, msg: "Note not found"},
		{err: attendance.ErrNotFound, msg: "Attendance record not found"},
		{err: user.ErrNotFound, msg: "User not found"},
	}
)

// notFoundMessage returns the response message of a not-found error.
// err is not used as a map key: causes like validator.ValidationErrors are not hashable.
func notFoundMessage(err error) (string, bool) {
	for _, nf := range notFoundErrors {
		if err == nf.err {
			return nf.msg, true
		}
	}
	return "", false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if msg, ok := notFoundMessage(cause); ok {
			code = http.StatusNotFound
			message = msg
		} else {
			switch origErr := cause.(type) {
			case *echo.BindingError:
				code = http.StatusBadRequest
				message = echo.Map{
					"error":   msgInvalidFilters,
					"details": map[string]interface{}{origErr.Field: origErr.Message},
				}
			case *echo.HTTPError:
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				code = http.StatusBadRequest
				message = echo.Map{"error": msgValidationFailed, "details": core.TranslateErrors(origErr, translator)}
			case *core.ValidationError:
				code = http.StatusBadRequest
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = echo.Map{"error": msgValidationFailed, "details": fldErrs}
				} else {
					message = origErr.Error()
				}
			case *core.ArgumentError:
				code = http.StatusBadRequest
				message = origErr.Message
			case *dashboard.AggregationError:
				code = http.StatusInternalServerError
				logger.Error(msgInternalError, err, map[string]interface{}{"userId": origErr.UserID, "op": origErr.Op})

				msg := origErr.Message()
				if ctx.Echo().Debug {
					msg = origErr.Error()
				}
				message = echo.Map{"error": msgInternalError, "message": msg}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = msgInternalError

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Email = claims.Email
				}
				logger.Error(msgInternalError, errors.Wrap(err, msgInternalError), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}

				if ctx.Echo().Debug {
					message = echo.Map{"error": msgInternalError, "message": err.Error()}
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
