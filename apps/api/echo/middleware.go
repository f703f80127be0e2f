package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/user"
)

const (
	userIDParam  = "userId"
	userIDHeader = "X-User-Id"
	bearerPrefix = "Bearer "
)

// sessionMiddleware stores the claims of a valid bearer token in the context.
// Requests without an Authorization header go through untouched.
func sessionMiddleware(secretKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(ctx)
			}
			if !strings.HasPrefix(auth, bearerPrefix) {
				return errMalformedToken
			}
			claims, err := parseToken(strings.TrimSpace(auth[len(bearerPrefix):]), secretKey)
			if err != nil {
				return errInvalidToken
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

type userIDResolver struct {
	svc user.ServiceInterface
}

// resolve finds the id of the user a request acts for, in order:
// bodyID, the `userId` query param, the X-User-Id header, then the session.
// The session only counts while its user is still authenticated.
func (r *userIDResolver) resolve(ctx echo.Context, bodyID string) (string, error) {
	for _, id := range []string{bodyID, ctx.QueryParam(userIDParam), ctx.Request().Header.Get(userIDHeader)} {
		if id = core.CleanString(id); id != "" {
			return id, nil
		}
	}

	if claims, err := getContextClaims(ctx); err == nil {
		ok, err := r.svc.VerifyAuthentication(ctx.Request().Context(), claims.Subject)
		if err != nil && errors.Cause(err) != user.ErrNotFound {
			return "", errors.Wrap(err, "verifying authentication")
		}
		if ok {
			return claims.Subject, nil
		}
	}
	return "", errUserIDRequired(ctx)
}

func errUserIDRequired(ctx echo.Context) error {
	var hint string
	if method := ctx.Request().Method; method == http.MethodGet {
		hint = fmt.Sprintf("Send userId as query param: GET %s?userId=YOUR_USER_ID", ctx.Path())
	} else {
		hint = fmt.Sprintf("Send the user ID as `id` in the request body: %s %s", method, ctx.Path())
	}
	return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"error": "User ID is required", "hint": hint})
}
