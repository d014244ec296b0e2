package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/edutrack/edutrack/core"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCtxKey = "session"
)

// sessionMiddleware stores the caller's import session in the echo.Context.
func sessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(sessionCtxKey, core.CleanSession(ctx.Request().Header.Get(sessionHeader)))
			return next(ctx)
		}
	}
}

func sessionFromContext(ctx echo.Context) core.Session {
	if session, ok := ctx.Get(sessionCtxKey).(core.Session); ok {
		return session
	}
	return core.CleanSession(ctx.Request().Header.Get(sessionHeader))
}
