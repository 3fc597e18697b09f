package middleware

import (
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthbridge/healthbridge/pkg/webapi"
)

// Recovery converts a handler panic into the standard 500 envelope so one
// bad request cannot take the server down. The stack is logged, never sent
// to the caller.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 4096)
					n := runtime.Stack(stack, false)
					rid, _ := c.Get("request_id").(string)

					logger.Error().
						Str("request_id", rid).
						Interface("panic", r).
						Bytes("stack", stack[:n]).
						Msg("panic recovered")

					err = webapi.Fail(c, http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}
