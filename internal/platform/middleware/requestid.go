package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to every request, honoring one supplied by
// the caller so IDs survive proxy hops.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(requestIDHeader, id)
			c.Set("request_id", id)
			return next(c)
		}
	}
}
