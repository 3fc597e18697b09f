package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthbridge/healthbridge/internal/platform/auth"
)

// Logger emits one structured line per request, tagged with the request ID
// assigned upstream and, for authenticated callers, the organization the
// session belongs to.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Int64("bytes_out", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())
			if ident := auth.FromRequest(c); ident.OrganizationID != "" {
				evt.Str("org_id", ident.OrganizationID)
			}
			evt.Msg("request")

			return err
		}
	}
}
