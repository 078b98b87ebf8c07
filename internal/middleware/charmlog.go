package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs every control request at debug level, and failed ones as
// warnings.
func CharmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"took", time.Since(start),
			}

			if status >= 400 {
				log.Warn("control request", fields...)
			} else {
				log.Debug("control request", fields...)
			}
			return nil
		}
	}
}
