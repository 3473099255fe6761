package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/common/logging"
)

// RequestLogger emits one structured line per request with method, path,
// status and latency, correlated with the active trace.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logging.WithTrace(c.Request().Context(), logger).WithFields(logrus.Fields{
				"method":      c.Request().Method,
				"path":        c.Request().URL.Path,
				"status":      c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
				"client_ip":   c.RealIP(),
				"request_id":  c.Request().Header.Get("X-Request-ID"),
			}).Info("request handled")
			return nil
		}
	}
}
