// Package middleware holds the echo middleware stack of the API.
package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/presentation/response"
)

const apiKeyHeader = "X-API-Key"

// APIKey rejects requests whose X-API-Key header does not match the
// configured key.
func APIKey(expected string, logger *logrus.Logger, dev bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
				logger.WithFields(logrus.Fields{
					"method": c.Request().Method,
					"path":   c.Request().URL.Path,
				}).Warn("API key rejected")
				return response.RenderError(c, domain.ErrAccessDenied, dev)
			}
			return next(c)
		}
	}
}
