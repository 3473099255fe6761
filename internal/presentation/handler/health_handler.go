package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/presentation/response"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db     *sql.DB
	cache  redis.UniversalClient
	logger *logrus.Logger
	dev    bool
}

// NewHealthHandler wires the probes with the live connections.
func NewHealthHandler(db *sql.DB, cache redis.UniversalClient, logger *logrus.Logger, dev bool) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
		dev:    dev,
	}
}

// Liveness reports that the process is up. No dependency is touched.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, response.NewSuccess())
}

// Readiness pings both backing stores. Either failing makes the service not
// ready.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cache.Ping(ctx).Err(); err != nil {
		h.logger.WithError(err).Error("readiness: redis ping failed")
		return response.RenderError(c, domain.NewCacheError(err), h.dev)
	}
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Error("readiness: mysql ping failed")
		return response.RenderError(c, domain.NewRepositoryError(err), h.dev)
	}
	return c.JSON(http.StatusOK, response.NewSuccess())
}
