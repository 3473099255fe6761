package main

import (
	"database/sql"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/config"
	"github.com/umcorp/users-management/internal/infrastructure/mysql"
	infraredis "github.com/umcorp/users-management/internal/infrastructure/redis"
	"github.com/umcorp/users-management/internal/infrastructure/tracing"
	"github.com/umcorp/users-management/internal/presentation/handler"
	"github.com/umcorp/users-management/internal/presentation/router"
	"github.com/umcorp/users-management/internal/usecase"
)

// App bundles the process-lifetime resources and the assembled HTTP surface.
// Construction order is store, cache, service, router; Close releases in
// reverse.
type App struct {
	Echo *echo.Echo

	db     *sql.DB
	cache  goredis.UniversalClient
	statsd *statsd.Client
	logger *logrus.Logger
}

// NewApp wires every component with constructor injection. No globals, no
// service lookup at request time.
func NewApp(cfg *config.Config, db *sql.DB, cache goredis.UniversalClient, metrics *statsd.Client, logger *logrus.Logger) *App {
	txManager := tracing.NewTxManagerTracer(mysql.NewTxManager(db, logger))
	userCache := tracing.NewUserCacheTracer(
		infraredis.NewUserCache(cache, cfg.Redis.TTL(), logger),
		cfg.Redis.TTL(),
	)

	users := usecase.NewUsersService(txManager, userCache, logger)

	userHandler := handler.NewUserHandler(users, logger, cfg.IsDev())
	healthHandler := handler.NewHealthHandler(db, cache, logger, cfg.IsDev())

	return &App{
		Echo:   router.Setup(userHandler, healthHandler, cfg.APIKey, cfg.IsDev(), logger, metrics),
		db:     db,
		cache:  cache,
		statsd: metrics,
		logger: logger,
	}
}

// Close releases resources in reverse startup order: cache first, then the
// durable store, then the metrics client.
func (a *App) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.WithError(err).Error("failed to close redis client")
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("failed to close mysql pool")
	}
	if err := a.statsd.Close(); err != nil {
		a.logger.WithError(err).Error("failed to close statsd client")
	}
}
