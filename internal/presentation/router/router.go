// Package router assembles the echo instance: middleware stack, API prefix
// and route table.
package router

import (
	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	echotrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"

	"github.com/umcorp/users-management/internal/presentation/handler"
	"github.com/umcorp/users-management/internal/presentation/middleware"
)

const apiPrefix = "/api/users-management"

// Setup builds the HTTP surface. Every /v1 route sits behind the API-key
// check; the health probes do not.
func Setup(
	user *handler.UserHandler,
	health *handler.HealthHandler,
	apiKey string,
	dev bool,
	logger *logrus.Logger,
	metrics statsd.ClientInterface,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echotrace.Middleware())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics(metrics))
	e.Use(middleware.CORS())

	root := e.Group(apiPrefix)

	hc := root.Group("/healthcheck")
	hc.GET("/liveness", health.Liveness)
	hc.GET("/readiness", health.Readiness)

	v1 := root.Group("/v1", middleware.APIKey(apiKey, logger, dev))
	v1.POST("/users", user.CreateUser)
	v1.GET("/users", user.GetUsers)
	v1.GET("/users/nicknames/:nickname", user.CheckNickname)
	v1.GET("/users/:user_id", user.GetUser)
	v1.PATCH("/users/:user_id", user.UpdateUser)
	v1.DELETE("/users/:user_id", user.DeleteUser)

	return e
}
