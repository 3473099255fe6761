package middleware

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/labstack/echo/v4"
)

// Metrics reports request counts and latency to DogStatsD, tagged by method,
// route and status class.
func Metrics(client statsd.ClientInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			tags := []string{
				"method:" + c.Request().Method,
				"route:" + c.Path(),
				fmt.Sprintf("status:%d", c.Response().Status),
			}
			_ = client.Incr("http.requests", tags, 1)
			_ = client.Timing("http.request_duration", time.Since(start), tags, 1)
			return err
		}
	}
}
