package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/umcorp/users-management/internal/presentation/response"
)

// Recovery converts handler panics into 500 responses and logs them with the
// stack and, when present, the active trace.
func Recovery(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if p := recover(); p != nil {
					fields := logrus.Fields{
						"panic": fmt.Sprintf("%v", p),
						"stack": string(debug.Stack()),
						"path":  c.Request().URL.Path,
					}
					if span, ok := tracer.SpanFromContext(c.Request().Context()); ok {
						sc := span.Context()
						fields["dd.trace_id"] = sc.TraceID()
						fields["dd.span_id"] = sc.SpanID()
						span.SetTag("error", true)
						span.SetTag("error.type", "panic")
					}
					logger.WithFields(fields).Error("panic recovered")

					err = c.JSON(http.StatusInternalServerError, response.Error{
						ErrorType: "INTERNAL_SERVER_ERROR",
						Message:   "internal server error",
					})
				}
			}()
			return next(c)
		}
	}
}
