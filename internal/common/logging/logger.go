// Package logging configures the process logger and correlates log entries
// with the active trace.
package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// New builds the process-wide JSON logger. Debug level is enabled in
// development mode only.
func New(dev bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if dev {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// WithTrace returns an entry carrying the trace/span ids of the active span,
// if any, so log lines can be joined with traces.
func WithTrace(ctx context.Context, logger *logrus.Logger) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	if span, ok := tracer.SpanFromContext(ctx); ok {
		sc := span.Context()
		entry = entry.WithFields(logrus.Fields{
			"dd.trace_id": sc.TraceID(),
			"dd.span_id":  sc.SpanID(),
		})
	}
	return entry
}
