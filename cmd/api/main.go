package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
	redistrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/redis/go-redis.v9"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	_ "github.com/go-sql-driver/mysql"

	"github.com/umcorp/users-management/internal/common/logging"
	"github.com/umcorp/users-management/internal/config"
)

const (
	serviceName     = "users-management"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(false).WithError(err).Fatal("failed to load configuration")
	}

	logger := logging.New(cfg.IsDev())

	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithEnv(cfg.Mode),
	)
	defer tracer.Stop()

	if err := profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithEnv(cfg.Mode),
		profiler.WithProfileTypes(profiler.CPUProfile, profiler.HeapProfile),
	); err != nil {
		logger.WithError(err).Warn("failed to start profiler")
	} else {
		defer profiler.Stop()
	}

	metrics, err := statsd.New("", statsd.WithNamespace(serviceName+"."))
	if err != nil {
		logger.WithError(err).Fatal("failed to create statsd client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable store comes up before the volatile cache.
	db, err := sqltrace.Open("mysql", cfg.MySQL.DSN(), sqltrace.WithServiceName(serviceName+"-mysql"))
	if err != nil {
		logger.WithError(err).Fatal("failed to open mysql pool")
	}
	db.SetMaxOpenConns(cfg.MySQL.PoolSize)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.WithError(err).Fatal("failed to ping mysql")
	}

	cache := redistrace.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr(),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, redistrace.WithServiceName(serviceName+"-redis"))
	if err := cache.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to ping redis")
	}

	app := NewApp(cfg, db, cache, metrics, logger)
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("port", cfg.HTTPPort).Info("starting http server")
		if err := app.Echo.Start(fmt.Sprintf(":%d", cfg.HTTPPort)); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.Echo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server terminated with error")
		os.Exit(1)
	}
	logger.Info("server stopped")
}
