// Package tracing provides Datadog tracing decorators for the storage ports.
// The base implementations stay trace-free; decoration happens at wiring
// time in cmd/api.
package tracing

import (
	"context"
	"time"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/usecase/port"
)

// UserCacheTracer wraps a UserCache with per-operation spans.
type UserCacheTracer struct {
	cache port.UserCache
	ttl   time.Duration
}

// NewUserCacheTracer decorates cache with tracing.
func NewUserCacheTracer(cache port.UserCache, ttl time.Duration) port.UserCache {
	return &UserCacheTracer{
		cache: cache,
		ttl:   ttl,
	}
}

func (t *UserCacheTracer) Get(ctx context.Context, userID int64) (*domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "redis.get")
	defer span.Finish()
	span.SetTag("db.type", "redis")
	span.SetTag("db.operation", "GET")
	span.SetTag("user.id", userID)

	user, err := t.cache.Get(ctx, userID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}
	span.SetTag("cache.hit", user != nil)
	return user, nil
}

func (t *UserCacheTracer) Add(ctx context.Context, user domain.User) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "redis.set")
	defer span.Finish()
	span.SetTag("db.type", "redis")
	span.SetTag("db.operation", "SET")
	span.SetTag("user.id", user.UserID)
	span.SetTag("cache.ttl", t.ttl.Seconds())

	err := t.cache.Add(ctx, user)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
	}
	return err
}

func (t *UserCacheTracer) GetList(ctx context.Context, userIDs []int64) ([]domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "redis.mget")
	defer span.Finish()
	span.SetTag("db.type", "redis")
	span.SetTag("db.operation", "MGET")
	span.SetTag("users.requested", len(userIDs))

	users, err := t.cache.GetList(ctx, userIDs)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}
	span.SetTag("cache.hit", users != nil)
	return users, nil
}

func (t *UserCacheTracer) AddList(ctx context.Context, users []domain.User) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "redis.pipeline_set")
	defer span.Finish()
	span.SetTag("db.type", "redis")
	span.SetTag("db.operation", "PIPELINE SET")
	span.SetTag("users.count", len(users))
	span.SetTag("cache.ttl", t.ttl.Seconds())

	err := t.cache.AddList(ctx, users)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
	}
	return err
}

func (t *UserCacheTracer) Delete(ctx context.Context, userID int64) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "redis.del")
	defer span.Finish()
	span.SetTag("db.type", "redis")
	span.SetTag("db.operation", "DEL")
	span.SetTag("user.id", userID)

	err := t.cache.Delete(ctx, userID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
	}
	return err
}
