// Package redis implements the volatile user cache over a Redis client.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/domain"
)

// UserCache stores serialized user records under a fixed per-record TTL.
// It has no transactional semantics: every call is independent, and failures
// here never imply anything about the durable store.
type UserCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *logrus.Logger
}

// NewUserCache builds a cache with the given record lifetime.
func NewUserCache(client redis.UniversalClient, ttl time.Duration, logger *logrus.Logger) *UserCache {
	return &UserCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the configured record lifetime.
func (c *UserCache) TTL() time.Duration { return c.ttl }

// Key builds the cache key for a user id.
func Key(userID int64) string {
	return fmt.Sprintf("users:%d", userID)
}

// Get returns the cached record, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, userID int64) (*domain.User, error) {
	key := Key(userID)
	c.logger.WithField("key", key).Debug("cache get")

	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewCacheError(err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		// A corrupt entry is as useless as a missing one, but the caller
		// still gets to log it.
		return nil, domain.NewCacheError(err)
	}
	return &user, nil
}

// Add stores one record under the configured TTL.
func (c *UserCache) Add(ctx context.Context, user domain.User) error {
	key := Key(user.UserID)
	c.logger.WithField("key", key).Debug("cache add")

	value, err := json.Marshal(user)
	if err != nil {
		return domain.NewCacheError(err)
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return domain.NewCacheError(err)
	}
	return nil
}

// GetList returns all requested records, or (nil, nil) if even one key is
// absent. Callers must never reconstruct partial lists from cache.
func (c *UserCache) GetList(ctx context.Context, userIDs []int64) ([]domain.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = Key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.NewCacheError(err)
	}

	users := make([]domain.User, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			c.logger.WithField("keys", keys).Debug("cache list miss")
			return nil, nil
		}
		var user domain.User
		if err := json.Unmarshal([]byte(s), &user); err != nil {
			return nil, domain.NewCacheError(err)
		}
		users = append(users, user)
	}
	return users, nil
}

// AddList stores all records in one pipelined round trip. Not atomic against
// concurrent readers.
func (c *UserCache) AddList(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, user := range users {
			value, err := json.Marshal(user)
			if err != nil {
				return err
			}
			pipe.Set(ctx, Key(user.UserID), value, c.ttl)
		}
		return nil
	})
	if err != nil {
		return domain.NewCacheError(err)
	}
	return nil
}

// Delete drops the cached record, if any.
func (c *UserCache) Delete(ctx context.Context, userID int64) error {
	key := Key(userID)
	c.logger.WithField("key", key).Debug("cache delete")

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return domain.NewCacheError(err)
	}
	return nil
}
