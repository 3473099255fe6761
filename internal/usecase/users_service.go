// Package usecase implements the user-directory business logic: the
// cache-aside read/write choreography over the durable store and the
// volatile cache.
package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/usecase/port"
)

// UsersService is the only component aware of both the durable repository and
// the cache. The two repositories know nothing about each other.
//
// Cache failures are demoted to warnings in every method: the cache is an
// optimization, never a correctness dependency, so every operation succeeds
// or fails on the durable store alone.
type UsersService struct {
	logger *logrus.Logger
	tx     port.TxManager
	cache  port.UserCache
}

// NewUsersService wires the service with its collaborators.
func NewUsersService(tx port.TxManager, cache port.UserCache, logger *logrus.Logger) *UsersService {
	return &UsersService{
		logger: logger,
		tx:     tx,
		cache:  cache,
	}
}

// GetUserByID serves a read through the cache; on a miss it falls back to the
// durable store and repopulates the cache best-effort.
func (s *UsersService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.get_user_by_id")
	defer span.Finish()
	span.SetTag("user.id", userID)

	if user := s.cachedUser(ctx, userID); user != nil {
		span.SetTag("cache.hit", true)
		s.logger.WithField("user_id", userID).Info("user found in cache")
		return user, nil
	}
	span.SetTag("cache.hit", false)

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, users port.UserRepository) error {
		u, err := users.GetByID(ctx, userID)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	s.cacheAdd(ctx, *user)
	return user, nil
}

// GetUsersByIDs serves a batch read. The cache path is all-or-nothing: a
// single absent key forces a full durable re-read so the returned list is
// internally consistent. The durable path is also all-or-nothing: fewer rows
// than requested ids is a not-found for the whole call.
func (s *UsersService) GetUsersByIDs(ctx context.Context, userIDs []int64) ([]domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.get_users_by_ids")
	defer span.Finish()
	span.SetTag("users.requested", len(userIDs))

	if users := s.cachedUsers(ctx, userIDs); users != nil {
		span.SetTag("cache.hit", true)
		s.logger.WithField("users_id", userIDs).Info("users found in cache")
		return users, nil
	}
	span.SetTag("cache.hit", false)

	var users []domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo port.UserRepository) error {
		list, err := repo.ListByIDs(ctx, userIDs)
		users = list
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(users) < len(userIDs) {
		return nil, domain.ErrUserNotFound
	}

	s.cacheAddList(ctx, users)
	return users, nil
}

// CheckNickname reports whether a nickname is free. This is a
// freshness-sensitive check, so it always reads the durable store and never
// the cache. A taken nickname is a conflict, not a lookup result.
func (s *UsersService) CheckNickname(ctx context.Context, nickname string) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.check_nickname")
	defer span.Finish()
	span.SetTag("user.nickname", nickname)

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, users port.UserRepository) error {
		u, err := users.GetByNickname(ctx, nickname)
		user = u
		return err
	})
	if err != nil {
		return err
	}
	if user != nil {
		return domain.ErrUserExists
	}
	return nil
}

// CreateUser inserts a new record. The nickname pre-check runs inside the
// same transaction as the insert to close the check-then-insert race as far
// as the store allows; the UNIQUE constraint on nickname remains the real
// guarantee, the pre-check only buys a clean conflict response.
func (s *UsersService) CreateUser(ctx context.Context, data domain.NewUser) (*domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.create_user")
	defer span.Finish()
	span.SetTag("user.id", data.UserID)
	span.SetTag("user.nickname", data.Nickname)

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, users port.UserRepository) error {
		existing, err := users.GetByNickname(ctx, data.Nickname)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrNicknameTaken
		}
		u, err := users.Create(ctx, data)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.UserID,
		"nickname": user.Nickname,
	}).Info("user created")

	s.cacheAdd(ctx, *user)
	return user, nil
}

// UpdateUser applies a partial update. An empty field set is a client error:
// it is rejected before any durable call is made.
func (s *UsersService) UpdateUser(ctx context.Context, userID int64, upd domain.UserUpdate) (*domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.update_user")
	defer span.Finish()
	span.SetTag("user.id", userID)

	if upd.IsEmpty() {
		return nil, domain.ErrDataNotTransmitted
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, users port.UserRepository) error {
		u, err := users.Update(ctx, userID, upd)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	s.cacheAdd(ctx, *user)
	return user, nil
}

// DeleteUser removes the record and invalidates its cached copy. The durable
// delete is idempotent.
func (s *UsersService) DeleteUser(ctx context.Context, userID int64) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.delete_user")
	defer span.Finish()
	span.SetTag("user.id", userID)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, users port.UserRepository) error {
		return users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.cacheDelete(ctx, userID)
	return nil
}

// The helpers below are the single place cache errors get swallowed. Every
// cache touch in this service goes through them.

func (s *UsersService) cachedUser(ctx context.Context, userID int64) *domain.User {
	user, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("cache read failed")
		return nil
	}
	return user
}

func (s *UsersService) cachedUsers(ctx context.Context, userIDs []int64) []domain.User {
	users, err := s.cache.GetList(ctx, userIDs)
	if err != nil {
		s.logger.WithError(err).WithField("users_id", userIDs).Warn("cache list read failed")
		return nil
	}
	return users
}

func (s *UsersService) cacheAdd(ctx context.Context, user domain.User) {
	if err := s.cache.Add(ctx, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.UserID).Warn("cache write failed")
	}
}

func (s *UsersService) cacheAddList(ctx context.Context, users []domain.User) {
	if err := s.cache.AddList(ctx, users); err != nil {
		s.logger.WithError(err).Warn("cache list write failed")
	}
}

func (s *UsersService) cacheDelete(ctx context.Context, userID int64) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("cache invalidation failed")
	}
}
