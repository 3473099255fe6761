package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/domain"
)

// Executor is the slice of a session the repository needs. *sql.Tx, *sql.Conn
// and *sql.DB all satisfy it; in production the TxManager supplies the
// transaction of the active scope.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const userColumns = "user_id, nickname, is_active, is_verified, avatar, created_at, updated_at"

var errEmptyUpdate = errors.New("empty update field set")

// UserRepository executes the durable user operations against a
// caller-supplied session. It never opens its own transaction.
//
// Every store-native error leaves this package wrapped into the repository
// error kind; callers never see driver types.
type UserRepository struct {
	sess   Executor
	logger *logrus.Logger
}

// NewUserRepository binds a repository to one session.
func NewUserRepository(sess Executor, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		sess:   sess,
		logger: logger,
	}
}

// GetByID looks a user up by id. Absence is (nil, nil), not an error.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE user_id = ?"

	user, err := scanUser(r.sess.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.WithField("user_id", userID).Info("user not found")
			return nil, nil
		}
		return nil, r.wrap("get_by_id", err)
	}
	return user, nil
}

// GetByNickname looks a user up by nickname. Absence is (nil, nil).
func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE nickname = ?"

	user, err := scanUser(r.sess.QueryRowContext(ctx, query, nickname))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.WithField("nickname", nickname).Info("user not found")
			return nil, nil
		}
		return nil, r.wrap("get_by_nickname", err)
	}
	return user, nil
}

// ListByIDs returns the subset of users whose ids exist. The caller decides
// whether a partial result counts as failure.
func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []int64) ([]domain.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(userIDs))
	query := fmt.Sprintf("SELECT %s FROM users WHERE user_id IN (%s)",
		userColumns, placeholders[:len(placeholders)-1])

	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := r.sess.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.wrap("list_by_ids", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UserID, &u.Nickname, &u.IsActive, &u.IsVerified, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, r.wrap("list_by_ids", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("list_by_ids", err)
	}
	return users, nil
}

// Create inserts a record and reads it back so store-assigned timestamps and
// defaults come from the row itself. A duplicate key surfaces as a repository
// error; the service pre-checks the nickname for a clean conflict response.
func (r *UserRepository) Create(ctx context.Context, data domain.NewUser) (*domain.User, error) {
	query := "INSERT INTO users (user_id, nickname) VALUES (?, ?)"

	if _, err := r.sess.ExecContext(ctx, query, data.UserID, data.Nickname); err != nil {
		return nil, r.wrap("create", err)
	}

	user, err := scanUser(r.sess.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id = ?", data.UserID))
	if err != nil {
		return nil, r.wrap("create", err)
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":  user.UserID,
		"nickname": user.Nickname,
	}).Info("user row inserted")
	return user, nil
}

// Update applies the non-nil fields of upd and returns the updated record,
// or (nil, nil) when no row with that id exists.
func (r *UserRepository) Update(ctx context.Context, userID int64, upd domain.UserUpdate) (*domain.User, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.Nickname != nil {
		set = append(set, "nickname = ?")
		args = append(args, *upd.Nickname)
	}
	if upd.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if upd.IsVerified != nil {
		set = append(set, "is_verified = ?")
		args = append(args, *upd.IsVerified)
	}
	if upd.Avatar != nil {
		set = append(set, "avatar = ?")
		args = append(args, *upd.Avatar)
	}
	if len(set) == 0 {
		return nil, r.wrap("update", errEmptyUpdate)
	}
	args = append(args, userID)

	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE user_id = ?"
	if _, err := r.sess.ExecContext(ctx, query, args...); err != nil {
		return nil, r.wrap("update", err)
	}

	// Rows-affected is unreliable for no-change updates, so existence is
	// settled by reading the row back inside the same transaction.
	user, err := scanUser(r.sess.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id = ?", userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.WithField("user_id", userID).Info("user not found")
			return nil, nil
		}
		return nil, r.wrap("update", err)
	}

	r.logger.WithField("user_id", userID).Info("user row updated")
	return user, nil
}

// Delete removes the row if it exists. Deleting an absent id is not an error.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	query := "DELETE FROM users WHERE user_id = ?"

	if _, err := r.sess.ExecContext(ctx, query, userID); err != nil {
		return r.wrap("delete", err)
	}
	r.logger.WithField("user_id", userID).Info("user row deleted")
	return nil
}

// wrap is the single error-mapping point of the repository boundary.
func (r *UserRepository) wrap(op string, err error) error {
	r.logger.WithError(err).WithField("op", op).Error("sql repository error")
	return domain.NewRepositoryError(err)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.UserID, &u.Nickname, &u.IsActive, &u.IsVerified, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
