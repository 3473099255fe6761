// Package port declares the interfaces the use case layer consumes.
// Concrete implementations are injected at process start.
package port

import (
	"context"

	"github.com/umcorp/users-management/internal/domain"
)

// UserRepository executes durable operations against the session supplied by
// the active transaction scope. It never opens its own transaction.
//
// Absence is a result, not an error: the Get methods return (nil, nil) when
// no row matches, so callers can tell "not found" from "store broke" without
// inspecting error types.
type UserRepository interface {
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)
	// ListByIDs returns the found subset; deciding whether partial results
	// count as failure is the caller's business.
	ListByIDs(ctx context.Context, userIDs []int64) ([]domain.User, error)
	Create(ctx context.Context, data domain.NewUser) (*domain.User, error)
	// Update applies a non-empty partial field set and returns the updated
	// record, or (nil, nil) when the row does not exist.
	Update(ctx context.Context, userID int64, upd domain.UserUpdate) (*domain.User, error)
	// Delete is idempotent: deleting an absent row is not an error.
	Delete(ctx context.Context, userID int64) error
}

// TxManager scopes one durable-store session per call: it begins a
// transaction, hands fn a repository bound to it, commits on a nil return,
// rolls back otherwise, and always releases the session.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, users UserRepository) error) error
}

// UserCache is the volatile mirror of the user directory. Every operation can
// fail independently of the durable store; failures are wrapped into the
// cache error kind and the caller decides whether to tolerate them.
type UserCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, userID int64) (*domain.User, error)
	Add(ctx context.Context, user domain.User) error
	// GetList is all-or-nothing: if any requested key is absent the whole
	// lookup is a miss and (nil, nil) is returned.
	GetList(ctx context.Context, userIDs []int64) ([]domain.User, error)
	// AddList stores all records in a single round trip. Not atomic against
	// concurrent readers.
	AddList(ctx context.Context, users []domain.User) error
	Delete(ctx context.Context, userID int64) error
}

// UsersUseCase is the operation surface the HTTP layer consumes.
type UsersUseCase interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []int64) ([]domain.User, error)
	CheckNickname(ctx context.Context, nickname string) error
	CreateUser(ctx context.Context, data domain.NewUser) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int64, upd domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}
