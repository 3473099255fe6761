// Package mysql implements the durable side of the user directory: the
// transactional unit of work and the SQL repository it scopes.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/usecase/port"
)

// SessionFactory hands out a fresh single-use session bound to the
// connection pool.
type SessionFactory func(ctx context.Context) (*sql.Conn, error)

// TxManager scopes one session per WithinTx call. A session is never shared
// across concurrent logical operations; only the pool beneath the factory is.
type TxManager struct {
	sessions SessionFactory
	logger   *logrus.Logger
}

// NewTxManager builds a TxManager over the pool's session factory.
func NewTxManager(db *sql.DB, logger *logrus.Logger) *TxManager {
	return &TxManager{
		sessions: db.Conn,
		logger:   logger,
	}
}

// WithinTx acquires a session, begins a transaction on it and runs fn with a
// repository bound to that transaction.
//
// fn returning nil commits; a failed commit is rolled back and surfaced as a
// transaction error. fn returning an error, or panicking, rolls back and the
// original failure propagates - rollback problems are logged, never allowed
// to mask it. The session is released unconditionally on the way out.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, users port.UserRepository) error) error {
	sess, err := m.sessions(ctx)
	if err != nil {
		return domain.NewTransactionError(err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && !errors.Is(cerr, sql.ErrConnDone) {
			m.logger.WithError(cerr).Error("failed to release session")
		}
	}()

	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewTransactionError(err)
	}
	m.logger.Debug("transaction started")

	defer func() {
		if p := recover(); p != nil {
			m.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(ctx, NewUserRepository(tx, m.logger)); err != nil {
		m.rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		m.logger.WithError(err).Error("commit failed")
		m.rollback(tx)
		return domain.NewTransactionError(err)
	}
	m.logger.Debug("transaction committed")
	return nil
}

func (m *TxManager) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		m.logger.WithError(err).Error("rollback failed")
		return
	}
	m.logger.Warn("transaction rolled back")
}
