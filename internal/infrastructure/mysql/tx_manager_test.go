package mysql

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/usecase/port"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTxManagerTest(t *testing.T) (*TxManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTxManager(db, testLogger()), mock
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	m, mock := newTxManagerTest(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	ran := false
	err := m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnScopeError(t *testing.T) {
	m, mock := newTxManagerTest(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	scopeErr := errors.New("scope failed")
	err := m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
		return scopeErr
	})

	assert.ErrorIs(t, err, scopeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxScopeErrorNotMaskedByRollbackFailure(t *testing.T) {
	m, mock := newTxManagerTest(t)

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))

	scopeErr := domain.ErrUserNotFound
	err := m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
		return scopeErr
	})

	assert.ErrorIs(t, err, scopeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxCommitFailureBecomesTransactionError(t *testing.T) {
	m, mock := newTxManagerTest(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("deadlock"))

	err := m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxBeginFailureBecomesTransactionError(t *testing.T) {
	m, mock := newTxManagerTest(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
		t.Fatal("scope must not run when begin fails")
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackAndRepanicsOnPanic(t *testing.T) {
	m, mock := newTxManagerTest(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxSessionFactoryFailure(t *testing.T) {
	factoryErr := errors.New("pool exhausted")
	m := &TxManager{
		sessions: func(ctx context.Context) (*sql.Conn, error) { return nil, factoryErr },
		logger:   testLogger(),
	}

	err := m.WithinTx(context.Background(), func(ctx context.Context, users port.UserRepository) error {
		t.Fatal("scope must not run without a session")
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrTransaction)
	assert.ErrorIs(t, err, factoryErr)
}
