package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	wrapped := NewRepositoryError(errors.New("connection refused"))

	assert.True(t, errors.Is(wrapped, ErrRepository))
	assert.False(t, errors.Is(wrapped, ErrCache))
	assert.False(t, errors.Is(wrapped, ErrTransaction))
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	wrapped := NewTransactionError(fmt.Errorf("begin: %w", cause))

	assert.True(t, errors.Is(wrapped, cause))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	wrapped := NewCacheError(errors.New("dial tcp: connection refused"))

	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.Contains(t, wrapped.Error(), ErrCache.Description)
}

func TestPublicMessageMasksCauseOutsideDev(t *testing.T) {
	wrapped := NewRepositoryError(errors.New("Error 1045: Access denied for user"))

	assert.Equal(t, ErrRepository.Description, wrapped.PublicMessage(false))
	assert.Contains(t, wrapped.PublicMessage(true), "Error 1045")
}

func TestSentinelStatuses(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ErrUserNotFound, 404},
		{ErrUserExists, 409},
		{ErrNicknameTaken, 409},
		{ErrDataNotTransmitted, 400},
		{ErrValidation, 400},
		{ErrAccessDenied, 403},
		{ErrRepository, 500},
		{ErrTransaction, 500},
		{ErrInternal, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status, tt.err.Code)
	}
}

func TestErrorsAsRecoversType(t *testing.T) {
	var derr *Error
	wrapped := fmt.Errorf("handler: %w", ErrUserNotFound)

	require.True(t, errors.As(wrapped, &derr))
	assert.Equal(t, "USER_NOT_FOUND", derr.Code)
}
