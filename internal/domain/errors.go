package domain

import (
	"fmt"
	"net/http"
)

// Error is the single error currency crossing layer boundaries. Store-native
// and cache-native errors are wrapped into one of the kinds below at the
// repository boundary; handlers map Code/Status straight onto the response.
type Error struct {
	// Code is the stable machine-readable error type.
	Code string
	// Status is the HTTP status the code maps to.
	Status int
	// Description is the static human-readable summary. It is what clients
	// see outside of development mode.
	Description string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Description, e.cause)
	}
	return e.Description
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches by code, so errors.Is(err, ErrRepository) works for any wrapped
// instance of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// PublicMessage returns the message safe to expose to clients. In development
// mode the full message (including the cause) is returned; otherwise the
// static description.
func (e *Error) PublicMessage(dev bool) string {
	if dev {
		return e.Error()
	}
	return e.Description
}

var (
	// ErrRepository covers any durable-store failure. Always fatal to the
	// current operation.
	ErrRepository = &Error{Code: "SQL_REPOSITORY_ERROR", Status: http.StatusInternalServerError, Description: "SQL repository working error"}

	// ErrCache covers any cache failure. Never surfaced by the service;
	// recovered and logged at the service boundary.
	ErrCache = &Error{Code: "REDIS_ERROR", Status: http.StatusInternalServerError, Description: "cache operation failed"}

	// ErrTransaction covers begin/commit failures inside the unit of work.
	ErrTransaction = &Error{Code: "TRANSACTION_ERROR", Status: http.StatusInternalServerError, Description: "transaction error"}

	ErrAccessDenied = &Error{Code: "API_KEY_ERROR", Status: http.StatusForbidden, Description: "API key rejected"}

	ErrUserNotFound = &Error{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Description: "user not found"}

	ErrUserExists = &Error{Code: "USER_EXIST", Status: http.StatusConflict, Description: "user already exists"}

	ErrNicknameTaken = &Error{Code: "USERNAME_ALREADY_EXIST", Status: http.StatusConflict, Description: "a user with this nickname already exists"}

	ErrDataNotTransmitted = &Error{Code: "MISSING_DATA", Status: http.StatusBadRequest, Description: "the data was not transmitted"}

	// ErrValidation covers malformed request parameters and bodies before
	// they reach the service.
	ErrValidation = &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Description: "request validation failed"}

	// ErrInternal is the fallback for errors that escaped classification.
	ErrInternal = &Error{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusInternalServerError, Description: "internal server error"}
)

// NewRepositoryError wraps a store-native error into the repository kind.
func NewRepositoryError(cause error) *Error {
	return &Error{Code: ErrRepository.Code, Status: ErrRepository.Status, Description: ErrRepository.Description, cause: cause}
}

// NewCacheError wraps a cache-native error into the cache kind.
func NewCacheError(cause error) *Error {
	return &Error{Code: ErrCache.Code, Status: ErrCache.Status, Description: ErrCache.Description, cause: cause}
}

// NewTransactionError wraps a commit/begin failure into the transaction kind.
func NewTransactionError(cause error) *Error {
	return &Error{Code: ErrTransaction.Code, Status: ErrTransaction.Status, Description: ErrTransaction.Description, cause: cause}
}
