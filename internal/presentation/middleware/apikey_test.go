package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umcorp/users-management/internal/presentation/response"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func callAPIKey(t *testing.T, key string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/7", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	next := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, APIKey("secret", testLogger(), false)(next)(c))
	return rec, reached
}

func TestAPIKeyAcceptsMatchingKey(t *testing.T) {
	rec, reached := callAPIKey(t, "secret")

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyRejectsWrongKey(t *testing.T) {
	rec, reached := callAPIKey(t, "wrong")

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body response.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "API_KEY_ERROR", body.ErrorType)
}

func TestAPIKeyRejectsMissingHeader(t *testing.T) {
	rec, reached := callAPIKey(t, "")

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
