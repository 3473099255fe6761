// Package handler implements the HTTP endpoints of the users-management API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/umcorp/users-management/internal/common/logging"
	"github.com/umcorp/users-management/internal/domain"
	"github.com/umcorp/users-management/internal/presentation/response"
	"github.com/umcorp/users-management/internal/usecase/port"
)

// UserHandler translates HTTP requests into use case calls and errors into
// wire responses. All business decisions live below it.
type UserHandler struct {
	users  port.UsersUseCase
	logger *logrus.Logger
	dev    bool
}

// NewUserHandler wires the handler with the use case surface.
func NewUserHandler(users port.UsersUseCase, logger *logrus.Logger, dev bool) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
		dev:    dev,
	}
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
}

// CreateUser handles POST /v1/users.
func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.RenderError(c, domain.ErrValidation, h.dev)
	}
	if req.UserID <= 0 || req.Nickname == "" {
		return response.RenderError(c, domain.ErrValidation, h.dev)
	}

	user, err := h.users.CreateUser(ctx, domain.NewUser{UserID: req.UserID, Nickname: req.Nickname})
	if err != nil {
		h.logError(c, "create user failed", err)
		return response.RenderError(c, err, h.dev)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /v1/users/:user_id.
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := parseUserID(c)
	if err != nil {
		return response.RenderError(c, err, h.dev)
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logError(c, "get user failed", err)
		return response.RenderError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUsers handles GET /v1/users?users_id=1&users_id=2.
func (h *UserHandler) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()

	raw := c.QueryParams()["users_id"]
	if len(raw) == 0 {
		return response.RenderError(c, domain.ErrValidation, h.dev)
	}
	userIDs := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return response.RenderError(c, domain.ErrValidation, h.dev)
		}
		userIDs = append(userIDs, id)
	}

	users, err := h.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		h.logError(c, "get users failed", err)
		return response.RenderError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser handles PATCH /v1/users/:user_id.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := parseUserID(c)
	if err != nil {
		return response.RenderError(c, err, h.dev)
	}

	var upd domain.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return response.RenderError(c, domain.ErrValidation, h.dev)
	}

	user, err := h.users.UpdateUser(ctx, userID, upd)
	if err != nil {
		h.logError(c, "update user failed", err)
		return response.RenderError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /v1/users/:user_id.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := parseUserID(c)
	if err != nil {
		return response.RenderError(c, err, h.dev)
	}

	if err := h.users.DeleteUser(ctx, userID); err != nil {
		h.logError(c, "delete user failed", err)
		return response.RenderError(c, err, h.dev)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckNickname handles GET /v1/users/nicknames/:nickname. A free nickname is
// a success; a taken one is a conflict.
func (h *UserHandler) CheckNickname(c echo.Context) error {
	ctx := c.Request().Context()

	nickname := c.Param("nickname")
	if nickname == "" {
		return response.RenderError(c, domain.ErrValidation, h.dev)
	}

	if err := h.users.CheckNickname(ctx, nickname); err != nil {
		h.logError(c, "nickname check failed", err)
		return response.RenderError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, response.NewSuccess())
}

func (h *UserHandler) logError(c echo.Context, msg string, err error) {
	logging.WithTrace(c.Request().Context(), h.logger).WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
	}).Error(msg)
}

func parseUserID(c echo.Context) (int64, error) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, domain.ErrValidation
	}
	return userID, nil
}
