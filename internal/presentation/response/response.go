// Package response shapes the wire-level success and error bodies.
package response

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/umcorp/users-management/internal/domain"
)

// Success is the body of operations with nothing to return.
type Success struct {
	Message string `json:"message"`
}

// Error is the wire shape of every failure: a stable machine-readable code
// plus a human message.
type Error struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

// NewSuccess returns the canonical success body.
func NewSuccess() Success {
	return Success{Message: "success"}
}

// RenderError maps err onto its HTTP status and wire body. Outside of
// development mode the message is the kind's static description, so internals
// never leak to clients.
func RenderError(c echo.Context, err error, dev bool) error {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.ErrInternal
		if dev {
			return c.JSON(derr.Status, Error{ErrorType: derr.Code, Message: err.Error()})
		}
	}
	return c.JSON(derr.Status, Error{
		ErrorType: derr.Code,
		Message:   derr.PublicMessage(dev),
	})
}
