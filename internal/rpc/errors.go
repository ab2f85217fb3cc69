package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/youome/internal/models"
)

// CodeOf maps a service error to its Connect code.
func CodeOf(err error) connect.Code {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr.Code()
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidSplit),
		errors.Is(err, models.ErrCurrencyMismatch),
		errors.Is(err, models.ErrInvalidInput):
		return connect.CodeInvalidArgument
	case errors.Is(err, models.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, models.ErrConflict):
		return connect.CodeAlreadyExists
	default:
		return connect.CodeInternal
	}
}

func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	return connect.NewError(CodeOf(err), err)
}
