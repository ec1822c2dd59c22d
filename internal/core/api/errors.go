package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/tagkeeper/internal/types"
)

// errorCode maps a service error to a gRPC code.
// Expression and validation errors map to INVALID_ARGUMENT.
// Missing expressions map to NOT_FOUND.
// Context timeouts map to DEADLINE_EXCEEDED.
// Everything else comes from the store and maps to UNAVAILABLE.
func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, types.ErrMalformedExpression),
		errors.Is(err, types.ErrUnknownTag),
		errors.Is(err, types.ErrUnsupportedValueShape),
		errors.Is(err, types.ErrInvalidConditionTree):
		return codes.InvalidArgument
	case errors.Is(err, types.ErrExpressionNotFound):
		return codes.NotFound
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Unavailable
	}
}

// toStatus converts err into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(errorCode(err), err.Error())
}
