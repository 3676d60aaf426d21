package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sareeta/authgate/core"
)

// ErrUnauthenticated is passed to the ErrorHandler when a protected method is
// called without a verified subject.
var ErrUnauthenticated = errors.New("authentication required")

// ErrorHandler converts authentication errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps authentication errors to gRPC status codes.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return mapValidationError(validationErr)
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "authentication required")
	case errors.Is(err, ErrMultipleAuthHeaders):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	// Unknown failures stay Unauthenticated so verification details never
	// surface as internal errors.
	return status.Error(codes.Unauthenticated, "invalid or malformed token")
}

func mapValidationError(err *core.ValidationError) error {
	switch err.Code {
	case core.ErrorCodeTokenExpired:
		return status.Error(codes.Unauthenticated, "token expired")
	case core.ErrorCodeTokenNotYetValid:
		return status.Error(codes.Unauthenticated, "token not yet valid")
	case core.ErrorCodeInvalidSignature:
		return status.Error(codes.Unauthenticated, "invalid signature")
	case core.ErrorCodeInvalidAlgorithm:
		return status.Error(codes.Unauthenticated, "invalid algorithm")
	case core.ErrorCodeMissingSubject:
		return status.Error(codes.Unauthenticated, "missing subject")
	case core.ErrorCodeValidatorNotSet:
		return status.Error(codes.Internal, "unable to verify token")
	default:
		return status.Error(codes.Unauthenticated, "malformed token")
	}
}
