package authgate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sareeta/authgate/core"
)

var (
	// ErrJWTInvalid is returned when a presented token failed verification.
	ErrJWTInvalid = core.ErrJWTInvalid

	// ErrUnauthenticated is passed to the ErrorHandler by RequireAuthentication
	// when the request reached a guarded route without a verified subject.
	ErrUnauthenticated = errors.New("authentication required")
)

// ErrorHandler is a handler which is called when the gate or a guard decides
// to stop a request. The err can be checked to be ErrUnauthenticated or
// ErrJWTInvalid for specific cases. The default handler will return a status
// code of 401 for both and 500 for all other errors. If you implement your
// own ErrorHandler you MUST take into consideration the error types as not
// properly responding to them could let unauthenticated requests through.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is the default error handler implementation. If an
// error handler is not provided via the WithErrorHandler option this will be used.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authentication is required."}`))
	case errors.Is(err, ErrJWTInvalid):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT is invalid."}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Something went wrong while checking the JWT."}`))
	}
}

// invalidError handles wrapping a token verification error with
// the concrete error ErrJWTInvalid. We do not expose this
// publicly because the interface methods of Is and Unwrap
// should give the user all they need.
type invalidError struct {
	details error
}

// Is allows the error to support equality to ErrJWTInvalid.
func (e invalidError) Is(target error) bool {
	return target == ErrJWTInvalid
}

// Error returns a string representation of the error.
func (e invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrJWTInvalid, e.details)
}

// Unwrap allows the error to support equality to the
// underlying error and not just ErrJWTInvalid.
func (e invalidError) Unwrap() error {
	return e.details
}
