// Package core provides framework-agnostic bearer token authentication logic
// that can be used across different transport layers (HTTP, gRPC, etc.).
//
// The Core type turns a raw token into an Authentication and can be wrapped by
// transport-specific adapters to provide middleware for various frameworks.
package core

import (
	"context"
	"fmt"
	"time"
)

// Claims is the minimal view of verified token claims the Core needs to
// build an Authentication.
type Claims interface {
	GetSubject() string
	GetAuthorities() []string
}

// Validator defines the interface for token verification.
// Implementations must be safe for concurrent use and must not mutate shared state.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (Claims, error)
}

// Logger defines an optional logging interface for the core middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Recorder receives one observation per verification attempt.
// outcome is "authenticated" or "rejected"; reason is a ValidationError code
// or "" on success.
type Recorder interface {
	ObserveVerification(outcome, reason string, duration time.Duration)
}

// FailurePolicy decides what happens to a request whose token was presented
// but failed verification.
type FailurePolicy int

const (
	// FailurePolicyAnonymous degrades a failed verification to an anonymous
	// request. Downstream guards decide whether anonymous access is allowed.
	FailurePolicyAnonymous FailurePolicy = iota

	// FailurePolicyReject short-circuits the request with the verification error.
	FailurePolicyReject
)

// String implements fmt.Stringer.
func (p FailurePolicy) String() string {
	switch p {
	case FailurePolicyAnonymous:
		return "anonymous"
	case FailurePolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// Outcome labels passed to Recorder.
const (
	OutcomeAuthenticated = "authenticated"
	OutcomeRejected      = "rejected"
)

// Core is the framework-agnostic authentication engine.
// It contains the core logic for token verification without any dependency
// on specific transport protocols (HTTP, gRPC, etc.).
type Core struct {
	validator     Validator
	failurePolicy FailurePolicy
	logger        Logger
	recorder      Recorder
}

// CheckToken verifies token and returns the Authentication to install for the request.
//
// This is the core logic that is framework-agnostic:
//   - If token is empty, returns Anonymous with no error. A missing or
//     differently-prefixed header is a normal anonymous request.
//   - If verification fails, returns Anonymous. The error is returned only
//     under FailurePolicyReject; under FailurePolicyAnonymous it is logged and
//     recorded but swallowed.
//   - Otherwise returns Authenticated along with the verified claims.
func (c *Core) CheckToken(ctx context.Context, token string) (Authentication, Claims, error) {
	if token == "" {
		if c.logger != nil {
			c.logger.Debug("No token provided, continuing as anonymous")
		}
		return Anonymous(), nil, nil
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)

	if err == nil && (claims == nil || claims.GetSubject() == "") {
		err = NewValidationError(ErrorCodeMissingSubject, "token has no subject claim", nil)
	}

	if err != nil {
		reason := ErrorCode(err)
		if reason == "" {
			reason = ErrorCodeTokenMalformed
		}
		if c.recorder != nil {
			c.recorder.ObserveVerification(OutcomeRejected, reason, duration)
		}

		if c.failurePolicy == FailurePolicyReject {
			if c.logger != nil {
				c.logger.Warn("Token verification failed, rejecting request",
					"reason", reason, "error", err, "duration", duration)
			}
			return Anonymous(), nil, err
		}

		if c.logger != nil {
			c.logger.Info("Token verification failed, continuing as anonymous",
				"reason", reason, "error", err, "duration", duration)
		}
		return Anonymous(), nil, nil
	}

	if c.recorder != nil {
		c.recorder.ObserveVerification(OutcomeAuthenticated, "", duration)
	}

	subject := claims.GetSubject()
	if c.logger != nil {
		c.logger.Debug("Token verified successfully", "subject", subject, "duration", duration)
	}

	return Authenticated(subject, claims.GetAuthorities()), claims, nil
}

// FailurePolicy returns the configured failure policy.
func (c *Core) FailurePolicy() FailurePolicy {
	return c.failurePolicy
}
