package grpc

import (
	"errors"

	"github.com/sareeta/authgate/core"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// coreBuilder accumulates core options until New builds the core.
type coreBuilder struct {
	validator     core.Validator
	failurePolicy core.FailurePolicy
	logger        Logger
	recorder      core.Recorder
}

func (b *coreBuilder) build() (*core.Core, error) {
	if b.validator == nil {
		return nil, errors.New("verifier is required, use WithVerifier option")
	}

	opts := []core.Option{
		core.WithValidator(b.validator),
		core.WithFailurePolicy(b.failurePolicy),
	}
	if b.logger != nil {
		opts = append(opts, core.WithLogger(b.logger))
	}
	if b.recorder != nil {
		opts = append(opts, core.WithRecorder(b.recorder))
	}

	return core.New(opts...)
}

// WithVerifier sets the token verifier (REQUIRED).
func WithVerifier(v core.Validator) Option {
	return func(i *Interceptor) error {
		if v == nil {
			return errors.New("verifier cannot be nil")
		}
		i.builder.validator = v
		return nil
	}
}

// WithFailurePolicy sets what happens to a call whose token fails verification.
//
// Default: core.FailurePolicyAnonymous
func WithFailurePolicy(policy core.FailurePolicy) Option {
	return func(i *Interceptor) error {
		i.builder.failurePolicy = policy
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor and its core.
func WithLogger(logger Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.builder.logger = logger
		i.logger = logger
		return nil
	}
}

// WithRecorder sets the Recorder notified of each verification, for example
// an *authgate.PrometheusMetrics shared with the HTTP gate.
func WithRecorder(recorder core.Recorder) Option {
	return func(i *Interceptor) error {
		if recorder == nil {
			return errors.New("recorder cannot be nil")
		}
		i.builder.recorder = recorder
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods skips token verification for the given methods. They
// always run anonymously. Methods use the format "/package.Service/Method".
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}

// WithProtectedMethods requires a verified subject for the given methods.
// Anonymous calls to them fail with ErrUnauthenticated.
func WithProtectedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.protectedMethods[method] = true
		}
		return nil
	}
}
