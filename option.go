package authgate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sareeta/authgate/config"
	"github.com/sareeta/authgate/core"
	"github.com/sareeta/authgate/verifier"
)

// Option configures the Gate.
// Returns error for validation failures.
type Option func(*Gate) error

// WithVerifier sets the token verifier (REQUIRED). *verifier.Verifier
// satisfies core.Validator.
//
// Example:
//
//	v, err := verifier.New(verifier.WithSecret(cfg.Secret))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gate, err := authgate.New(
//	    authgate.WithVerifier(v),
//	)
func WithVerifier(v core.Validator) Option {
	return func(g *Gate) error {
		if v == nil {
			return ErrVerifierNil
		}
		g.validator = v
		return nil
	}
}

// WithFailurePolicy sets what happens to a request whose token fails verification.
//
// Default: core.FailurePolicyAnonymous (continue unauthenticated)
func WithFailurePolicy(policy core.FailurePolicy) Option {
	return func(g *Gate) error {
		g.failurePolicy = policy
		return nil
	}
}

// WithHeader reads the token from header after an exact, case-sensitive prefix.
//
// Default: "Authorization" and "Bearer "
func WithHeader(header, prefix string) Option {
	return func(g *Gate) error {
		if header == "" {
			return ErrHeaderEmpty
		}
		if prefix == "" {
			return ErrPrefixEmpty
		}
		g.tokenExtractor = PrefixTokenExtractor(header, prefix)
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests should have their token verified.
//
// Default: true (OPTIONS requests are verified)
func WithValidateOnOptions(value bool) Option {
	return func(g *Gate) error {
		g.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when the reject policy stops a request.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Gate) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		g.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(g *Gate) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		g.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls configures URLs that skip token verification. Excluded
// requests are always anonymous. URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(g *Gate) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		g.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the gate.
// The logger will be used throughout the flow in both gate and core.
//
// Example:
//
//	gate, err := authgate.New(
//	    authgate.WithVerifier(v),
//	    authgate.WithLogger(authgate.NewLogrusLogger(logrus.StandardLogger())),
//	)
func WithLogger(logger Logger) Option {
	return func(g *Gate) error {
		if logger == nil {
			return ErrLoggerNil
		}
		g.logger = logger
		return nil
	}
}

// WithMetrics sets the Metrics sink.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(g *Gate) error {
		if m == nil {
			return ErrMetricsNil
		}
		g.metrics = m
		return nil
	}
}

// WithTracer sets the Tracer used to span each authentication.
//
// Default: NoopTracer
func WithTracer(t Tracer) Option {
	return func(g *Gate) error {
		if t == nil {
			return ErrTracerNil
		}
		g.tracer = t
		return nil
	}
}

// NewFromConfig builds a verifier and a Gate from cfg. opts are applied after
// the configuration-derived options and can override them.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Gate, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v, err := verifier.New(
		verifier.WithSecret(cfg.Secret),
		verifier.WithAllowedClockSkew(cfg.ClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifier: %w", err)
	}

	base := []Option{
		WithVerifier(v),
		WithHeader(cfg.HeaderName, cfg.TokenPrefix()),
		WithFailurePolicy(cfg.FailurePolicy()),
	}
	if urls := cfg.ExclusionUrls(); len(urls) > 0 {
		base = append(base, WithExclusionUrls(urls))
	}

	return New(append(base, opts...)...)
}

// Sentinel errors for configuration validation
var (
	ErrVerifierNil        = errors.New("verifier cannot be nil (use WithVerifier)")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionUrlsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
	ErrHeaderEmpty        = errors.New("header name cannot be empty")
	ErrPrefixEmpty        = errors.New("token prefix cannot be empty")
)
