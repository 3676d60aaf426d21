package authgate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sareeta/authgate/core"
)

// Gate is the per-request authentication middleware. It never rejects a
// request for lacking credentials; it only records who the caller is.
// Guards such as RequireAuthentication decide what anonymous callers may do.
type Gate struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer

	// Temporary fields used during construction
	validator     core.Validator
	failurePolicy core.FailurePolicy
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should skip token verification entirely.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new Gate instance with the supplied options.
// All parameters are passed via options (pure options pattern).
//
// Example:
//
//	gate, err := authgate.New(
//	    authgate.WithVerifier(v),
//	    authgate.WithExclusionUrls([]string{"/api/user/create"}),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create gate: %v", err)
//	}
func New(opts ...Option) (*Gate, error) {
	g := &Gate{
		validateOnOptions: true,
		failurePolicy:     core.FailurePolicyAnonymous,
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid gate configuration: %w", err)
	}

	g.applyDefaults()

	if err := g.createCore(); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return g, nil
}

// validate ensures all required fields are set
func (g *Gate) validate() error {
	if g.validator == nil {
		return ErrVerifierNil
	}
	return nil
}

// applyDefaults sets default values for optional fields not set by options
func (g *Gate) applyDefaults() {
	if g.errorHandler == nil {
		g.errorHandler = DefaultErrorHandler
	}
	if g.tokenExtractor == nil {
		g.tokenExtractor = AuthHeaderTokenExtractor
	}
	if g.metrics == nil {
		g.metrics = NoopMetrics{}
	}
	if g.tracer == nil {
		g.tracer = NoopTracer{}
	}
}

// createCore creates the core.Core instance with the configured options
func (g *Gate) createCore() error {
	coreOpts := []core.Option{
		core.WithValidator(g.validator),
		core.WithFailurePolicy(g.failurePolicy),
		core.WithRecorder(g.metrics),
	}

	if g.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(g.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	g.core = c
	return nil
}

// AuthenticationFrom returns the Authentication the gate installed on r.
// Requests that never passed through a gate are anonymous.
func AuthenticationFrom(r *http.Request) core.Authentication {
	return core.AuthenticationFrom(r.Context())
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// Example:
//
//	claims, err := authgate.GetClaims[*verifier.VerifiedClaims](r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.RegisteredClaims.Subject)
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// Handler is the main Gate function. The returned handler always installs an
// Authentication on the request before calling next exactly once, unless the
// reject failure policy stops a request whose token failed verification.
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := g.tracer.StartSpan(r.Context(), "authgate.authenticate")
		defer span.Finish()
		span.SetTag("http.method", r.Method)
		span.SetTag("http.route", r.URL.Path)

		// If there's an exclusion handler and the URL matches, skip verification.
		if g.exclusionURLHandler != nil && g.exclusionURLHandler(r) {
			if g.logger != nil {
				g.logger.Debug("skipping token verification for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			g.proceed(ctx, w, r, span, next, core.Anonymous(), nil, DecisionExcluded)
			return
		}

		// If we don't validate on OPTIONS and this is OPTIONS
		// then continue onto next without verifying.
		if !g.validateOnOptions && r.Method == http.MethodOptions {
			if g.logger != nil {
				g.logger.Debug("skipping token verification for OPTIONS request")
			}
			g.proceed(ctx, w, r, span, next, core.Anonymous(), nil, DecisionExcluded)
			return
		}

		token, err := g.tokenExtractor(r)
		if err != nil {
			// A malformed header is not a credential; it is handled like a
			// token that failed verification.
			err = invalidError{details: fmt.Errorf("error extracting token: %w", err)}
			if g.logger != nil {
				g.logger.Warn("failed to extract token from request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			if g.core.FailurePolicy() == core.FailurePolicyReject {
				g.reject(w, r, span, err)
				return
			}
			token = ""
		}

		auth, claims, err := g.core.CheckToken(ctx, token)
		if err != nil {
			g.reject(w, r, span, invalidError{details: err})
			return
		}

		decision := DecisionAnonymous
		if auth.IsAuthenticated() {
			decision = DecisionAuthenticated
		}
		g.proceed(ctx, w, r, span, next, auth, claims, decision)
	})
}

func (g *Gate) proceed(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span Span,
	next http.Handler,
	auth core.Authentication,
	claims core.Claims,
	decision string,
) {
	span.SetTag("authgate.decision", decision)
	g.metrics.ObserveDecision(decision)

	ctx = core.WithAuthentication(ctx, auth)
	if claims != nil {
		ctx = core.SetClaims(ctx, claims)
	}

	next.ServeHTTP(w, r.Clone(ctx))
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, span Span, err error) {
	span.SetTag("authgate.decision", DecisionRejected)
	span.SetTag("authgate.reason", core.ErrorCode(err))
	span.SetError(err)
	g.metrics.ObserveDecision(DecisionRejected)

	if g.logger != nil {
		g.logger.Warn("rejecting request with invalid credentials",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
	}
	g.errorHandler(w, r, err)
}
