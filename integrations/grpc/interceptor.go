package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/sareeta/authgate/core"
)

// Interceptor provides bearer token authentication for gRPC servers.
type Interceptor struct {
	core             *core.Core
	tokenExtractor   TokenExtractor
	errorHandler     ErrorHandler
	excludedMethods  map[string]bool
	protectedMethods map[string]bool
	logger           Logger

	builder *coreBuilder
}

// New creates a new gRPC interceptor with the provided options.
// WithVerifier option is required.
func New(opts ...Option) (*Interceptor, error) {
	i := &Interceptor{
		tokenExtractor:   MetadataTokenExtractor,
		errorHandler:     DefaultErrorHandler,
		excludedMethods:  make(map[string]bool),
		protectedMethods: make(map[string]bool),
		builder:          &coreBuilder{failurePolicy: core.FailurePolicyAnonymous},
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	c, err := i.builder.build()
	if err != nil {
		return nil, err
	}
	i.core = c
	i.builder = nil

	return i, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that installs
// the caller's Authentication in the handler context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		authCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that installs
// the caller's Authentication in the stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		authCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

// authenticate returns ctx carrying the Authentication for method, or a
// status error when the call must not proceed.
func (i *Interceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	if i.excludedMethods[method] {
		if i.logger != nil {
			i.logger.Debug("skipping token verification for excluded method",
				"method", method)
		}
		return core.WithAuthentication(ctx, core.Anonymous()), nil
	}

	token, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("failed to extract token from gRPC metadata",
				"error", err,
				"method", method)
		}
		if i.core.FailurePolicy() == core.FailurePolicyReject {
			return ctx, i.errorHandler(fmt.Errorf("error extracting token: %w", err))
		}
		token = ""
	}

	auth, claims, err := i.core.CheckToken(ctx, token)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("rejecting call with invalid credentials",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	if i.protectedMethods[method] && !auth.IsAuthenticated() {
		if i.logger != nil {
			i.logger.Debug("anonymous call to protected method", "method", method)
		}
		return ctx, i.errorHandler(ErrUnauthenticated)
	}

	ctx = core.WithAuthentication(ctx, auth)
	if claims != nil {
		ctx = core.SetClaims(ctx, claims)
	}
	return ctx, nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the Authentication.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
