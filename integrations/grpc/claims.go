package grpc

import (
	"context"

	"github.com/sareeta/authgate/core"
)

// AuthenticationFrom returns the Authentication the interceptor installed on ctx.
func AuthenticationFrom(ctx context.Context) core.Authentication {
	return core.AuthenticationFrom(ctx)
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// Example:
//
//	claims, err := authgrpc.GetClaims[*verifier.VerifiedClaims](ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only on protected methods, where claims always exist.
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := core.GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
