package core

import (
	"context"
	"slices"
)

// contextKey is an unexported type for context keys to prevent collisions.
// Using an unexported type ensures that only this package can create context keys,
// eliminating the risk of collisions with other packages.
type contextKey int

const (
	claimsKey contextKey = iota
	authenticationKey
)

// Authentication is the per-request outcome of the gate: either anonymous or
// authenticated with a subject and a (possibly empty) set of authorities.
//
// The zero value is anonymous. Values are immutable; Authorities returns a copy.
type Authentication struct {
	subject     string
	authorities []string
}

// Anonymous returns the unauthenticated Authentication.
func Anonymous() Authentication {
	return Authentication{}
}

// Authenticated returns an Authentication for subject. An empty subject
// yields Anonymous, so a request can never carry an authenticated identity
// without a subject.
func Authenticated(subject string, authorities []string) Authentication {
	if subject == "" {
		return Anonymous()
	}
	return Authentication{
		subject:     subject,
		authorities: slices.Clone(authorities),
	}
}

// IsAuthenticated reports whether a verified subject is present.
func (a Authentication) IsAuthenticated() bool {
	return a.subject != ""
}

// Subject returns the verified subject and true, or "" and false when anonymous.
func (a Authentication) Subject() (string, bool) {
	return a.subject, a.subject != ""
}

// Authorities returns the granted authorities. Anonymous requests have none.
func (a Authentication) Authorities() []string {
	return slices.Clone(a.authorities)
}

// HasAuthority reports whether authority was granted.
func (a Authentication) HasAuthority(authority string) bool {
	return slices.Contains(a.authorities, authority)
}

// String returns a log-safe description.
func (a Authentication) String() string {
	if !a.IsAuthenticated() {
		return "anonymous"
	}
	return "authenticated(" + a.subject + ")"
}

// WithAuthentication returns a copy of ctx carrying auth.
func WithAuthentication(ctx context.Context, auth Authentication) context.Context {
	return context.WithValue(ctx, authenticationKey, auth)
}

// AuthenticationFrom returns the Authentication stored in ctx. Contexts that
// never passed through a gate are anonymous.
func AuthenticationFrom(ctx context.Context) Authentication {
	auth, ok := ctx.Value(authenticationKey).(Authentication)
	if !ok {
		return Anonymous()
	}
	return auth
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// This is a type-safe alternative to manually type-asserting the claims from the context.
// It returns an error if the claims are not found or if the type assertion fails.
//
// Example usage:
//
//	claims, err := core.GetClaims[*verifier.VerifiedClaims](ctx)
//	if err != nil {
//	    return err
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	val := ctx.Value(claimsKey)
	if val == nil {
		return zero, ErrClaimsNotFound
	}

	claims, ok := val.(T)
	if !ok {
		return zero, NewValidationError(
			ErrorCodeClaimsNotFound,
			"claims type assertion failed",
			nil,
		)
	}

	return claims, nil
}

// SetClaims stores claims in the context.
// This is a helper function for adapters to set claims after validation.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// HasClaims checks if claims exist in the context without retrieving them.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsKey) != nil
}
