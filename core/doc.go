/*
Package core provides framework-agnostic bearer token authentication logic
that can be used across different transport layers (HTTP, gRPC, etc.).

The Core type encapsulates the authentication decision without dependencies
on any specific transport protocol. This allows the same logic to be reused
by the net/http gate, the Gin and Echo adapters and the gRPC interceptor.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, Gin, Echo, gRPC)                │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core Engine (THIS PACKAGE)         │
	│  • Anonymous on missing token               │
	│  • Failure policy                           │
	│  • Authentication context                   │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Verifier                           │
	│  (HS512 signature, expiration, subject)     │
	└─────────────────────────────────────────────┘

# Basic Usage

	v, err := verifier.New(verifier.WithSecret(cfg.Secret))
	if err != nil {
	    log.Fatal(err)
	}

	c, err := core.New(core.WithValidator(v))
	if err != nil {
	    log.Fatal(err)
	}

	auth, claims, err := c.CheckToken(ctx, token)

# Authentication Context

Each request carries exactly one Authentication, installed before the next
handler runs:

	ctx = core.WithAuthentication(ctx, auth)

	// Later, in any handler:
	auth := core.AuthenticationFrom(ctx)
	if subject, ok := auth.Subject(); ok {
	    // authenticated
	}

A context that never passed through a gate reads as anonymous. The value is
stored in the request context, never in package state, so concurrent requests
cannot observe each other's identity.

# Failure Policy

A token that is present but fails verification never produces an ambiguous
identity. With FailurePolicyAnonymous (default) the request continues as
anonymous and the error is only logged and recorded. With FailurePolicyReject
CheckToken returns the error and adapters answer 401 without calling the next
handler.

# Error Handling

Verification failures are *ValidationError values with machine codes:

	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
	    switch validationErr.Code {
	    case core.ErrorCodeTokenExpired:
	    case core.ErrorCodeInvalidSignature:
	    }
	}

Every ValidationError also matches ErrJWTInvalid through errors.Is.
*/
package core
