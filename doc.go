/*
Package authgate provides stateless bearer token authentication for net/http.

The Gate reads "Authorization: Bearer <token>", verifies the HS512-signed
token and installs an Authentication in the request context before calling
the next handler. It never stops a request for lacking credentials; route
guards such as RequireAuthentication decide what anonymous callers may do.
The package follows the Core-Adapter pattern, with this package serving as
the HTTP transport adapter.

# Quick Start

	import (
	    "github.com/sareeta/authgate"
	    "github.com/sareeta/authgate/verifier"
	)

	func main() {
	    v, err := verifier.New(verifier.WithSecret(os.Getenv("AUTHGATE_SECRET")))
	    if err != nil {
	        log.Fatal(err)
	    }

	    gate, err := authgate.New(
	        authgate.WithVerifier(v),
	        authgate.WithExclusionUrls([]string{"/api/user/create"}),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    mux := http.NewServeMux()
	    mux.Handle("/api/user/create", signUpHandler)
	    mux.Handle("/api/", authgate.RequireAuthentication(apiHandler))
	    http.ListenAndServe(":8080", gate.Handler(mux))
	}

Or, from the environment:

	cfg, err := config.Load()
	gate, err := authgate.NewFromConfig(cfg)

# Reading the Identity

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    subject, ok := authgate.AuthenticationFrom(r).Subject()
	    if !ok {
	        // anonymous
	    }
	    fmt.Fprintf(w, "Hello, %s!", subject)
	}

The full claims are available too:

	claims, err := authgate.GetClaims[*verifier.VerifiedClaims](r.Context())

# Header Matching

The default extractor matches the prefix "Bearer " exactly, including case
and the trailing space. A missing header, a different scheme ("Basic ...",
"bearer ...") or a bare "Bearer" are all anonymous requests, not errors.
WithHeader changes the header name and prefix.

# Failure Policy

A token that is present but fails verification degrades to an anonymous
request by default. WithFailurePolicy(core.FailurePolicyReject) instead stops
such requests with the ErrorHandler (401), without calling next:

	gate, err := authgate.New(
	    authgate.WithVerifier(v),
	    authgate.WithFailurePolicy(core.FailurePolicyReject),
	)

# Configuration Options

Required:
  - WithVerifier: A configured verifier instance

Optional:
  - WithFailurePolicy: Anonymous (default) or reject on invalid tokens
  - WithHeader: Header name and exact prefix
  - WithTokenExtractor: Custom token extraction logic
  - WithExclusionUrls: URLs to skip token verification
  - WithValidateOnOptions: Verify tokens on OPTIONS requests
  - WithErrorHandler: Custom error response handler
  - WithLogger: Structured logging (compatible with log/slog, logrus adapter provided)
  - WithMetrics: Prometheus metrics
  - WithTracer: OpenTelemetry spans

# Thread Safety

A Gate is immutable after New returns and is safe for concurrent use. The
Authentication of one request lives only in that request's context.
*/
package authgate
