/*
Package verifier verifies HS512-signed bearer tokens against a shared secret.

The Verifier is a pure function of its input: it reads the immutable secret
and the clock, and never mutates state, so one instance serves every request
concurrently.

# Usage

	v, err := verifier.New(
	    verifier.WithSecret(cfg.Secret),
	)
	if err != nil {
	    log.Fatal(err)
	}

	subject, err := v.Verify(token)

# Checks

In order:

  - the token is a compact JWS of exactly three segments, at most 1MB
  - the protected header declares "alg": "HS512" (none, absent or any other
    algorithm is refused before the signature is looked at)
  - the HMAC-SHA-512 signature over header.payload matches, compared in
    constant time
  - exp is present and in the future (WithExpirationRequired(false) relaxes
    the presence check; WithAllowedClockSkew widens the window)
  - nbf, when present, is not in the future
  - sub is present and non-empty

# Errors

Every failure is a *core.ValidationError with a machine code and matches one
sentinel through errors.Is:

	switch {
	case errors.Is(err, verifier.ErrExpired):
	case errors.Is(err, verifier.ErrSignatureInvalid):
	case errors.Is(err, verifier.ErrMalformedToken):
	case errors.Is(err, verifier.ErrMissingSubject):
	}

# Authorities

Verified tokens grant no authorities unless WithAuthoritiesClaim names a
claim to read them from.
*/
package verifier
