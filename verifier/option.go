package verifier

import (
	"errors"
	"slices"
	"time"
)

// Option is how options for the Verifier are set up.
// Options return errors to enable validation during construction.
type Option func(*Verifier) error

// WithSecret sets the shared HMAC secret. This is a required option.
//
// The secret is copied; later changes to the caller's value have no effect.
func WithSecret(secret string) Option {
	return WithSecretBytes([]byte(secret))
}

// WithSecretBytes is WithSecret for raw key material.
func WithSecretBytes(secret []byte) Option {
	return func(v *Verifier) error {
		if len(secret) == 0 {
			return errors.New("secret cannot be empty")
		}
		v.secret = slices.Clone(secret)
		return nil
	}
}

// WithAllowedClockSkew sets the allowed clock skew for time-based claims.
//
// This allows for some tolerance when validating exp and nbf
// to account for clock differences between systems. If not set, the default
// is 0 (no clock skew allowed).
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Verifier) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithExpirationRequired controls whether tokens without an exp claim are rejected.
//
// Default: true
func WithExpirationRequired(required bool) Option {
	return func(v *Verifier) error {
		v.expirationRequired = required
		return nil
	}
}

// WithAuthoritiesClaim names a claim whose value becomes the granted
// authorities. The claim may be a JSON array of strings or a space-delimited
// string. Without this option every verified token grants no authorities.
func WithAuthoritiesClaim(name string) Option {
	return func(v *Verifier) error {
		if name == "" {
			return errors.New("authorities claim name cannot be empty")
		}
		v.authoritiesClaim = name
		return nil
	}
}

// WithClock overrides the time source used for exp and nbf checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}
