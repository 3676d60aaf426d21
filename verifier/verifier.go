package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/sareeta/authgate/core"
)

// Algorithm is the only signature algorithm the Verifier accepts.
const Algorithm = jwa.HS512

// Verification failures. Every error returned by the Verifier is a
// *core.ValidationError that also matches one of these through errors.Is.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrAlgorithmInvalid = errors.New("unexpected signing algorithm")
	ErrSignatureInvalid = errors.New("signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrNotYetValid      = errors.New("token not yet valid")
	ErrMissingSubject   = errors.New("missing subject claim")
)

// Verifier checks HS512-signed compact JWTs against a shared secret.
//
// A Verifier is immutable after New returns and is safe for concurrent use.
type Verifier struct {
	secret             []byte           // Required.
	allowedClockSkew   time.Duration    // Optional.
	expirationRequired bool             // Optional.
	authoritiesClaim   string           // Optional.
	now                func() time.Time // Optional.
}

// New sets up a Verifier with the supplied options. WithSecret is required.
//
// Example:
//
//	v, err := verifier.New(
//	    verifier.WithSecret(cfg.Secret),
//	    verifier.WithAllowedClockSkew(30*time.Second),
//	)
func New(opts ...Option) (*Verifier, error) {
	v := &Verifier{
		expirationRequired: true,
		now:                time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if len(v.secret) == 0 {
		return nil, errors.New("secret is required but was empty (use WithSecret)")
	}

	return v, nil
}

// Verify verifies tokenString and returns its subject.
// tokenString is the raw token with any scheme prefix already stripped.
func (v *Verifier) Verify(tokenString string) (string, error) {
	claims, err := v.VerifyClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.RegisteredClaims.Subject, nil
}

// ValidateToken implements core.Validator.
func (v *Verifier) ValidateToken(_ context.Context, tokenString string) (core.Claims, error) {
	claims, err := v.VerifyClaims(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyClaims verifies tokenString and returns its claims.
//
// Checks happen in this order: structure, pinned algorithm, signature,
// expiration, not-before, subject.
func (v *Verifier) VerifyClaims(tokenString string) (*VerifiedClaims, error) {
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, newError(core.ErrorCodeTokenMalformed, "token format is invalid", ErrMalformedToken, err)
	}

	raw := []byte(tokenString)

	msg, err := jws.Parse(raw, jws.WithCompact())
	if err != nil {
		return nil, newError(core.ErrorCodeTokenMalformed, "could not parse the token", ErrMalformedToken, err)
	}

	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return nil, newError(core.ErrorCodeTokenMalformed, "could not parse the token", ErrMalformedToken,
			fmt.Errorf("expected exactly one signature, found %d", len(signatures)))
	}

	if err := validateSigningMethod(Algorithm, signatures[0].ProtectedHeaders().Algorithm()); err != nil {
		return nil, newError(core.ErrorCodeInvalidAlgorithm, "signing method is invalid", ErrAlgorithmInvalid, err)
	}

	payload, err := jws.Verify(raw, jws.WithCompact(), jws.WithKey(Algorithm, v.secret))
	if err != nil {
		return nil, newError(core.ErrorCodeInvalidSignature, "could not verify the token signature", ErrSignatureInvalid, err)
	}

	token := jwt.New()
	if err := json.Unmarshal(payload, token); err != nil {
		return nil, newError(core.ErrorCodeTokenMalformed, "failed to deserialize token claims", ErrMalformedToken, err)
	}

	if err := v.validateTimeClaims(token); err != nil {
		return nil, err
	}

	if token.Subject() == "" {
		return nil, newError(core.ErrorCodeMissingSubject, "expected claims not validated", ErrMissingSubject, nil)
	}

	return newVerifiedClaims(token, v.authoritiesClaim), nil
}

// validateTimeClaims enforces now < exp and, when present, nbf <= now,
// both widened by the allowed clock skew.
func (v *Verifier) validateTimeClaims(token jwt.Token) error {
	now := v.now()

	exp := token.Expiration()
	if exp.IsZero() {
		if v.expirationRequired {
			return newError(core.ErrorCodeTokenMalformed, "expected claims not validated", ErrMalformedToken,
				errors.New("missing expiration claim"))
		}
	} else if !now.Before(exp.Add(v.allowedClockSkew)) {
		return newError(core.ErrorCodeTokenExpired, "expected claims not validated", ErrExpired,
			fmt.Errorf("expired at %s", exp.UTC().Format(time.RFC3339)))
	}

	if nbf := token.NotBefore(); !nbf.IsZero() && now.Add(v.allowedClockSkew).Before(nbf) {
		return newError(core.ErrorCodeTokenNotYetValid, "expected claims not validated", ErrNotYetValid,
			fmt.Errorf("not valid before %s", nbf.UTC().Format(time.RFC3339)))
	}

	return nil
}

func validateSigningMethod(validAlg, tokenAlg jwa.SignatureAlgorithm) error {
	if validAlg != tokenAlg {
		return fmt.Errorf("expected %q signing algorithm but token specified %q", validAlg, tokenAlg)
	}
	return nil
}

func newError(code, message string, sentinel, cause error) error {
	details := sentinel
	if cause != nil {
		details = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return core.NewValidationError(code, message, details)
}
