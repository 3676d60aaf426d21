// Package tokentest mints HS512 bearer tokens for tests. It plays the part of
// the external issuer and is not meant for production use.
package tokentest

import (
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/sareeta/authgate/config"
)

const (
	// Secret matches the shared key used throughout the test suites.
	Secret = "oursecuritykey"

	// Subject is the default subject of minted tokens.
	Subject = "test"

	// Expiration is the issuer's token lifetime (864 000 000 ms).
	Expiration = config.DefaultExpiration
)

// Claims are the payload of a minted token. Zero times are omitted.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	NotBefore time.Time
	Extra     map[string]any
}

// Valid returns claims for Subject issued now and expiring after Expiration.
func Valid() Claims {
	now := time.Now()
	return Claims{Subject: Subject, IssuedAt: now, ExpiresAt: now.Add(Expiration)}
}

// IssuedAgo returns claims for Subject issued age ago with the standard lifetime.
func IssuedAgo(age time.Duration) Claims {
	issued := time.Now().Add(-age)
	return Claims{Subject: Subject, IssuedAt: issued, ExpiresAt: issued.Add(Expiration)}
}

// Sign mints an HS512 token over claims with secret.
func Sign(tb testing.TB, secret string, claims Claims) string {
	tb.Helper()
	return SignWith(tb, jwa.HS512, []byte(secret), claims)
}

// SignWith mints a token with an arbitrary HMAC algorithm and key.
func SignWith(tb testing.TB, alg jwa.SignatureAlgorithm, key []byte, claims Claims) string {
	tb.Helper()

	token := jwt.New()
	set := func(name string, value any) {
		if err := token.Set(name, value); err != nil {
			tb.Fatalf("could not set claim %q: %v", name, err)
		}
	}

	if claims.Subject != "" {
		set(jwt.SubjectKey, claims.Subject)
	}
	if !claims.IssuedAt.IsZero() {
		set(jwt.IssuedAtKey, claims.IssuedAt)
	}
	if !claims.ExpiresAt.IsZero() {
		set(jwt.ExpirationKey, claims.ExpiresAt)
	}
	if !claims.NotBefore.IsZero() {
		set(jwt.NotBeforeKey, claims.NotBefore)
	}
	for name, value := range claims.Extra {
		set(name, value)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(alg, key))
	if err != nil {
		tb.Fatalf("could not sign token: %v", err)
	}

	return string(signed)
}

// TamperSignature flips one character of the signature segment.
func TamperSignature(token string) string {
	i := strings.LastIndex(token, ".") + 1
	if i <= 0 || i >= len(token) {
		return token
	}

	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}

	return token[:i] + string(replacement) + token[i+1:]
}
