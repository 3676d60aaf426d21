package verifier

import (
	"slices"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// VerifiedClaims is the struct that will be inserted into the request
// context after successful verification. Authorities is empty unless
// WithAuthoritiesClaim is passed to New.
type VerifiedClaims struct {
	RegisteredClaims RegisteredClaims
	Authorities      []string
}

// RegisteredClaims represents public claim
// values (as specified in RFC 7519).
type RegisteredClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	Expiry    int64    `json:"exp,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	ID        string   `json:"jti,omitempty"`
}

// GetSubject implements core.Claims.
func (c *VerifiedClaims) GetSubject() string {
	if c == nil {
		return ""
	}
	return c.RegisteredClaims.Subject
}

// GetAuthorities implements core.Claims.
func (c *VerifiedClaims) GetAuthorities() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.Authorities)
}

// ExpiresAt returns the expiration instant, or the zero time when absent.
func (c *VerifiedClaims) ExpiresAt() time.Time {
	if c == nil || c.RegisteredClaims.Expiry == 0 {
		return time.Time{}
	}
	return time.Unix(c.RegisteredClaims.Expiry, 0)
}

func newVerifiedClaims(token jwt.Token, authoritiesClaim string) *VerifiedClaims {
	claims := &VerifiedClaims{
		RegisteredClaims: RegisteredClaims{
			Issuer:    token.Issuer(),
			Subject:   token.Subject(),
			Audience:  token.Audience(),
			ID:        token.JwtID(),
			Expiry:    timeToUnix(token.Expiration()),
			NotBefore: timeToUnix(token.NotBefore()),
			IssuedAt:  timeToUnix(token.IssuedAt()),
		},
		Authorities: []string{},
	}

	if authoritiesClaim != "" {
		if raw, ok := token.Get(authoritiesClaim); ok {
			claims.Authorities = authoritiesFromClaim(raw)
		}
	}

	return claims
}

// authoritiesFromClaim accepts either a JSON array of strings or a single
// space-delimited string (the OAuth "scope" convention).
func authoritiesFromClaim(raw any) []string {
	switch v := raw.(type) {
	case string:
		return strings.Fields(v)
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
