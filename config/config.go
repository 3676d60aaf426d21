// Package config loads the gate's process-wide settings from the environment.
//
// Settings are read once at startup and passed explicitly into constructors;
// nothing here is consulted after that.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/sareeta/authgate/core"
)

// DefaultExpiration is the token lifetime tokens are minted with when
// AUTHGATE_EXPIRATION is unset. It must agree with the struct tag below.
const DefaultExpiration = 240 * time.Hour

// Config holds the gate settings. Defaults are provided via struct tags.
type Config struct {
	// Secret is the shared HMAC-SHA-512 key. ENV: AUTHGATE_SECRET
	Secret string `env:"AUTHGATE_SECRET,required"`
	// Expiration is the lifetime an issuer sharing Secret stamps into exp.
	// The gate never reads it; verification honors each token's own exp.
	// ENV: AUTHGATE_EXPIRATION
	Expiration time.Duration `env:"AUTHGATE_EXPIRATION,default=240h"`
	// HeaderName carries the token. ENV: AUTHGATE_HEADER
	HeaderName string `env:"AUTHGATE_HEADER,default=Authorization"`
	// TokenScheme precedes the token, separated by one space. ENV: AUTHGATE_TOKEN_SCHEME
	TokenScheme string `env:"AUTHGATE_TOKEN_SCHEME,default=Bearer"`
	// SignUpURL is reachable without a token. ENV: AUTHGATE_SIGN_UP_URL
	SignUpURL string `env:"AUTHGATE_SIGN_UP_URL,default=/api/user/create"`
	// ExcludedPaths are further paths reachable without a token, ';'-separated. ENV: AUTHGATE_EXCLUDED_PATHS
	ExcludedPaths []string `env:"AUTHGATE_EXCLUDED_PATHS"`
	// RejectInvalidTokens answers 401 for a presented token that fails
	// verification instead of continuing anonymously. ENV: AUTHGATE_REJECT_INVALID
	RejectInvalidTokens bool `env:"AUTHGATE_REJECT_INVALID,default=false"`
	// ClockSkew widens the exp and nbf checks. ENV: AUTHGATE_CLOCK_SKEW
	ClockSkew time.Duration `env:"AUTHGATE_CLOCK_SKEW,default=0s"`
	// LogLevel is a logrus level name. ENV: AUTHGATE_LOG_LEVEL
	LogLevel string `env:"AUTHGATE_LOG_LEVEL,default=info"`
	// ListenAddr is used by the example server. ENV: AUTHGATE_LISTEN_ADDR
	ListenAddr string `env:"AUTHGATE_LISTEN_ADDR,default=:8080"`
}

// Load decodes Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Secret == "":
		return errors.New("config: secret cannot be empty")
	case c.Expiration <= 0:
		return fmt.Errorf("config: expiration must be positive, got %s", c.Expiration)
	case c.ClockSkew < 0:
		return fmt.Errorf("config: clock skew cannot be negative, got %s", c.ClockSkew)
	case c.HeaderName == "":
		return errors.New("config: header name cannot be empty")
	case strings.TrimSpace(c.TokenScheme) == "":
		return errors.New("config: token scheme cannot be empty")
	}
	return nil
}

// TokenPrefix is the exact header value prefix, e.g. "Bearer ".
func (c *Config) TokenPrefix() string {
	return strings.TrimSpace(c.TokenScheme) + " "
}

// ExclusionUrls returns the sign-up URL followed by the excluded paths,
// without blanks or duplicates.
func (c *Config) ExclusionUrls() []string {
	seen := make(map[string]bool, len(c.ExcludedPaths)+1)
	var urls []string
	for _, u := range append([]string{c.SignUpURL}, c.ExcludedPaths...) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// FailurePolicy maps RejectInvalidTokens onto core's policy.
func (c *Config) FailurePolicy() core.FailurePolicy {
	if c.RejectInvalidTokens {
		return core.FailurePolicyReject
	}
	return core.FailurePolicyAnonymous
}
