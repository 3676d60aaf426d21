package authecho

import (
	"github.com/labstack/echo/v4"
)

// Option is a function that configures the middleware
type Option func(*echoConfig)

// WithErrorHandler sets the handler RequireAuthentication calls for anonymous requests.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets the echo.Context key the Authentication is stored under,
// for handlers that read it with c.Get. GetAuthentication and GetClaims read
// the request context instead and are unaffected.
func WithContextKey(key string) Option {
	return func(config *echoConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}
