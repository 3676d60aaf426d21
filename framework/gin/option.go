package authgin

import (
	"github.com/gin-gonic/gin"
)

// Option defines a functional option for configuring the middleware
type Option func(*ginConfig)

// WithErrorHandler sets the handler RequireAuthentication calls for anonymous requests.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *ginConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets the gin.Context key the Authentication is stored under,
// for handlers that read it with c.Get. GetAuthentication and GetClaims read
// the request context instead and are unaffected.
func WithContextKey(key string) Option {
	return func(config *ginConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}
