// Package authgin adapts an authgate.Gate to Gin.
//
//	gate, _ := authgate.New(authgate.WithVerifier(v))
//
//	r := gin.New()
//	r.Use(authgin.New(gate))
//	r.GET("/api/cart", authgin.RequireAuthentication(), cartHandler)
package authgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sareeta/authgate"
	"github.com/sareeta/authgate/core"
)

// DefaultContextKey is the gin.Context key the Authentication is stored under.
const DefaultContextKey = "authentication"

type ginConfig struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

func newConfig(opts []Option) *ginConfig {
	config := &ginConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultContextKey,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// New runs gate for every request. Handlers after it find the Authentication
// both in c.Request's context and under the configured gin.Context key.
// If the gate stops the request (reject policy) the chain is aborted.
func New(gate *authgate.Gate, opts ...Option) gin.HandlerFunc {
	config := newConfig(opts)

	return func(c *gin.Context) {
		proceeded := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			proceeded = true
			c.Request = r
			c.Set(config.contextKey, authgate.AuthenticationFrom(r))
			c.Next()
		})

		gate.Handler(next).ServeHTTP(c.Writer, c.Request)

		if !proceeded {
			c.Abort()
		}
	}
}

// RequireAuthentication aborts anonymous requests through the error handler
// with authgate.ErrUnauthenticated.
func RequireAuthentication(opts ...Option) gin.HandlerFunc {
	config := newConfig(opts)

	return func(c *gin.Context) {
		if !GetAuthentication(c).IsAuthenticated() {
			config.errorHandler(c, authgate.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAuthentication returns the Authentication the gate installed for c.
// It reads the request context, so it does not depend on WithContextKey.
func GetAuthentication(c *gin.Context) core.Authentication {
	return authgate.AuthenticationFrom(c.Request)
}

// GetClaims returns the verified claims for c.
func GetClaims[T any](c *gin.Context) (T, error) {
	return authgate.GetClaims[T](c.Request.Context())
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Authentication is required.",
	})
}
