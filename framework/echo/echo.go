// Package authecho adapts an authgate.Gate to Echo.
package authecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sareeta/authgate"
	"github.com/sareeta/authgate/core"
)

// DefaultContextKey is the echo.Context key the Authentication is stored under.
const DefaultContextKey = "authentication"

// echoConfig holds all configuration for the middleware
type echoConfig struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

func newConfig(opts []Option) *echoConfig {
	config := &echoConfig{
		errorHandler: defaultEchoErrorHandler,
		contextKey:   DefaultContextKey,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// New runs gate for every request. The error returned by the rest of the
// chain is passed back to Echo unchanged. When the gate stops the request
// (reject policy) its response is already written and nil is returned.
func New(gate *authgate.Gate, opts ...Option) echo.MiddlewareFunc {
	config := newConfig(opts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr error
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				c.Set(config.contextKey, authgate.AuthenticationFrom(r))
				nextErr = next(c)
			})

			gate.Handler(handler).ServeHTTP(c.Response(), c.Request())

			return nextErr
		}
	}
}

// RequireAuthentication answers anonymous requests through the error
// handler with authgate.ErrUnauthenticated.
func RequireAuthentication(opts ...Option) echo.MiddlewareFunc {
	config := newConfig(opts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !GetAuthentication(c).IsAuthenticated() {
				return config.errorHandler(c, authgate.ErrUnauthenticated)
			}
			return next(c)
		}
	}
}

// GetAuthentication returns the Authentication the gate installed for c.
// It reads the request context, so it does not depend on WithContextKey.
func GetAuthentication(c echo.Context) core.Authentication {
	return authgate.AuthenticationFrom(c.Request())
}

// GetClaims extracts the verified claims from the Echo context.
func GetClaims[T any](c echo.Context) (T, error) {
	return authgate.GetClaims[T](c.Request().Context())
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"message": "Authentication is required.",
	})
}
