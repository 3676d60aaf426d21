package authgate

import "net/http"

// RequireAuthentication is a downstream route guard. It lets requests with a
// verified subject through and answers anonymous ones through
// DefaultErrorHandler with ErrUnauthenticated (401).
//
// It must run after Gate.Handler; on its own every request is anonymous.
func RequireAuthentication(next http.Handler) http.Handler {
	return RequireAuthenticationWith(DefaultErrorHandler)(next)
}

// RequireAuthenticationWith is RequireAuthentication with a custom ErrorHandler.
func RequireAuthenticationWith(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !AuthenticationFrom(r).IsAuthenticated() {
				errorHandler(w, r, ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
