package authgate

import (
	"net/http"
	"strings"
)

// Default header and prefix read by the gate.
const (
	DefaultHeaderName  = "Authorization"
	DefaultTokenPrefix = "Bearer "
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if an attempt
// to specify a token was found, but the information was somehow incorrectly
// formed. In the case where a token is simply not present, this should not
// be treated as an error. An empty string should be returned in that case.
type TokenExtractor func(r *http.Request) (string, error)

// PrefixTokenExtractor builds a TokenExtractor that reads header and returns
// the remainder after prefix. The prefix match is exact and case-sensitive,
// including any trailing space. An absent header, or one that does not start
// with prefix, yields an empty token and no error.
func PrefixTokenExtractor(header, prefix string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		value := r.Header.Get(header)
		if value == "" || !strings.HasPrefix(value, prefix) {
			return "", nil // Not ours, so no token and no error.
		}

		return value[len(prefix):], nil
	}
}

// AuthHeaderTokenExtractor is a TokenExtractor that takes a request
// and extracts the token from "Authorization: Bearer <token>".
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	return PrefixTokenExtractor(DefaultHeaderName, DefaultTokenPrefix)(r)
}

// CookieTokenExtractor builds a TokenExtractor that takes a request and
// extracts the token from the cookie using the passed in cookieName.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return "", nil // No cookie, then no token, so no error.
		}

		return cookie.Value, nil
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// and takes the one that does not return an empty token. If a TokenExtractor
// returns an error that error is immediately returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				return "", err
			}

			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}
