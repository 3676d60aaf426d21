package verifier

import (
	"errors"
	"strings"
)

var (
	// ErrTokenEmpty is returned when the token string is empty.
	ErrTokenEmpty = errors.New("token is empty")

	// ErrTokenTooLarge is returned when the token exceeds maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size (1MB)")

	// ErrTokenSegments is returned when the token is not three dot-separated segments.
	ErrTokenSegments = errors.New("token must have exactly three dot-separated segments")
)

const (
	// maxTokenSize bounds the work done on untrusted input.
	// Valid tokens should rarely exceed a few KB.
	maxTokenSize = 1024 * 1024

	// compactDots is the number of dots in a compact JWS: header.payload.signature.
	compactDots = 2
)

// validateTokenFormat rejects obviously malformed inputs before any decoding
// happens. Counting dots alone does not rule out a JSON serialization, so the
// parser is additionally pinned to the compact form.
func validateTokenFormat(tokenString string) error {
	if len(tokenString) == 0 {
		return ErrTokenEmpty
	}

	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}

	if strings.Count(tokenString, ".") != compactDots {
		return ErrTokenSegments
	}

	return nil
}
