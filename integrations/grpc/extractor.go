package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// DefaultTokenPrefix is the exact prefix expected in the authorization metadata.
const DefaultTokenPrefix = "Bearer "

// TokenExtractor extracts bearer tokens from gRPC metadata.
type TokenExtractor func(ctx context.Context) (string, error)

// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
var ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

// MetadataTokenExtractor extracts the token from the "authorization" metadata
// key. The "Bearer " prefix is matched exactly; a missing entry or any other
// prefix yields no token and no error.
//
// gRPC normalizes incoming metadata keys to lowercase, so this extractor only
// checks the lowercase "authorization" key.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}

	values := md.Get("authorization")
	switch {
	case len(values) == 0:
		return "", nil
	case len(values) > 1:
		return "", ErrMultipleAuthHeaders
	}

	if !strings.HasPrefix(values[0], DefaultTokenPrefix) {
		return "", nil
	}
	return values[0][len(DefaultTokenPrefix):], nil
}
