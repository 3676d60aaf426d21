// Package grpc provides gRPC server interceptors for bearer token authentication.
//
// The interceptors read the "authorization" metadata entry, verify the token
// with the same core used by the HTTP gate and install a core.Authentication
// in the handler's context. Like the HTTP gate, a call without a token is
// anonymous rather than failed; protected methods are opted in explicitly.
//
// # Basic Usage
//
//	import (
//	    authgrpc "github.com/sareeta/authgate/integrations/grpc"
//	    "github.com/sareeta/authgate/verifier"
//	    "google.golang.org/grpc"
//	)
//
//	func main() {
//	    v, err := verifier.New(verifier.WithSecret(secret))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    interceptor, err := authgrpc.New(
//	        authgrpc.WithVerifier(v),
//	        authgrpc.WithProtectedMethods("/cart.Cart/Checkout"),
//	        authgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    server := grpc.NewServer(
//	        grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	        grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	    )
//	}
//
// # Reading the Identity
//
//	func (s *server) Checkout(ctx context.Context, req *pb.CheckoutRequest) (*pb.Order, error) {
//	    subject, _ := authgrpc.AuthenticationFrom(ctx).Subject()
//	    ...
//	}
//
// # Status Codes
//
// Under the reject failure policy, or for protected methods, the interceptor
// answers with codes.Unauthenticated. Malformed metadata (several
// authorization entries) maps to codes.InvalidArgument and configuration
// problems to codes.Internal.
package grpc
