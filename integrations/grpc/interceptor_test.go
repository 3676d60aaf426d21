package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/sareeta/authgate/core"
	"github.com/sareeta/authgate/internal/tokentest"
	"github.com/sareeta/authgate/verifier"
)

const (
	publicMethod    = "/cart.Cart/Browse"
	protectedMethod = "/cart.Cart/Checkout"
	healthCheck     = "/grpc.health.v1.Health/Check"
)

func createTestVerifier(t *testing.T) *verifier.Verifier {
	t.Helper()
	v, err := verifier.New(verifier.WithSecret(tokentest.Secret))
	require.NoError(t, err)
	return v
}

func incoming(authorization ...string) context.Context {
	md := metadata.MD{}
	for _, value := range authorization {
		md.Append("authorization", value)
	}
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestNew(t *testing.T) {
	t.Run("requires a verifier", func(t *testing.T) {
		_, err := New()
		assert.EqualError(t, err, "verifier is required, use WithVerifier option")
	})

	t.Run("rejects nil options", func(t *testing.T) {
		for _, opt := range []Option{
			WithVerifier(nil),
			WithLogger(nil),
			WithRecorder(nil),
			WithTokenExtractor(nil),
			WithErrorHandler(nil),
		} {
			_, err := New(opt)
			assert.Error(t, err)
		}
	})

	t.Run("rejects an unknown failure policy", func(t *testing.T) {
		_, err := New(WithVerifier(createTestVerifier(t)), WithFailurePolicy(core.FailurePolicy(9)))
		assert.ErrorContains(t, err, "unknown failure policy")
	})
}

func TestUnaryServerInterceptor(t *testing.T) {
	validToken := tokentest.Sign(t, tokentest.Secret, tokentest.Valid())
	expiredToken := tokentest.Sign(t, tokentest.Secret, tokentest.IssuedAgo(11*24*time.Hour))

	testCases := []struct {
		name        string
		options     []Option
		ctx         context.Context
		method      string
		wantCode    codes.Code
		wantSubject string
	}{
		{
			name:        "valid token",
			ctx:         incoming("Bearer " + validToken),
			method:      publicMethod,
			wantSubject: "test",
		},
		{
			name:   "no metadata",
			ctx:    context.Background(),
			method: publicMethod,
		},
		{
			name:   "lowercase scheme is anonymous",
			ctx:    incoming("bearer " + validToken),
			method: publicMethod,
		},
		{
			name:   "expired token is anonymous",
			ctx:    incoming("Bearer " + expiredToken),
			method: publicMethod,
		},
		{
			name:     "expired token is rejected under the reject policy",
			options:  []Option{WithFailurePolicy(core.FailurePolicyReject)},
			ctx:      incoming("Bearer " + expiredToken),
			method:   publicMethod,
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "several authorization entries are anonymous",
			ctx:      incoming("Bearer "+validToken, "Bearer "+validToken),
			method:   publicMethod,
			wantCode: codes.OK,
		},
		{
			name:     "several authorization entries are rejected under the reject policy",
			options:  []Option{WithFailurePolicy(core.FailurePolicyReject)},
			ctx:      incoming("Bearer "+validToken, "Bearer "+validToken),
			method:   publicMethod,
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "protected method without token",
			options:  []Option{WithProtectedMethods(protectedMethod)},
			ctx:      context.Background(),
			method:   protectedMethod,
			wantCode: codes.Unauthenticated,
		},
		{
			name:        "protected method with token",
			options:     []Option{WithProtectedMethods(protectedMethod)},
			ctx:         incoming("Bearer " + validToken),
			method:      protectedMethod,
			wantSubject: "test",
		},
		{
			name:    "excluded method ignores the token",
			options: []Option{WithExcludedMethods(healthCheck)},
			ctx:     incoming("Bearer " + validToken),
			method:  healthCheck,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			interceptor, err := New(append([]Option{WithVerifier(createTestVerifier(t))}, testCase.options...)...)
			require.NoError(t, err)

			var gotAuth *core.Authentication
			handler := func(ctx context.Context, req any) (any, error) {
				auth := AuthenticationFrom(ctx)
				gotAuth = &auth
				return "ok", nil
			}

			resp, err := interceptor.UnaryServerInterceptor()(
				testCase.ctx,
				nil,
				&grpc.UnaryServerInfo{FullMethod: testCase.method},
				handler,
			)

			assert.Equal(t, testCase.wantCode, status.Code(err))
			if testCase.wantCode != codes.OK {
				assert.Nil(t, resp)
				assert.Nil(t, gotAuth, "handler must not run")
				return
			}

			require.NotNil(t, gotAuth)
			assert.Equal(t, "ok", resp)
			subject, ok := gotAuth.Subject()
			assert.Equal(t, testCase.wantSubject != "", ok)
			assert.Equal(t, testCase.wantSubject, subject)
		})
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context { return s.ctx }

func TestStreamServerInterceptor(t *testing.T) {
	interceptor, err := New(
		WithVerifier(createTestVerifier(t)),
		WithProtectedMethods(protectedMethod),
	)
	require.NoError(t, err)

	t.Run("installs the authentication on the stream", func(t *testing.T) {
		stream := &fakeServerStream{ctx: incoming("Bearer " + tokentest.Sign(t, tokentest.Secret, tokentest.Valid()))}

		err := interceptor.StreamServerInterceptor()(nil, stream, &grpc.StreamServerInfo{FullMethod: protectedMethod},
			func(srv any, ss grpc.ServerStream) error {
				subject, ok := AuthenticationFrom(ss.Context()).Subject()
				assert.True(t, ok)
				assert.Equal(t, "test", subject)

				claims := MustGetClaims[*verifier.VerifiedClaims](ss.Context())
				assert.Equal(t, "test", claims.GetSubject())
				return nil
			})
		assert.NoError(t, err)
	})

	t.Run("rejects anonymous streams on protected methods", func(t *testing.T) {
		called := false
		err := interceptor.StreamServerInterceptor()(nil, &fakeServerStream{ctx: context.Background()},
			&grpc.StreamServerInfo{FullMethod: protectedMethod},
			func(srv any, ss grpc.ServerStream) error {
				called = true
				return nil
			})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
		assert.False(t, called)
	})
}

func TestInterceptor_OverBufconn(t *testing.T) {
	interceptor, err := New(
		WithVerifier(createTestVerifier(t)),
		WithProtectedMethods(healthCheck),
	)
	require.NoError(t, err)

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
		grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
	)
	healthpb.RegisterHealthServer(server, health.NewServer())
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := healthpb.NewHealthClient(conn)

	_, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		"authorization", "Bearer "+tokentest.Sign(t, tokentest.Secret, tokentest.Valid()))
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
