package authgate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sareeta/authgate/core"
	"github.com/sareeta/authgate/internal/tokentest"
)

func newRecordingTracer(t *testing.T) (Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOpenTelemetryTracer(tp.Tracer("authgate-test")), exporter
}

func attributeValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := NoopTracer{}.StartSpan(ctx, "test_span")

	assert.Equal(t, ctx, gotCtx)
	assert.IsType(t, NoopSpan{}, span)

	// These should not panic.
	span.SetTag("tag", "value")
	span.SetError(errors.New("boom"))
	span.Finish()
}

func TestOpenTelemetryTracer(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.StartSpan(context.Background(), "test_span")
	span.SetTag("string", "value")
	span.SetTag("bool", true)
	span.SetTag("int", 42)
	span.SetError(errors.New("boom"))
	span.Finish()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "test_span", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)

	for key, want := range map[string]string{"string": "value", "bool": "true", "int": "42"} {
		got, ok := attributeValue(spans[0].Attributes, key)
		assert.True(t, ok, "missing attribute %q", key)
		assert.Equal(t, want, got)
	}
}

func TestGate_Tracing(t *testing.T) {
	testCases := []struct {
		name         string
		options      []Option
		header       string
		wantDecision string
		wantReason   string
		wantStatus   codes.Code
	}{
		{
			name:         "authenticated",
			header:       "Bearer " + tokentest.Sign(t, tokentest.Secret, tokentest.Valid()),
			wantDecision: DecisionAuthenticated,
		},
		{
			name:         "anonymous",
			wantDecision: DecisionAnonymous,
		},
		{
			name:         "rejected",
			options:      []Option{WithFailurePolicy(core.FailurePolicyReject)},
			header:       "Bearer " + tokentest.Sign(t, "another secret", tokentest.Valid()),
			wantDecision: DecisionRejected,
			wantReason:   core.ErrorCodeInvalidSignature,
			wantStatus:   codes.Error,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tracer, exporter := newRecordingTracer(t)

			opts := append([]Option{WithVerifier(newTestVerifier(t)), WithTracer(tracer)}, testCase.options...)
			gate, err := New(opts...)
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if testCase.header != "" {
				request.Header.Set("Authorization", testCase.header)
			}
			gate.Handler(&whoami{}).ServeHTTP(httptest.NewRecorder(), request)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, "authgate.authenticate", spans[0].Name)
			assert.Equal(t, testCase.wantStatus, spans[0].Status.Code)

			decision, _ := attributeValue(spans[0].Attributes, "authgate.decision")
			assert.Equal(t, testCase.wantDecision, decision)
			route, _ := attributeValue(spans[0].Attributes, "http.route")
			assert.Equal(t, "/api/cart", route)
			reason, _ := attributeValue(spans[0].Attributes, "authgate.reason")
			assert.Equal(t, testCase.wantReason, reason)
		})
	}
}
