package authgate

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sareeta/authgate/core"
)

func Test_DefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name            string
		err             error
		wantStatusCode  int
		wantBody        string
		wantErrorHeader string
	}{
		{
			name:            "unauthenticated",
			err:             ErrUnauthenticated,
			wantStatusCode:  http.StatusUnauthorized,
			wantBody:        `{"message":"Authentication is required."}`,
			wantErrorHeader: "Bearer",
		},
		{
			name:            "wrapped unauthenticated",
			err:             fmt.Errorf("guard: %w", ErrUnauthenticated),
			wantStatusCode:  http.StatusUnauthorized,
			wantBody:        `{"message":"Authentication is required."}`,
			wantErrorHeader: "Bearer",
		},
		{
			name:            "invalid token",
			err:             invalidError{details: errors.New("signature mismatch")},
			wantStatusCode:  http.StatusUnauthorized,
			wantBody:        `{"message":"JWT is invalid."}`,
			wantErrorHeader: `Bearer error="invalid_token"`,
		},
		{
			name:            "validation error",
			err:             core.NewValidationError(core.ErrorCodeTokenExpired, "token has expired", nil),
			wantStatusCode:  http.StatusUnauthorized,
			wantBody:        `{"message":"JWT is invalid."}`,
			wantErrorHeader: `Bearer error="invalid_token"`,
		},
		{
			name:           "anything else",
			err:            errors.New("boom"),
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"message":"Something went wrong while checking the JWT."}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			DefaultErrorHandler(recorder, httptest.NewRequest(http.MethodGet, "/", nil), testCase.err)

			assert.Equal(t, testCase.wantStatusCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			assert.Equal(t, testCase.wantBody, recorder.Body.String())
			assert.Equal(t, testCase.wantErrorHeader, recorder.Header().Get("WWW-Authenticate"))
		})
	}
}

func Test_invalidError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := invalidError{details: errors.New("error details")}

		assert.EqualError(t, err, "jwt invalid: error details")
	})

	t.Run("Is", func(t *testing.T) {
		err := invalidError{details: errors.New("error details")}

		assert.ErrorIs(t, err, ErrJWTInvalid)
	})

	t.Run("Unwrap", func(t *testing.T) {
		expectedErr := errors.New("expected err")
		err := invalidError{details: expectedErr}

		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("ErrorCode passes through", func(t *testing.T) {
		err := invalidError{details: core.NewValidationError(core.ErrorCodeInvalidSignature, "bad", nil)}

		assert.Equal(t, core.ErrorCodeInvalidSignature, core.ErrorCode(err))
	})
}
