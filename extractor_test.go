package authgate

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AuthHeaderTokenExtractor(t *testing.T) {
	testCases := []struct {
		name      string
		header    []string
		wantToken string
	}{
		{
			name: "empty / no header",
		},
		{
			name:      "token in header",
			header:    []string{fmt.Sprintf("Bearer %s", "i-am-token")},
			wantToken: "i-am-token",
		},
		{
			name:   "no scheme",
			header: []string{"i-am-token"},
		},
		{
			name:   "lowercase scheme",
			header: []string{"bearer i-am-token"},
		},
		{
			name:   "uppercase scheme",
			header: []string{"BEARER i-am-token"},
		},
		{
			name:   "scheme without separator",
			header: []string{"Bearer"},
		},
		{
			name:   "other scheme",
			header: []string{"Basic dXNlcjpwYXNz"},
		},
		{
			name:      "empty token after prefix",
			header:    []string{"Bearer "},
			wantToken: "",
		},
		{
			name:      "remainder is taken verbatim",
			header:    []string{"Bearer  i-am-token "},
			wantToken: " i-am-token ",
		},
		{
			name:      "first header value wins",
			header:    []string{"Bearer first", "Bearer second"},
			wantToken: "first",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, value := range testCase.header {
				request.Header.Add("Authorization", value)
			}

			gotToken, err := AuthHeaderTokenExtractor(request)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantToken, gotToken)
		})
	}
}

func Test_PrefixTokenExtractor(t *testing.T) {
	extractor := PrefixTokenExtractor("X-Auth-Token", "Token ")

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Auth-Token", "Token abc")
	request.Header.Set("Authorization", "Bearer ignored")

	token, err := extractor(request)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	request.Header.Set("X-Auth-Token", "token abc")
	token, err = extractor(request)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func Test_ParameterTokenExtractor(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "http://localhost?i-am-param=i-am-token", nil)

	gotToken, err := ParameterTokenExtractor("i-am-param")(request)
	require.NoError(t, err)
	assert.Equal(t, "i-am-token", gotToken)
}

func Test_CookieTokenExtractor(t *testing.T) {
	testCases := []struct {
		name      string
		cookie    *http.Cookie
		wantToken string
	}{
		{
			name:      "token in cookie",
			cookie:    &http.Cookie{Name: "token", Value: "i-am-token"},
			wantToken: "i-am-token",
		},
		{
			name:   "no cookie",
			cookie: nil,
		},
		{
			name:   "other cookie",
			cookie: &http.Cookie{Name: "session", Value: "i-am-session"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
			if testCase.cookie != nil {
				request.AddCookie(testCase.cookie)
			}

			gotToken, err := CookieTokenExtractor("token")(request)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantToken, gotToken)
		})
	}
}

func Test_MultiTokenExtractor(t *testing.T) {
	noopExtractor := func(r *http.Request) (string, error) {
		return "", nil
	}

	extractor := func(r *http.Request) (string, error) {
		return "i-am-token", nil
	}

	erroringExtractor := func(r *http.Request) (string, error) {
		return "", errors.New("extraction failure")
	}

	testCases := []struct {
		name       string
		extractors []TokenExtractor
		wantToken  string
		wantErr    string
	}{
		{
			name: "no extractors",
		},
		{
			name:       "first extractor returns a token",
			extractors: []TokenExtractor{extractor, erroringExtractor},
			wantToken:  "i-am-token",
		},
		{
			name:       "it skips extractors returning nothing",
			extractors: []TokenExtractor{noopExtractor, extractor},
			wantToken:  "i-am-token",
		},
		{
			name:       "it stops on the first error",
			extractors: []TokenExtractor{noopExtractor, erroringExtractor, extractor},
			wantErr:    "extraction failure",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			gotToken, err := MultiTokenExtractor(testCase.extractors...)(httptest.NewRequest(http.MethodGet, "/", nil))
			if testCase.wantErr != "" {
				assert.EqualError(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantToken, gotToken)
		})
	}
}
