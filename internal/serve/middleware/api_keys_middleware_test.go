package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_extractToken(t *testing.T) {
	testCases := []struct {
		name       string
		authHeader string
		wantToken  string
	}{
		{name: "empty header", authHeader: "", wantToken: ""},
		{name: "bearer token", authHeader: "Bearer WPK_abc123", wantToken: "WPK_abc123"},
		{name: "raw token", authHeader: "WPK_abc123", wantToken: "WPK_abc123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			assert.Equal(t, tc.wantToken, extractToken(req))
		})
	}
}

func Test_extractClientIP(t *testing.T) {
	testCases := []struct {
		name          string
		remoteAddr    string
		xForwardedFor string
		xRealIP       string
		wantIP        string
	}{
		{name: "remote addr only", remoteAddr: "192.168.1.5:3222", wantIP: "192.168.1.5"},
		{name: "x-forwarded-for wins", remoteAddr: "10.0.0.1:3222", xForwardedFor: "203.0.113.7", wantIP: "203.0.113.7"},
		{name: "x-forwarded-for keeps first hop", remoteAddr: "10.0.0.1:3222", xForwardedFor: "203.0.113.7, 10.0.0.2", wantIP: "203.0.113.7"},
		{name: "x-real-ip fallback", remoteAddr: "10.0.0.1:3222", xRealIP: "203.0.113.9", wantIP: "203.0.113.9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			req.RemoteAddr = tc.remoteAddr
			if tc.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tc.xForwardedFor)
			}
			if tc.xRealIP != "" {
				req.Header.Set("X-Real-IP", tc.xRealIP)
			}

			assert.Equal(t, tc.wantIP, extractClientIP(req))
		})
	}
}

func Test_APIKeyOrJWTAuthenticate_fallsBackToJWT(t *testing.T) {
	jwtCalled := false
	jwtAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jwtCalled = true
			next.ServeHTTP(w, r)
		})
	}

	handler := APIKeyOrJWTAuthenticate(nil, jwtAuth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer a.jwt.token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, jwtCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
}
