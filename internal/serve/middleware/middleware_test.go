package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

func Test_RecoverHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RecoverHandler)
	r.Get("/panic", func(rw http.ResponseWriter, req *http.Request) {
		panic(fmt.Errorf("test panic"))
	})

	req, err := http.NewRequest(http.MethodGet, "/panic", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error": "An internal error occurred while processing this request."}`, rr.Body.String())
}

func Test_RecoverHandler_doesNotRecoverFromErrAbortHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RecoverHandler)
	r.Get("/panic", func(rw http.ResponseWriter, req *http.Request) {
		panic(http.ErrAbortHandler)
	})

	req, err := http.NewRequest(http.MethodGet, "/panic", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		r.ServeHTTP(rr, req)
	})
}

func Test_MetricsRequestHandler(t *testing.T) {
	mMonitorService := &monitor.MockMonitorService{}
	mMonitorService.
		On("MonitorHTTPRequestDuration", mock.AnythingOfType("time.Duration"), monitor.HTTPRequestLabels{
			Status: "200",
			Route:  "/hello",
			Method: http.MethodGet,
		}).
		Return(nil).
		Once()

	r := chi.NewRouter()
	r.Use(MetricsRequestHandler(mMonitorService))
	r.Get("/hello", func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, "/hello", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mMonitorService.AssertExpectations(t)
}

func Test_AuthenticateMiddleware(t *testing.T) {
	newRouter := func(authManager auth.AuthManager) *chi.Mux {
		r := chi.NewRouter()
		r.Use(AuthenticateMiddleware(authManager))
		r.Get("/authenticated", func(rw http.ResponseWriter, req *http.Request) {
			userID, _ := req.Context().Value(UserIDContextKey).(string)
			rw.WriteHeader(http.StatusOK)
			_, err := rw.Write([]byte(userID))
			require.NoError(t, err)
		})
		return r
	}

	t.Run("returns Unauthorized when no header is sent", func(t *testing.T) {
		r := newRouter(&auth.AuthManagerMock{})

		req, err := http.NewRequest(http.MethodGet, "/authenticated", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error": "Not authorized."}`, rr.Body.String())
	})

	t.Run("returns Unauthorized when the header is malformed", func(t *testing.T) {
		r := newRouter(&auth.AuthManagerMock{})

		req, err := http.NewRequest(http.MethodGet, "/authenticated", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "InvalidHeader")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("returns Unauthorized when the token is invalid", func(t *testing.T) {
		authManagerMock := &auth.AuthManagerMock{}
		authManagerMock.
			On("GetUserID", mock.Anything, "mytoken").
			Return("", auth.ErrInvalidToken).
			Once()
		r := newRouter(authManagerMock)

		req, err := http.NewRequest(http.MethodGet, "/authenticated", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer mytoken")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		authManagerMock.AssertExpectations(t)
	})

	t.Run("puts the user ID in the request context when the token is valid", func(t *testing.T) {
		authManagerMock := &auth.AuthManagerMock{}
		authManagerMock.
			On("GetUserID", mock.Anything, "mytoken").
			Return("user-id", nil).
			Once()
		r := newRouter(authManagerMock)

		req, err := http.NewRequest(http.MethodGet, "/authenticated", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer mytoken")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-id", rr.Body.String())
		authManagerMock.AssertExpectations(t)
	})
}

func Test_ResolveAuthMiddleware(t *testing.T) {
	newRouter := func(authManager auth.AuthManager) *chi.Mux {
		r := chi.NewRouter()
		r.Use(ResolveAuthMiddleware(authManager, nil))
		r.Get("/graphql", func(rw http.ResponseWriter, req *http.Request) {
			userID, _ := req.Context().Value(UserIDContextKey).(string)
			rw.WriteHeader(http.StatusOK)
			_, err := rw.Write([]byte(userID))
			require.NoError(t, err)
		})
		return r
	}

	t.Run("passes anonymous requests through", func(t *testing.T) {
		r := newRouter(&auth.AuthManagerMock{})

		req, err := http.NewRequest(http.MethodGet, "/graphql", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("rejects an invalid bearer token", func(t *testing.T) {
		authManagerMock := &auth.AuthManagerMock{}
		authManagerMock.
			On("GetUserID", mock.Anything, "badtoken").
			Return("", auth.ErrInvalidToken).
			Once()
		r := newRouter(authManagerMock)

		req, err := http.NewRequest(http.MethodGet, "/graphql", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer badtoken")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		authManagerMock.AssertExpectations(t)
	})

	t.Run("resolves the user from a valid bearer token", func(t *testing.T) {
		authManagerMock := &auth.AuthManagerMock{}
		authManagerMock.
			On("GetUserID", mock.Anything, "mytoken").
			Return("user-id", nil).
			Once()
		r := newRouter(authManagerMock)

		req, err := http.NewRequest(http.MethodGet, "/graphql", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer mytoken")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-id", rr.Body.String())
		authManagerMock.AssertExpectations(t)
	})
}

func Test_CorsMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(CorsMiddleware([]string{"https://app.example.com"}))
	r.Get("/hello", func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, "/hello", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func Test_RateLimitMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RateLimitMiddleware(2, time.Minute))
	r.Get("/hello", func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, "/hello", nil)
		require.NoError(t, err)
		req.RemoteAddr = "10.0.0.1:4312"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	req, err := http.NewRequest(http.MethodGet, "/hello", nil)
	require.NoError(t, err)
	req.RemoteAddr = "10.0.0.1:4312"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error": "Too many requests."}`, rr.Body.String())
}
