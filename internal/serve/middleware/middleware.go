package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
	"github.com/meridianpay/wallet-platform-backend/internal/serve/httperror"
	"github.com/meridianpay/wallet-platform-backend/internal/utils"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

type ContextKey string

const (
	TokenContextKey  ContextKey = "auth_token"
	UserIDContextKey ContextKey = "user_id"
)

// RecoverHandler is a middleware that recovers from panics and logs the error.
func RecoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}

			// No need to recover when the client has disconnected:
			if errors.Is(err, http.ErrAbortHandler) {
				panic(err)
			}

			ctx := req.Context()
			logging.L(ctx).Error(err)
			httperror.InternalError(ctx, "", err, nil).Render(rw)
		}()

		next.ServeHTTP(rw, req)
	})
}

// MetricsRequestHandler is a middleware that monitors http requests, and exports
// the data to the metrics server.
func MetricsRequestHandler(monitorService monitor.MonitorServiceInterface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			mw := chimiddleware.NewWrapResponseWriter(rw, req.ProtoMajor)
			then := time.Now()
			next.ServeHTTP(mw, req)

			duration := time.Since(then)

			labels := monitor.HTTPRequestLabels{
				Status: fmt.Sprintf("%d", mw.Status()),
				Route:  utils.GetRoutePattern(req),
				Method: req.Method,
			}

			err := monitorService.MonitorHTTPRequestDuration(duration, labels)
			if err != nil {
				logging.L(req.Context()).Errorf("Error trying to monitor request time: %s", err)
			}
		})
	}
}

// AuthenticateMiddleware is a middleware that validates the Authorization header for
// authenticated endpoints.
func AuthenticateMiddleware(authManager auth.AuthManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			authHeader := req.Header.Get("Authorization")
			if authHeader == "" {
				httperror.Unauthorized("", nil, nil).Render(rw)
				return
			}

			authHeaderParts := strings.Split(authHeader, " ")
			if len(authHeaderParts) != 2 {
				httperror.Unauthorized("", nil, nil).Render(rw)
				return
			}

			ctx := req.Context()
			token := authHeaderParts[1]
			userID, err := authManager.GetUserID(ctx, token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrUserNotFound) {
					err = fmt.Errorf("error validating auth token: %w", err)
					logging.L(ctx).Error(err)
				}
				httperror.Unauthorized("", nil, nil).Render(rw)
				return
			}

			// Add the token and user ID to the request context
			ctx = context.WithValue(ctx, TokenContextKey, token)
			ctx = context.WithValue(ctx, UserIDContextKey, userID)
			ctx = logging.WithLogField(ctx, "user_id", userID)

			req = req.WithContext(ctx)

			next.ServeHTTP(rw, req)
		})
	}
}

// ResolveAuthMiddleware resolves the caller's identity into the request
// context without rejecting anonymous requests. Requests carrying an
// Authorization header are authenticated (API key or JWT) and rejected when
// the credential is invalid; requests without one pass through so public
// operations like login still work. Resolvers enforce authentication per
// operation.
func ResolveAuthMiddleware(authManager auth.AuthManager, apiKeyModel *data.APIKeyModel) func(http.Handler) http.Handler {
	apiKeyOrJWT := APIKeyOrJWTAuthenticate(apiKeyModel, AuthenticateMiddleware(authManager))

	return func(next http.Handler) http.Handler {
		authenticated := apiKeyOrJWT(next)
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") == "" {
				next.ServeHTTP(rw, req)
				return
			}
			authenticated.ServeHTTP(rw, req)
		})
	}
}

func CorsMiddleware(corsAllowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		cors := cors.New(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedHeaders: []string{"*"},
			AllowedMethods: []string{"GET", "PUT", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		})

		return cors.Handler(next)
	}
}

// RateLimitMiddleware limits each client IP to requestLimit requests per window.
func RateLimitMiddleware(requestLimit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(rw http.ResponseWriter, req *http.Request) {
			httperror.TooManyRequests("", nil, nil).Render(rw)
		}),
	)
}

// LoggingMiddleware is a middleware that logs requests to the logger.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		mw := chimiddleware.NewWrapResponseWriter(rw, req.ProtoMajor)

		ctx := req.Context()
		entry := logging.L(ctx).WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.String(),
			"req":    chimiddleware.GetReqID(ctx),
		})
		ctx = logging.WithLogger(ctx, entry)
		req = req.WithContext(ctx)

		logRequestStart(req)
		started := time.Now()

		next.ServeHTTP(mw, req)
		ended := time.Since(started)
		logRequestEnd(req, mw, ended)
	})
}

func logRequestStart(req *http.Request) {
	l := logging.L(req.Context()).WithFields(logrus.Fields{
		"subsys":    "http",
		"ip":        req.RemoteAddr,
		"host":      req.Host,
		"useragent": req.Header.Get("User-Agent"),
	})

	l.Info("starting request")
}

func logRequestEnd(req *http.Request, mw chimiddleware.WrapResponseWriter, duration time.Duration) {
	l := logging.L(req.Context()).WithFields(logrus.Fields{
		"subsys":   "http",
		"status":   mw.Status(),
		"bytes":    mw.BytesWritten(),
		"duration": duration,
	})
	if routeContext := chi.RouteContext(req.Context()); routeContext != nil {
		l = l.WithField("route", routeContext.RoutePattern())
	}

	l.Info("finished request")
}
