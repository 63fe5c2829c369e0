package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags the request with an id, puts a request-scoped logger in
// the context and logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		l := logger.Get().With("requestID", requestID)
		ctx := logger.NewContext(r.Context(), l)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		l.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// Timeout bounds the request context. Storage calls that run past it fail
// with a storage timeout.
func Timeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates and authorizes requests by the security level of the
// matched route name.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityAccess
		if route := mux.CurrentRoute(r); route != nil {
			level = config.GetSecurityLevel(route.GetName())
		}

		if level == config.SecurityPublic {
			// Public routes still see the caller when a valid token is sent.
			if claims, err := m.authenticate(r); err == nil {
				r = r.WithContext(withCaller(r.Context(), Caller{UserID: claims.UserID, Roles: claims.Roles}))
			}
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authenticate(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		caller := Caller{UserID: claims.UserID, Roles: claims.Roles}
		if level == config.SecurityAdmin && !caller.IsAdmin() {
			writeError(w, r, domain.NewError(domain.KindForbidden, "admin access required"))
			return
		}

		ctx := withCaller(r.Context(), caller)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("userID", caller.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*security.UserClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, domain.NewError(domain.KindUnauthorized, "authorization token is not provided")
	}
	token := header
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = token[7:]
	}

	claims, err := m.tokenManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, domain.NewError(domain.KindUnauthorized, "token has expired")
		}
		return nil, domain.NewError(domain.KindUnauthorized, "invalid token")
	}
	return claims, nil
}
