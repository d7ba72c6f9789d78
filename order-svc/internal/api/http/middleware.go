package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"go.uber.org/zap"
)

// Identity headers set by the gateway after it verified the caller's token.
// The gateway strips any client-supplied copies.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserAdmin = "X-User-Admin"
	HeaderRequestID = "X-Request-ID"
)

var (
	errNotLoggedIn = domain.NewError(domain.ErrUnauthorized, "not authorized, please log in")
	errAdminOnly   = domain.NewError(domain.ErrForbidden, "admin access required")
)

type callerKey struct{}

func callerFrom(r *http.Request) domain.Caller {
	caller, _ := r.Context().Value(callerKey{}).(domain.Caller)
	return caller
}

func requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			writeError(w, r, errNotLoggedIn)
			return
		}
		caller := domain.Caller{UserID: userID, IsAdmin: r.Header.Get(HeaderUserAdmin) == "true"}
		next(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	}
}

func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request) {
		if !callerFrom(r).IsAdmin {
			writeError(w, r, errAdminOnly)
			return
		}
		next(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get(HeaderRequestID)))
	})
}
