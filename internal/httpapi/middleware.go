package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type ctxKey struct{}

// UserFrom returns the authenticated user stored by Authenticate.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*domain.User)
	return u, ok
}

// RequestLogger writes one line per request and attaches a request scoped
// logger to the context.
func RequestLogger(baseLogger *zerolog.Logger) func(next http.Handler) http.Handler {
	log := baseLogger.With().Str("component", "http").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(reqLog.WithContext(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			reqLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Authenticate resolves the bearer token into a user.
func Authenticate(auth ports.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				Error(w, r, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthorized))
				return
			}

			user, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, user)
			l := zerolog.Ctx(ctx).With().Str("user_id", user.ID.String()).Logger()
			next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
		})
	}
}

// Require rejects users whose role lacks the capability.
func Require(c domain.Capability) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				Error(w, r, fmt.Errorf("%w: not signed in", domain.ErrUnauthorized))
				return
			}
			if !user.Role.Can(c) {
				Error(w, r, fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, user.Role, c))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
