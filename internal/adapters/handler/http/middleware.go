package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

type userKey struct{}

// CurrentUser returns the session snapshot attached by RequireAuth.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*domain.User)
	return user, ok && user != nil
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

type Middleware struct {
	auth    ports.AuthService
	cookies Cookies
	logger  *zap.Logger
}

func NewMiddleware(auth ports.AuthService, cookies Cookies, logger *zap.Logger) *Middleware {
	return &Middleware{auth: auth, cookies: cookies, logger: logger}
}

// RefreshSession renews both tokens from the refresh cookie before the
// request reaches RequireAuth. Requests without a refresh cookie pass
// through untouched.
func (m *Middleware) RefreshSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshToken := cookieValue(r, RefreshTokenCookie)
		if refreshToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, pair, err := m.auth.Refresh(r.Context(), refreshToken)
		if err != nil {
			m.cookies.Expire(w)
			writeError(w, m.logger, err)
			return
		}

		m.cookies.SetTokens(w, pair)
		m.logger.Debug("session renewed", zap.String("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(withRenewedAccessToken(r.Context(), pair.AccessToken)))
	})
}

// RequireAuth resolves the access token to a live session.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.auth.Authenticate(r.Context(), accessToken(r))
		if err != nil {
			writeError(w, m.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// RequireRole must run after RequireAuth.
func (m *Middleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				writeError(w, m.logger, domain.ErrUnauthenticated)
				return
			}
			if !domain.RoleAllowed(user.Role, roles...) {
				writeError(w, m.logger, fmt.Errorf("%w: role %s is not allowed to access this resource, requires one of %v",
					domain.ErrForbidden, user.Role, roles))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request with the chi request id.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
