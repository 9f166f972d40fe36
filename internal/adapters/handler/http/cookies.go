package http

import (
	"context"
	"net/http"
	"time"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type CookieConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
	Domain     string
}

// Cookies writes the token pair as HttpOnly, SameSite=Lax cookies whose
// MaxAge matches the token lifetimes.
type Cookies struct {
	cfg CookieConfig
}

func NewCookies(cfg CookieConfig) Cookies {
	return Cookies{cfg: cfg}
}

func (c Cookies) SetTokens(w http.ResponseWriter, pair domain.TokenPair) {
	c.set(w, AccessTokenCookie, pair.AccessToken, c.cfg.AccessTTL)
	c.set(w, RefreshTokenCookie, pair.RefreshToken, c.cfg.RefreshTTL)
}

func (c Cookies) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.cfg.Domain,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) Expire(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   c.cfg.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

type renewedTokenKey struct{}

// withRenewedAccessToken records an access token minted earlier in the
// same request so later stages read it instead of the stale cookie.
func withRenewedAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, renewedTokenKey{}, token)
}

func renewedAccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(renewedTokenKey{}).(string)
	return token, ok && token != ""
}

func accessToken(r *http.Request) string {
	if token, ok := renewedAccessToken(r.Context()); ok {
		return token
	}
	return cookieValue(r, AccessTokenCookie)
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
