package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

type TokenCodec interface {
	SignSession(kind domain.TokenKind, payload domain.SessionPayload, ttl time.Duration) (string, error)
	VerifySession(kind domain.TokenKind, token string) (domain.SessionPayload, error)
	SignActivation(payload domain.ActivationPayload, ttl time.Duration) (string, error)
	VerifyActivation(token string) (domain.ActivationPayload, error)
}

// SessionStore caches user snapshots keyed by user id. Get reports a missing or
// expired entry with found=false and a nil error.
type SessionStore interface {
	Put(ctx context.Context, userID string, snapshot *domain.User, ttl time.Duration) error
	Get(ctx context.Context, userID string) (user *domain.User, found bool, err error)
	// Replace overwrites an existing entry and keeps its remaining TTL. It never
	// creates one and reports replaced=false when no entry exists.
	Replace(ctx context.Context, userID string, snapshot *domain.User) (replaced bool, err error)
	Delete(ctx context.Context, userID string) error
}

type TokenPayload struct {
	Email   string
	Name    string
	Picture string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type Mailer interface {
	SendActivationCode(ctx context.Context, toEmail, name, code string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Registration struct {
	Email           string
	ActivationToken string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*Registration, error)
	Activate(ctx context.Context, activationToken, activationCode string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error)
	LoginWithGoogle(ctx context.Context, credential string) (*domain.User, domain.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	// Authenticate resolves an access token to the cached session snapshot.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	// Refresh rotates both tokens and slides the session TTL.
	Refresh(ctx context.Context, refreshToken string) (*domain.User, domain.TokenPair, error)
}
