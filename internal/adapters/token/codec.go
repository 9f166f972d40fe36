package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/elearning/internal/config"
	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

// sessionClaims keeps the user id under "id"; the embedded ID is the jti.
type sessionClaims struct {
	jwt.RegisteredClaims
	Kind   domain.TokenKind `json:"kind"`
	UserID string           `json:"id"`
}

type activationClaims struct {
	jwt.RegisteredClaims
	Kind domain.TokenKind `json:"kind"`
	domain.ActivationPayload
}

type kindedClaims interface {
	jwt.Claims
	kind() domain.TokenKind
}

func (c *sessionClaims) kind() domain.TokenKind    { return c.Kind }
func (c *activationClaims) kind() domain.TokenKind { return c.Kind }

// Codec signs and verifies HS256 tokens with one secret per token kind.
type Codec struct {
	secrets map[domain.TokenKind][]byte
	now     func() time.Time
}

func NewCodec(cfg config.TokenConfig) *Codec {
	return &Codec{
		secrets: map[domain.TokenKind][]byte{
			domain.TokenActivation: []byte(cfg.ActivationSecret),
			domain.TokenAccess:     []byte(cfg.AccessSecret),
			domain.TokenRefresh:    []byte(cfg.RefreshSecret),
		},
		now: time.Now,
	}
}

var _ ports.TokenCodec = (*Codec)(nil)

// WithClock replaces the time source used for issuing and validating tokens.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) SignSession(kind domain.TokenKind, payload domain.SessionPayload, ttl time.Duration) (string, error) {
	if kind != domain.TokenAccess && kind != domain.TokenRefresh {
		return "", fmt.Errorf("cannot sign session payload as %q token", kind)
	}
	if payload.ID == "" {
		return "", errors.New("session payload requires an id")
	}
	claims := &sessionClaims{
		RegisteredClaims: c.registered(payload.ID, ttl),
		Kind:             kind,
		UserID:           payload.ID,
	}
	return c.sign(kind, claims)
}

func (c *Codec) VerifySession(kind domain.TokenKind, raw string) (domain.SessionPayload, error) {
	if kind != domain.TokenAccess && kind != domain.TokenRefresh {
		return domain.SessionPayload{}, domain.ErrInvalidToken
	}
	claims := &sessionClaims{}
	if err := c.verify(kind, raw, claims); err != nil {
		return domain.SessionPayload{}, err
	}
	if claims.UserID == "" {
		return domain.SessionPayload{}, fmt.Errorf("%w: missing id", domain.ErrInvalidToken)
	}
	return domain.SessionPayload{ID: claims.UserID}, nil
}

func (c *Codec) SignActivation(payload domain.ActivationPayload, ttl time.Duration) (string, error) {
	claims := &activationClaims{
		RegisteredClaims:  c.registered(payload.User.Email, ttl),
		Kind:              domain.TokenActivation,
		ActivationPayload: payload,
	}
	return c.sign(domain.TokenActivation, claims)
}

func (c *Codec) VerifyActivation(raw string) (domain.ActivationPayload, error) {
	claims := &activationClaims{}
	if err := c.verify(domain.TokenActivation, raw, claims); err != nil {
		return domain.ActivationPayload{}, err
	}
	if claims.User.Email == "" || claims.ActivationCode == "" {
		return domain.ActivationPayload{}, fmt.Errorf("%w: incomplete activation payload", domain.ErrInvalidToken)
	}
	return claims.ActivationPayload, nil
}

func (c *Codec) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := c.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c *Codec) sign(kind domain.TokenKind, claims jwt.Claims) (string, error) {
	secret, ok := c.secrets[kind]
	if !ok || len(secret) == 0 {
		return "", fmt.Errorf("no signing secret configured for %q tokens", kind)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (c *Codec) verify(kind domain.TokenKind, raw string, claims kindedClaims) error {
	secret, ok := c.secrets[kind]
	if !ok || len(secret) == 0 {
		return domain.ErrInvalidToken
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.kind() != kind {
		return fmt.Errorf("%w: expected %s token", domain.ErrInvalidToken, kind)
	}
	return nil
}
