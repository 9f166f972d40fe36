package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

const minPasswordLength = 6

// AuthConfig holds the lifetimes and audience the auth service needs.
type AuthConfig struct {
	ActivationTTL  time.Duration
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	SessionTTL     time.Duration
	GoogleClientID string
}

type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	codec    ports.TokenCodec
	mailer   ports.Mailer
	verifier ports.TokenVerifier
	cfg      AuthConfig
	logger   *zap.Logger
	newCode  func() (string, error)
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	codec ports.TokenCodec,
	mailer ports.Mailer,
	verifier ports.TokenVerifier,
	cfg AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		mailer:   mailer,
		verifier: verifier,
		cfg:      cfg,
		logger:   logger,
		newCode:  activationCode,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

// activationCode returns a uniformly random code in [1000, 9999].
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.Registration, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&input.Email, validation.Required, is.EmailFormat),
		validation.Field(&input.Password, validation.Required, validation.Length(minPasswordLength, 128)),
	)
	if err != nil {
		return nil, invalid(err)
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate activation code: %w", err)
	}
	token, err := s.codec.SignActivation(domain.ActivationPayload{
		User:           domain.PendingUser{Name: input.Name, Email: input.Email, Password: input.Password},
		ActivationCode: code,
	}, s.cfg.ActivationTTL)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendActivationCode(ctx, input.Email, input.Name, code); err != nil {
		s.logger.Error("failed to send activation email", zap.Error(err), zap.String("email", input.Email))
		if errors.Is(err, domain.ErrMailDelivery) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}

	return &ports.Registration{Email: input.Email, ActivationToken: token}, nil
}

func (s *AuthService) Activate(ctx context.Context, activationToken, code string) (*domain.User, error) {
	if activationToken == "" || code == "" {
		return nil, invalid(errors.New("activation token and code are required"))
	}

	payload, err := s.codec.VerifyActivation(activationToken)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(payload.ActivationCode), []byte(code)) != 1 {
		return nil, domain.ErrActivationCodeMismatch
	}

	existing, err := s.users.FindByEmail(ctx, payload.User.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	user, err := domain.NewUser(payload.User.Name, payload.User.Email, payload.User.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to build user: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user activated", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.TokenPair{}, invalid(errors.New("please provide your email and password"))
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.ComparePassword(password) {
		return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*domain.User, domain.TokenPair, error) {
	if credential == "" {
		return nil, domain.TokenPair{}, invalid(errors.New("google credential is required"))
	}

	payload, err := s.verifier.Verify(ctx, credential, s.cfg.GoogleClientID)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	email := normalizeEmail(payload.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user, err = domain.NewUser(payload.Name, email, "")
		if err != nil {
			return nil, domain.TokenPair{}, err
		}
		if payload.Picture != "" {
			user.Avatar = &domain.Avatar{URL: payload.Picture}
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, domain.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
		}
		s.logger.Info("user created from google sign-in", zap.String("user_id", user.ID))
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	payload, err := s.codec.VerifySession(domain.TokenAccess, accessToken)
	if err != nil {
		return nil, err
	}

	return s.loadSession(ctx, payload.ID)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.TokenPair{}, domain.ErrUnauthenticated
	}

	payload, err := s.codec.VerifySession(domain.TokenRefresh, refreshToken)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	user, err := s.loadSession(ctx, payload.ID)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) loadSession(ctx context.Context, userID string) (*domain.User, error) {
	user, found, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return nil, domain.ErrSessionExpired
	}
	return user, nil
}

// startSession mints a fresh token pair and (re)writes the session entry.
func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*domain.User, domain.TokenPair, error) {
	subject := domain.SessionPayload{ID: user.ID}

	access, err := s.codec.SignSession(domain.TokenAccess, subject, s.cfg.AccessTTL)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.codec.SignSession(domain.TokenRefresh, subject, s.cfg.RefreshTTL)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	snapshot := user.Snapshot()
	if err := s.sessions.Put(ctx, user.ID, snapshot, s.cfg.SessionTTL); err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to write session: %w", err)
	}

	return snapshot, domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
