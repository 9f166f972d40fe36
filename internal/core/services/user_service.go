package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

type UserService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	logger   *zap.Logger
}

func NewUserService(users ports.UserRepository, sessions ports.SessionStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

var _ ports.UserService = (*UserService)(nil)

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.Length(1, 100)),
		validation.Field(&input.Email, is.EmailFormat),
	)
	if err != nil {
		return nil, invalid(err)
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, input.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicateEmail
		}
		user.Email = input.Email
	}
	if input.Name != "" {
		user.Name = input.Name
	}

	return s.save(ctx, user)
}

func (s *UserService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return invalid(errors.New("please enter your old and new password"))
	}
	if err := validation.Validate(newPassword, validation.Length(minPasswordLength, 128)); err != nil {
		return invalid(fmt.Errorf("new password: %w", err))
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return invalid(errors.New("this account signs in with a social provider and has no password"))
	}
	if !user.ComparePassword(oldPassword) {
		return domain.ErrInvalidCredentials
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.save(ctx, user)
	return err
}

func (s *UserService) UpdateAvatar(ctx context.Context, id, avatarURL string) (*domain.User, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if err := validation.Validate(avatarURL, validation.Required, is.URL); err != nil {
		return nil, invalid(fmt.Errorf("avatar: %w", err))
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Avatar = &domain.Avatar{URL: avatarURL}

	return s.save(ctx, user)
}

func (s *UserService) ListUsers(ctx context.Context, callerID string) ([]*domain.User, error) {
	users, err := s.users.List(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if id == "" {
		return nil, invalid(errors.New("user id is required"))
	}
	if !role.IsValid() {
		return nil, invalid(fmt.Errorf("unknown role %q", role))
	}

	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.syncSession(ctx, user)
	s.logger.Info("user role updated", zap.String("user_id", id), zap.String("role", string(role)))
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *UserService) save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.syncSession(ctx, user)
	return user, nil
}

// syncSession rewrites a live session entry so guards see the new state.
// Users without a session are left signed out and the expiry is unchanged.
func (s *UserService) syncSession(ctx context.Context, user *domain.User) {
	if _, err := s.sessions.Replace(ctx, user.ID, user.Snapshot()); err != nil {
		s.logger.Warn("failed to rewrite session", zap.Error(err), zap.String("user_id", user.ID))
	}
}
