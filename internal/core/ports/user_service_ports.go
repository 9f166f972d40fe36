package ports

import (
	"context"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

type UpdateProfileInput struct {
	Name  string
	Email string
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*domain.User, error)
	ListUsers(ctx context.Context, callerID string) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
