package ports

import (
	"context"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

// UserRepository returns (nil, nil) from the Find methods when nothing matches.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	List(ctx context.Context, excludeID string) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}
