package ports

import (
	"context"

	"github.com/geotrail/location-log/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts user and returns it with its generated ID.
	// A duplicate email yields domain.ErrEmailExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail yields domain.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
