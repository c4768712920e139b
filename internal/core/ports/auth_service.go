package ports

import (
	"context"

	"github.com/geotrail/location-log/internal/core/domain"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult pairs a freshly issued token with the public user fields.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
