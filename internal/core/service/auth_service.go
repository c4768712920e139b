package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
	"github.com/geotrail/location-log/internal/pkg/password"
)

// TokenIssuer signs a bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// dummyHash is compared against when the email is unknown so that both login
// failure paths do the same bcrypt work.
var dummyHash = sync.OnceValue(func() string {
	h, _ := password.Hash("location-log:unknown-user")
	return h
})

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: email, password, name required", domain.ErrValidation)
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	tkn, err := s.tokens.Issue(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return &ports.AuthResult{Token: tkn, User: publicUser(created)}, nil
}

func (s *AuthService) Login(ctx context.Context, email, pw string) (*ports.AuthResult, error) {
	if email == "" || pw == "" {
		return nil, fmt.Errorf("%w: email and password required", domain.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		password.Verify(pw, dummyHash())
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(pw, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: tkn, User: publicUser(user)}, nil
}

// publicUser strips the password hash before the user leaves the service.
func publicUser(u *domain.User) *domain.User {
	return &domain.User{ID: u.ID, Email: u.Email, Name: u.Name}
}
