package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/geotrail/location-log/internal/core/domain"
)

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create relies on the UNIQUE(email) constraint; id is generated by the database.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id::text, email, name`

	created := &domain.User{PasswordHash: user.PasswordHash}
	err := r.db.QueryRow(ctx, q, user.Email, user.PasswordHash, user.Name).
		Scan(&created.ID, &created.Email, &created.Name)
	if err != nil {
		return nil, classify(fmt.Errorf("insert user: %w", err))
	}
	return created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT id::text, email, name, password_hash FROM users WHERE email = $1`

	u := &domain.User{}
	err := r.db.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify(fmt.Errorf("find user: %w", err))
	}
	return u, nil
}
