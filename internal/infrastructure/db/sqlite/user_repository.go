package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geotrail/location-log/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `INSERT INTO users (email, password_hash, name) VALUES (?, ?, ?)
		RETURNING CAST(id AS TEXT), email, name`

	created := &domain.User{PasswordHash: user.PasswordHash}
	err := r.db.QueryRowContext(ctx, q, user.Email, user.PasswordHash, user.Name).
		Scan(&created.ID, &created.Email, &created.Name)
	if err != nil {
		return nil, classify(fmt.Errorf("insert user: %w", err))
	}
	return created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT CAST(id AS TEXT), email, name, password_hash FROM users WHERE email = ?`

	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
