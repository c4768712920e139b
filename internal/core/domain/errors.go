package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrStoreUnavailable   = errors.New("database unavailable")
)
