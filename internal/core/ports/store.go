package ports

import "context"

// Store is a storage backend: both repositories plus lifecycle hooks.
type Store interface {
	Users() UserRepository
	Locations() LocationRepository
	// EnsureSchema prepares backend-side constraints the repositories rely on.
	// Backends whose schema is provisioned externally do nothing.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
