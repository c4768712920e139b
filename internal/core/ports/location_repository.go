package ports

import (
	"context"

	"github.com/geotrail/location-log/internal/core/domain"
)

const (
	DefaultLocationLimit = 50
	MaxLocationLimit     = 500
)

// LocationFilter narrows a location listing.
type LocationFilter struct {
	UserID *string // nil = every user's rows
	Device string  // empty = any device
	Limit  int
}

// LocationRepository persists location reports. Rows are never updated.
type LocationRepository interface {
	Insert(ctx context.Context, loc *domain.Location) error
	// List returns matching rows ordered by timestamp, newest first.
	List(ctx context.Context, filter LocationFilter) ([]domain.Location, error)
}
