package ports

import (
	"context"
	"time"

	"github.com/geotrail/location-log/internal/core/domain"
)

// RecordLocationInput is the DTO passed from the transport layer to LocationService.
type RecordLocationInput struct {
	UserID    *string
	Device    string
	Lat       float64
	Lon       float64
	Timestamp time.Time // zero = time of receipt
}

type ListLocationsInput struct {
	UserID *string
	Device string
	Limit  int
}

type LocationService interface {
	// Record stores a report. It returns false, with no error, when the report
	// was recognised as a retry of one already stored.
	Record(ctx context.Context, input RecordLocationInput) (bool, error)
	List(ctx context.Context, input ListLocationsInput) ([]domain.Location, error)
}
