package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type LocationService struct {
	repo  ports.LocationRepository
	dedup DedupChecker // nil disables duplicate suppression
	log   zerolog.Logger
	now   func() time.Time
}

func NewLocationService(repo ports.LocationRepository, dedup DedupChecker, log zerolog.Logger) *LocationService {
	return &LocationService{repo: repo, dedup: dedup, log: log, now: time.Now}
}

// Record validates and stores a single location report. Reports carrying a
// client timestamp are checked against the dedup store first; a hit is
// acknowledged without writing.
func (s *LocationService) Record(ctx context.Context, in ports.RecordLocationInput) (bool, error) {
	if in.Device == "" {
		return false, fmt.Errorf("%w: device, lat, lon required", domain.ErrValidation)
	}

	clientTS := !in.Timestamp.IsZero()
	ts := in.Timestamp
	if !clientTS {
		ts = s.now()
	}

	var key string
	if clientTS && s.dedup != nil {
		key = dedupKey(in, ts)
		dup, err := s.dedup.IsDuplicate(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("device", in.Device).Msg("dedup check failed, recording anyway")
		} else if dup {
			s.log.Debug().Str("device", in.Device).Time("ts", ts).Msg("duplicate location skipped")
			return false, nil
		}
	}

	loc := &domain.Location{
		UserID:    in.UserID,
		Device:    in.Device,
		Lat:       in.Lat,
		Lon:       in.Lon,
		Timestamp: ts.UTC(),
	}
	if err := s.repo.Insert(ctx, loc); err != nil {
		return false, fmt.Errorf("insert location: %w", err)
	}

	if key != "" {
		if err := s.dedup.Mark(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("device", in.Device).Msg("failed to set dedup key")
		}
	}
	return true, nil
}

func (s *LocationService) List(ctx context.Context, in ports.ListLocationsInput) ([]domain.Location, error) {
	locs, err := s.repo.List(ctx, ports.LocationFilter{
		UserID: in.UserID,
		Device: in.Device,
		Limit:  ClampLimit(in.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locs, nil
}

// ClampLimit maps non-positive limits to the default and caps the rest.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return ports.DefaultLocationLimit
	case limit > ports.MaxLocationLimit:
		return ports.MaxLocationLimit
	default:
		return limit
	}
}

// dedupKey identifies a full report so only exact retries collide:
// loc:<user|anon>:<device>:<unix_ms>:<lat>:<lon>
func dedupKey(in ports.RecordLocationInput, ts time.Time) string {
	owner := "anon"
	if in.UserID != nil {
		owner = *in.UserID
	}
	return fmt.Sprintf("loc:%s:%s:%d:%s:%s", owner, in.Device, ts.UnixMilli(),
		strconv.FormatFloat(in.Lat, 'g', -1, 64), strconv.FormatFloat(in.Lon, 'g', -1, 64))
}
