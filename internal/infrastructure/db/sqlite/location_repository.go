package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

type LocationRepository struct {
	db *sql.DB
}

func (r *LocationRepository) Insert(ctx context.Context, loc *domain.Location) error {
	const q = `INSERT INTO locations (user_id, device, lat, lon, ts) VALUES (?, ?, ?, ?, ?)`

	var userID sql.NullString
	if loc.UserID != nil {
		userID = sql.NullString{String: *loc.UserID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q, userID, loc.Device, loc.Lat, loc.Lon, loc.Timestamp.UnixMilli())
	if err != nil {
		return classify(fmt.Errorf("insert location: %w", err))
	}
	return nil
}

func (r *LocationRepository) List(ctx context.Context, f ports.LocationFilter) ([]domain.Location, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Device != "" {
		where = append(where, "device = ?")
		args = append(args, f.Device)
	}
	q := "SELECT device, lat, lon, ts FROM locations"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	// id breaks ties so equal timestamps list newest insert first.
	q += " ORDER BY ts DESC, id DESC LIMIT ?"
	args = append(args, f.Limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Location, 0)
	for rows.Next() {
		var (
			loc domain.Location
			ms  int64
		)
		if err := rows.Scan(&loc.Device, &loc.Lat, &loc.Lon, &ms); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		loc.Timestamp = time.UnixMilli(ms).UTC()
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}
	return out, nil
}
