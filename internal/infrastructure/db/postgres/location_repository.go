package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

// querier is the subset of *pgxpool.Pool the repositories use. Each call
// acquires and releases its own pooled connection.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// userIDByText resolves a textual user id to the users.id column, whatever its
// SQL type (serial or uuid). A NULL argument yields NULL.
const userIDByText = `(SELECT id FROM users WHERE id::text = $1)`

// LocationRepository implements ports.LocationRepository on the locations table.
type LocationRepository struct {
	db querier
}

func NewLocationRepository(db querier) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Insert(ctx context.Context, loc *domain.Location) error {
	const q = `INSERT INTO locations (user_id, device, lat, lon, ts)
		VALUES (` + userIDByText + `, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, q, loc.UserID, loc.Device, loc.Lat, loc.Lon, loc.Timestamp); err != nil {
		return classify(fmt.Errorf("insert location: %w", err))
	}
	return nil
}

func (r *LocationRepository) List(ctx context.Context, f ports.LocationFilter) ([]domain.Location, error) {
	q, args := listQuery(f)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("select locations: %w", err))
	}
	defer rows.Close()

	out := make([]domain.Location, 0)
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.Device, &loc.Lat, &loc.Lon, &loc.Timestamp); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("select locations: %w", err))
	}
	return out, nil
}

// listQuery builds the filtered SELECT with positional arguments.
func listQuery(f ports.LocationFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, "user_id = "+strings.Replace(userIDByText, "$1", fmt.Sprintf("$%d", len(args)), 1))
	}
	if f.Device != "" {
		args = append(args, f.Device)
		where = append(where, fmt.Sprintf("device = $%d", len(args)))
	}
	args = append(args, f.Limit)

	var b strings.Builder
	b.WriteString("SELECT device, lat, lon, ts FROM locations")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY ts DESC, id DESC LIMIT $%d", len(args))
	return b.String(), args
}
