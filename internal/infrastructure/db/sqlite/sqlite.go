// Package sqlite is a single-file storage backend for local development and
// tests. Unlike the server backends it bootstraps its own tables.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/geotrail/location-log/internal/core/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT    NOT NULL UNIQUE,
	password_hash TEXT    NOT NULL,
	name          TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NULL REFERENCES users(id),
	device  TEXT    NOT NULL,
	lat     REAL    NOT NULL,
	lon     REAL    NOT NULL,
	ts      INTEGER NOT NULL -- unix milliseconds
);

CREATE INDEX IF NOT EXISTS idx_locations_user_device_ts ON locations(user_id, device, ts DESC);
`

type Store struct {
	db        *sql.DB
	users     *UserRepository
	locations *LocationRepository
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")

	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// One writer at a time; concurrent handlers queue on the pool.
	db.SetMaxOpenConns(1)

	return &Store{
		db:        db,
		users:     &UserRepository{db: db},
		locations: &LocationRepository{db: db},
	}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	return nil
}

func (s *Store) Users() ports.UserRepository         { return s.users }
func (s *Store) Locations() ports.LocationRepository { return s.locations }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
