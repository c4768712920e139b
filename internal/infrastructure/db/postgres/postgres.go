package postgres

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geotrail/location-log/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings needed to build the pool.
type Config struct {
	DSN      string
	CACert   string // PEM; when set the server certificate is verified against it
	MaxConns int32
}

// Store is the Postgres-backed ports.Store.
type Store struct {
	pool      *pgxpool.Pool
	users     *UserRepository
	locations *LocationRepository
}

// Open builds the shared pool. pgxpool dials lazily, so Open succeeds even when
// the server is down; use Ping to check connectivity.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	return &Store{
		pool:      pool,
		users:     NewUserRepository(pool),
		locations: NewLocationRepository(pool),
	}, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "location-log"
	poolCfg.ConnConfig.ConnectTimeout = defaultTimeout
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = 0
	poolCfg.MaxConnLifetime = time.Hour

	if cfg.CACert != "" {
		roots := x509.NewCertPool()
		if !roots.AppendCertsFromPEM([]byte(cfg.CACert)) {
			return nil, errors.New("postgres: PG_CA_CERT contains no PEM certificates")
		}
		poolCfg.ConnConfig.TLSConfig = &tls.Config{
			RootCAs:    roots,
			ServerName: poolCfg.ConnConfig.Host,
			MinVersion: tls.VersionTLS12,
		}
		// Fallbacks would retry without TLS.
		poolCfg.ConnConfig.Fallbacks = nil
	}
	return poolCfg, nil
}

func (s *Store) Users() ports.UserRepository         { return s.users }
func (s *Store) Locations() ports.LocationRepository { return s.locations }

// EnsureSchema is a no-op: the tables are provisioned at deployment time
// (see schema.sql).
func (s *Store) EnsureSchema(context.Context) error { return nil }

// Ping acquires a connection and runs a round trip.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return classify(fmt.Errorf("postgres ping: %w", err))
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
