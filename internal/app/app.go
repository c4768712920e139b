// Package app wires configuration, storage, services and the HTTP router into
// a single http.Handler. It owns no listener so any host can mount Handler().
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/geotrail/location-log/internal/api"
	"github.com/geotrail/location-log/internal/api/handler"
	"github.com/geotrail/location-log/internal/core/ports"
	"github.com/geotrail/location-log/internal/core/service"
	mongostore "github.com/geotrail/location-log/internal/infrastructure/db/mongo"
	"github.com/geotrail/location-log/internal/infrastructure/db/postgres"
	"github.com/geotrail/location-log/internal/infrastructure/db/schema"
	redisdb "github.com/geotrail/location-log/internal/infrastructure/db/redis"
	"github.com/geotrail/location-log/internal/infrastructure/db/sqlite"
	"github.com/geotrail/location-log/internal/pkg/config"
	"github.com/geotrail/location-log/internal/pkg/token"
)

const startupCheckTimeout = 10 * time.Second

// App is the fully wired service.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   ports.Store
	redis   *goredis.Client
	handler http.Handler
}

// New opens the configured store (lazily for server backends), connects the
// optional dedup cache and builds the router. It does not ping the store;
// call CheckStore for that.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	return newApp(ctx, cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*App, error) {
	inner, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Schema preparation is retried on first use, so a degraded start still
	// gets the unique email constraint before any registration.
	store := schema.Guard(inner)

	a := &App{cfg: cfg, log: log, store: store}

	var dedup service.DedupChecker
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, duplicate suppression disabled")
		} else {
			a.redis = client
			dedup = redisdb.NewDedupChecker(client, cfg.Redis.DedupTTL)
		}
	}

	secret, ok := cfg.SigningSecret()
	if !ok {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the development secret")
	}
	codec := token.NewCodec(secret)

	checks := []handler.DependencyCheck{{Name: cfg.Store.Driver, Ping: store.Ping}}
	if a.redis != nil {
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: redisdb.HealthCheck(a.redis)})
	}

	router := api.NewRouter(api.RouterOptions{
		AuthService:     service.NewAuthService(store.Users(), codec, log),
		LocationService: service.NewLocationService(store.Locations(), dedup, log),
		Tokens:          codec,
		Readiness:       checks,
		Logger:          log,
		AuthRequired:    cfg.HTTP.AuthRequired,
		RoutePrefix:     cfg.HTTP.RoutePrefix,
		MountRoot:       cfg.HTTP.MountRoot,
		Registerer:      reg,
		Gatherer:        gatherer,
	})

	a.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	log.Info().
		Str("store", cfg.Store.Driver).
		Bool("auth_required", cfg.HTTP.AuthRequired).
		Str("route_prefix", cfg.HTTP.RoutePrefix).
		Bool("dedup", dedup != nil).
		Msg("application wired")

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return postgres.Open(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN(),
			CACert:   cfg.Postgres.CACert,
			MaxConns: cfg.Postgres.MaxConns,
		})
	case config.DriverMongo:
		return mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.Store.Driver)
	}
}

// Handler returns the wired HTTP handler, CORS included.
func (a *App) Handler() http.Handler { return a.handler }

// CheckStore pings the store and prepares its schema. With DB_STARTUP_CHECK
// disabled a failure is only logged so the process can start degraded; the
// schema is then prepared by the first request that reaches the store.
func (a *App) CheckStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()

	err := a.store.Ping(ctx)
	if err == nil {
		a.log.Info().Str("store", a.cfg.Store.Driver).Msg("store reachable")
		return nil
	}

	if !a.cfg.Store.StartupCheck {
		a.log.Warn().Err(err).Msg("store check failed, continuing")
		return nil
	}
	return fmt.Errorf("store startup check: %w", err)
}

// Close releases the store and the redis client.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.store.Close(ctx))
	return errors.Join(errs...)
}
