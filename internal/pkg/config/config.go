package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"

	// DevJWTSecret signs tokens outside production when JWT_SECRET is unset.
	DevJWTSecret = "dev-secret"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	HTTP     HTTPConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
}

type HTTPConfig struct {
	AuthRequired bool     `env:"AUTH_REQUIRED,        default=true"`
	RoutePrefix  string   `env:"ROUTE_PREFIX"`
	MountRoot    bool     `env:"MOUNT_ROOT,           default=true"`
	CORSOrigins  []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

type StoreConfig struct {
	Driver       string `env:"STORE_DRIVER,     default=postgres"`
	StartupCheck bool   `env:"DB_STARTUP_CHECK, default=true"`
}

type PostgresConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"PGHOST,     default=localhost"`
	Port     int    `env:"PGPORT,     default=5432"`
	Database string `env:"PGDATABASE, default=postgres"`
	User     string `env:"PGUSER,     default=postgres"`
	Password string `env:"PGPASSWORD"`
	SSLMode  string `env:"PGSSLMODE"`
	CACert   string `env:"PG_CA_CERT"`
	MaxConns int32  `env:"PG_MAX_CONNS, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=location_log"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=locations.db"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,  default=0"`
	DedupTTL time.Duration `env:"DEDUP_TTL, default=1h"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.IsProduction() {
		return errors.New("config: JWT_SECRET is required in production")
	}
	switch c.Store.Driver {
	case DriverPostgres, DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if p := c.HTTP.RoutePrefix; p != "" && !strings.HasPrefix(p, "/") {
		return fmt.Errorf("config: ROUTE_PREFIX must start with '/', got %q", p)
	}
	return nil
}

// SigningSecret returns JWT_SECRET, or the development secret when it is unset.
// The second value is false when the fallback was used.
func (c *Config) SigningSecret() (string, bool) {
	if c.JWTSecret == "" {
		return DevJWTSecret, false
	}
	return c.JWTSecret, true
}

// DSN builds a Postgres connection string. DATABASE_URL wins when set.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, fmt.Sprint(p.Port)),
		Path:   "/" + p.Database,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {p.SSLMode}}.Encode()
	}
	return u.String()
}
