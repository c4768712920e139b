package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotrail/location-log/internal/pkg/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env: "development",
		HTTP: config.HTTPConfig{
			AuthRequired: true,
			RoutePrefix:  "/api",
			MountRoot:    true,
			CORSOrigins:  []string{"*"},
		},
		Store:  config.StoreConfig{Driver: config.DriverSQLite, StartupCheck: true},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "app.db")},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	a, err := newApp(ctx, cfg, zerolog.Nop(), reg, reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })
	return a
}

func TestApp_SQLiteEndToEnd(t *testing.T) {
	a := newTestApp(t, sqliteConfig(t))
	require.NoError(t, a.CheckStore(context.Background()))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"e2e@example.com","password":"pw","name":"E2E"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sqlite":{"status":"ok"}`)
}

func TestApp_CORSPreflight(t *testing.T) {
	a := newTestApp(t, sqliteConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/locations", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_CheckStore(t *testing.T) {
	t.Run("unreachable store fails when the check is enforced", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "missing-dir", "app.db")
		a := newTestApp(t, cfg)

		assert.Error(t, a.CheckStore(context.Background()))
	})

	t.Run("unreachable store is tolerated when the check is disabled", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "missing-dir", "app.db")
		cfg.Store.StartupCheck = false
		a := newTestApp(t, cfg)

		assert.NoError(t, a.CheckStore(context.Background()))
	})
}

func TestApp_UnreachableRedisDisablesDedup(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"
	a := newTestApp(t, cfg)

	assert.Nil(t, a.redis)
}

func TestApp_DegradedStartPreparesSchemaOnFirstUse(t *testing.T) {
	cfg := sqliteConfig(t)
	dir := filepath.Join(t.TempDir(), "later")
	cfg.SQLite.Path = filepath.Join(dir, "app.db")
	cfg.Store.StartupCheck = false
	a := newTestApp(t, cfg)

	require.NoError(t, a.CheckStore(context.Background()))

	register := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"email":"late@example.com","password":"pw","name":"Late"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	// the store becomes reachable after startup
	require.NoError(t, os.MkdirAll(dir, 0o755))

	assert.Equal(t, http.StatusCreated, register())
	assert.Equal(t, http.StatusConflict, register())
}
