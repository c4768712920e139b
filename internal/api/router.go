package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/geotrail/location-log/docs" // swagger docs
	"github.com/geotrail/location-log/internal/api/handler"
	"github.com/geotrail/location-log/internal/api/middleware"
	"github.com/geotrail/location-log/internal/core/ports"
)

// RouterOptions carries everything NewRouter wires together.
type RouterOptions struct {
	AuthService     ports.AuthService
	LocationService ports.LocationService
	Tokens          middleware.TokenVerifier
	Readiness       []handler.DependencyCheck
	Logger          zerolog.Logger

	// AuthRequired guards /locations with the bearer middleware.
	AuthRequired bool
	// RoutePrefix, when set, mounts the API under it (e.g. "/api").
	RoutePrefix string
	// MountRoot also mounts the API at "/" next to RoutePrefix.
	MountRoot bool

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	StartedAt  time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "location_log",
		Subsystem:  "http",
		Registerer: opts.Registerer,
	}))
	// Inside the metrics middleware so errors are rendered before status is recorded.
	e.Use(requestLogger(opts.Logger))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(opts.AuthService)
	locationHandler := handler.NewLocationHandler(opts.LocationService)
	healthHandler := handler.NewHealthHandler(opts.StartedAt)
	readinessHandler := handler.NewReadinessHandler(opts.Readiness...)

	var guard []echo.MiddlewareFunc
	if opts.AuthRequired {
		guard = append(guard, middleware.Auth(opts.Tokens))
	}

	for _, prefix := range mountPrefixes(opts.RoutePrefix, opts.MountRoot) {
		g := e.Group(prefix)

		// --- Auth routes ---
		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)

		// --- Location routes ---
		g.POST("/locations", locationHandler.Create, guard...)
		g.GET("/locations", locationHandler.List, guard...)

		// --- Health checks (no auth required) ---
		g.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
		g.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	}

	// --- Operational endpoints, root only ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: opts.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// mountPrefixes lists the path prefixes the API is served under.
func mountPrefixes(prefix string, mountRoot bool) []string {
	if prefix == "" || prefix == "/" {
		return []string{""}
	}
	if mountRoot {
		return []string{prefix, ""}
	}
	return []string{prefix}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn()
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
