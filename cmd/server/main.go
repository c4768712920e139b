// @title           Location Log API
// @version         1.0
// @description     Account registration, login and per-device location logging.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geotrail/location-log/internal/app"
	httpserver "github.com/geotrail/location-log/internal/infrastructure/http"
	"github.com/geotrail/location-log/internal/pkg/config"
	"github.com/geotrail/location-log/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.New(logger.Options{Service: "location-log"}).Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "location-log",
	})

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}

	if err := application.CheckStore(ctx); err != nil {
		_ = application.Close(context.Background())
		log.Fatal().Err(err).Msg("database unreachable at startup")
	}

	srv := httpserver.NewServer(cfg.Port, application.Handler(), log)
	runErr := srv.Run(ctx)
	if runErr != nil {
		log.Error().Err(runErr).Msg("http server failed")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := application.Close(closeCtx); err != nil {
		log.Warn().Err(err).Msg("close failed")
	}
	cancel()

	if runErr != nil {
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
