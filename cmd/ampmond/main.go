package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"amp-monitor-backend/config"
	"amp-monitor-backend/internal/api"
	"amp-monitor-backend/internal/db"
	"amp-monitor-backend/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "ampmond").Logger()

	// .env values feed the env overrides the config loader honors.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file found, relying on system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}
	logger.Info().Str("path", configPath).Str("environment", cfg.App.Environment).Msg("configuration loaded")

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database initialized")

	appStore := store.NewGormStore(gormDB)

	router := api.NewRouter(appStore, cfg, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutdown signal received, stopping services")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown")
	}

	logger.Info().Msg("server gracefully stopped")
}
