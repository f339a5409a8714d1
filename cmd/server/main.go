package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/factory"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/status"
	redisstorage "github.com/bujinwang/BadmintonGroup-sub005/internal/storage/redis"
)

type config struct {
	Host           string        `env:"HOST" envDefault:""`
	Port           int           `env:"PORT" envDefault:"8080"`
	StorageType    string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL       string        `env:"REDIS_URL"`
	RestDuration   time.Duration `env:"REST_DURATION" envDefault:"15m"`
	ExpiryInterval time.Duration `env:"EXPIRY_CHECK_INTERVAL" envDefault:"30s"`
}

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to parse configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build factory config
	factoryCfg := factory.Config{
		Logger:         logger,
		StorageType:    cfg.StorageType,
		StatusConfig:   status.Config{RestDuration: cfg.RestDuration},
		ExpiryInterval: cfg.ExpiryInterval,
	}

	// Configure Redis if storage type is redis
	if factoryCfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		StatusController:  app.StatusController,
		MatchService:      app.MatchService,
		HubManager:        app.HubManager,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Run the rest-expiry scheduler alongside the server
	go app.ExpiryScheduler.Run(ctx)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
