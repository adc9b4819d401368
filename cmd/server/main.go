package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/minebase/playerstats/internal/api"
	"github.com/minebase/playerstats/internal/config"
	"github.com/minebase/playerstats/internal/factory"
	"github.com/minebase/playerstats/internal/services/auth"
	redisstorage "github.com/minebase/playerstats/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Without at least one token nothing could ever upload; generate one
	// so a bare instance is usable without being open
	tokens := cfg.ServerTokens
	if len(tokens) == 0 {
		token, err := auth.GenerateToken()
		if err != nil {
			logger.Error("failed to generate server token", slog.String("error", err.Error()))
			os.Exit(1)
		}
		tokens = []string{token}
		logger.Warn("no server tokens configured, generated one for this run",
			slog.String("token", token))
	}

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:       logger,
		StorageType:  cfg.StorageType,
		ServerTokens: tokens,
	}

	if factoryCfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		ProfileService: app.ProfileService,
		StatsService:   app.StatsService,
		UploadService:  app.UploadService,
	})

	// Create server
	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	server := api.NewServer(router, serverCfg, logger)

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
