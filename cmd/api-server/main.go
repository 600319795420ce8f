package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"cinehub/internal/config"
	"cinehub/internal/database"
	cinehttp "cinehub/internal/http"
	"cinehub/internal/http/handler"
	"cinehub/internal/repository"
	"cinehub/internal/service"
	"cinehub/internal/tmdb"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := database.Connect(ctx, cfg, logger)
	cancel()
	if err != nil {
		// Serving requests against an unreconciled schema is not an
		// option; die loudly.
		logger.Error("database startup failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		cache = redis.NewClient(opts)
		defer cache.Close()
		logger.Info("TMDB response cache enabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	collectionRepo := repository.NewCollectionRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	collectionService := service.NewCollectionService(collectionRepo)
	reminderService := service.NewReminderService(reminderRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	tmdbClient := tmdb.NewClient(cfg.TMDBAPIURL, cfg.TMDBAPIKey, cache, cfg.TMDBCacheTTL, logger)
	fetchService := service.NewTMDBFetchService(tmdbClient, notificationRepo, logger)

	router := cinehttp.NewRouter(cfg, logger, authService, cinehttp.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Collection:   handler.NewCollectionHandler(collectionService),
		Reminder:     handler.NewReminderHandler(reminderService),
		Notification: handler.NewNotificationHandler(notificationService),
		Admin:        handler.NewAdminHandler(fetchService),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("Server starting", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
