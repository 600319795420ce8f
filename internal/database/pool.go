package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"cinehub/internal/config"
)

// Connect opens the shared pgx pool, verifies connectivity and reconciles
// the schema before anyone is allowed to serve requests. The pool is the
// only backpressure mechanism in the system: MaxConns bounds concurrent
// database usage and acquires past it block until a connection is
// released (no acquire timeout; callers bound waits with their request
// context).
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MinConns = int32(cfg.DBMinConns)
	poolCfg.MaxConns = int32(cfg.DBMaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database pool: %w", err)
	}

	// Verify the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Reconcile(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reconcile schema: %w", err)
	}

	logger.Info("Connected to the database successfully",
		"min_conns", cfg.DBMinConns, "max_conns", cfg.DBMaxConns)
	return pool, nil
}
