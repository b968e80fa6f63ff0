package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ciphersql/sandbox/internal/config"
)

// OpenSandbox opens the shared pgx pool against the read-isolated sandbox
// database. The pool is the only shared mutable resource between requests.
func OpenSandbox(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.SandboxURL)
	if err != nil {
		return nil, fmt.Errorf("parse sandbox dsn: %w", err)
	}
	pc.MaxConns = int32(cfg.SandboxMaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open sandbox pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping sandbox: %w", err)
	}
	return pool, nil
}
