package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgx connection pool from the provided DSN and returns it.
// The pool is configured with sane defaults for this application and traces
// every query.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Connect opens a pool and pings it with exponential backoff until the
// database answers or maxElapsed passes. Only startup retries; request-time
// reads never do.
func Connect(ctx context.Context, dsn string, maxElapsed time.Duration) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("op=postgres.Connect: %w", err)
	}
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 250 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = maxElapsed
	op := func() error {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return pool.Ping(pctx)
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("postgres not ready, retrying", slog.Any("error", err), slog.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(expo, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("op=postgres.Connect: %w", err)
	}
	return pool, nil
}
