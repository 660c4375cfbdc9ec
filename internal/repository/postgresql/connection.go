package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurochkinivan/cdr_converter/internal/config"
)

const (
	maxRetries = 5
	retryDelay = 5 * time.Second
)

func ConnectionURL(cfg config.PostgreSQL) string {
	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     cfg.DBName,
		RawQuery: "sslmode=disable",
	}).String()
}

func NewConnection(ctx context.Context, log *slog.Logger, cfg config.PostgreSQL) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, ConnectionURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	ping := Retry(log, pool.Ping, maxRetries, retryDelay)
	if err := ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return pool, nil
}

type PingFunction func(context.Context) error

// Retry calls ping until it succeeds, retries are exhausted or ctx is done.
func Retry(log *slog.Logger, ping PingFunction, retries int, delay time.Duration) PingFunction {
	return func(ctx context.Context) error {
		var err error
		for attempt := 0; attempt <= retries; attempt++ {
			if err = ping(ctx); err == nil {
				return nil
			}

			if attempt == retries {
				break
			}

			log.DebugContext(ctx, "database connection attempt failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_retries", retries),
				slog.String("err", err.Error()),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return err
	}
}
