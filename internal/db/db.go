package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Settings tune the connection pool. Zero values fall back to defaults
// suited to the API's short transactional queries.
type Settings struct {
	MaxConns        int32
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	PingTimeout     time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.MaxConnIdleTime == 0 {
		s.MaxConnIdleTime = 5 * time.Minute
	}
	if s.MaxConnLifetime == 0 {
		s.MaxConnLifetime = 30 * time.Minute
	}
	if s.PingTimeout == 0 {
		s.PingTimeout = 5 * time.Second
	}
	return s
}

// Connect opens a pgx connection pool with default settings and verifies
// connectivity with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return ConnectWith(ctx, dsn, Settings{})
}

// ConnectWith opens a pgx connection pool using the given settings.
func ConnectWith(ctx context.Context, dsn string, settings Settings) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	settings = settings.withDefaults()
	if settings.MaxConns > 0 {
		cfg.MaxConns = settings.MaxConns
	}
	cfg.MaxConnIdleTime = settings.MaxConnIdleTime
	cfg.MaxConnLifetime = settings.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, settings.PingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}
