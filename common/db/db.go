package db

import (
	"context"
	"fmt"
	"time"

	"github.com/flowshift/quoter/common/config"
	"github.com/flowshift/quoter/common/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 3 * time.Second
)

// DB is the quote store connection pool
type DB struct {
	*pgxpool.Pool
	log *logger.Logger
}

// New connects to Postgres and verifies the connection
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*DB, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected",
		"host", cfg.Database.Host,
		"db", cfg.Database.Database,
		"max_conns", poolConfig.MaxConns,
	)

	return &DB{
		Pool: pool,
		log:  log,
	}, nil
}

// PoolConfig derives pool settings from the service config. Connections are
// tagged with the service name so they can be told apart in pg_stat_activity.
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxIdleTime
	poolConfig.ConnConfig.RuntimeParams["application_name"] = cfg.Service.Name

	return poolConfig, nil
}

// InTx runs fn inside a transaction, committing when it returns nil
func (db *DB) InTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.log.Info("closing database connection pool")
	db.Pool.Close()
}

// Health pings the database and reports pool exhaustion
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return err
	}

	stats := db.Pool.Stat()
	if stats.MaxConns() > 0 && stats.AcquiredConns() >= stats.MaxConns() {
		db.log.Warn("database pool exhausted", "acquired", stats.AcquiredConns(), "max", stats.MaxConns())
	}
	return nil
}
