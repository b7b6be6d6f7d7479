// Package database opens the MySQL connection used by the mysql storage backend.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/certquiz/internal/config"
)

// retryDelay is the base delay between connection attempts.
var retryDelay = 200 * time.Millisecond

// Open opens a MySQL connection using the provided config.
// No connection is made until the pool is used.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

// Connect opens the pool and waits until the server answers a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("Open() > %w", err)
	}
	if err := WaitReady(ctx, "mysql", cfg.ConnectAttempts, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("WaitReady() > %w", err)
	}
	return db, nil
}

// WaitReady calls ping until it succeeds, backing off between at most attempts calls.
func WaitReady(ctx context.Context, name string, attempts uint, ping func(context.Context) error) error {
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		func() error {
			return ping(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Warn("Waiting for the server",
				"server", name,
				"attempt", n+1,
				"error", err,
			)
		}),
	)
}
