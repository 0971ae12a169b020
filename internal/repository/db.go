// Package repository persists processed documents. It speaks plain
// database/sql so the same queries run against PostgreSQL in production
// and an embedded SQLite file in development and tests.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB wraps a *sql.DB with the dialect it was opened for. The pgx pool is
// kept so it can be closed alongside the wrapping handle.
type DB struct {
	*sql.DB
	dialect string
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// Open connects using the dialect implied by the DSN: postgres:// URLs go
// through a pgx pool, anything else is treated as a SQLite path.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if isPostgresDSN(cfg.DSN) {
		return openPostgres(ctx, cfg, logger)
	}
	return openSQLite(cfg, logger)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("db.connect", "dialect", dialectPostgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("db.connect.failed", "error", err)
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "plainclause"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("db.connect.failed", "error", err)
		return nil, fmt.Errorf("connect: %w", err)
	}

	logger.Info("db.connect.ok", "dialect", dialectPostgres)
	return &DB{
		DB:      stdlib.OpenDBFromPool(pool),
		dialect: dialectPostgres,
		pool:    pool,
		logger:  logger,
	}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("db.connect", "dialect", dialectSQLite, "dsn", cfg.DSN)
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		logger.Error("db.connect.failed", "error", err)
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; funneling everything through a single
	// connection also keeps :memory: databases from fragmenting.
	db.SetMaxOpenConns(1)

	return &DB{DB: db, dialect: dialectSQLite, logger: logger}, nil
}

// Close closes the database connections gracefully.
func (d *DB) Close() {
	d.logger.Info("db.close")
	if err := d.DB.Close(); err != nil {
		d.logger.Error("db.close.failed", "error", err)
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// HealthCheck pings the database to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.PingContext(ctx)
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
// Queries are written with ? so SQLite can run them unchanged.
func (d *DB) rebind(query string) string {
	if d.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
